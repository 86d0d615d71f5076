package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// FinancialRecord is the canonical financial entry all analytics operate on.
// Revenue and expenses are always non-negative; rows that violate this are
// dropped during normalization, never passed downstream.
type FinancialRecord struct {
	ID         string          `json:"id"`
	BusinessID string          `json:"business_id,omitempty"` // empty for pre-migration legacy data
	RecordDate time.Time       `json:"record_date"`
	Revenue    decimal.Decimal `json:"revenue"`
	Expenses   decimal.Decimal `json:"expenses"`
	Currency   string          `json:"currency"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// RawDailyRecord is the aggregated per-day storage shape.
type RawDailyRecord struct {
	ID         string
	BusinessID sql.NullString
	RecordDate string // YYYY-MM-DD as stored
	Revenue    decimal.NullDecimal
	Expenses   decimal.NullDecimal
	Currency   sql.NullString
	Notes      sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LegacyTransaction is the pre-migration signed-amount storage shape. A
// positive amount is income, a negative amount is an expense.
type LegacyTransaction struct {
	ID              string
	BusinessID      sql.NullString
	TransactionDate string
	Amount          decimal.NullDecimal
	Type            sql.NullString
	Category        sql.NullString
	Description     sql.NullString
	CreatedAt       time.Time
}

// Business represents a business profile owned by a user.
type Business struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OwnerEmail string `json:"owner_email"`
}
