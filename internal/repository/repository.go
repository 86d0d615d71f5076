package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
	"github.com/shopspring/decimal"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// IsMissingRelation reports whether err is Postgres "undefined_table",
// which happens when one of the two record sources has not been migrated in
// this environment.
func IsMissingRelation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "42P01"
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO jenga.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM jenga.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FetchDailyRecords retrieves aggregated per-day rows for a business
func (r *Repository) FetchDailyRecords(businessID string) ([]models.RawDailyRecord, error) {
	query := `
		SELECT id, business_id, record_date, revenue, expenses, currency, notes, created_at, updated_at
		FROM jenga.financial_records
		WHERE business_id = $1
		ORDER BY record_date`
	rows, err := r.db.Query(query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch financial records: %w", err)
	}
	defer rows.Close()

	var records []models.RawDailyRecord
	for rows.Next() {
		var rec models.RawDailyRecord
		if err := rows.Scan(&rec.ID, &rec.BusinessID, &rec.RecordDate, &rec.Revenue,
			&rec.Expenses, &rec.Currency, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan financial record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read financial records: %w", err)
	}
	return records, nil
}

// FetchLegacyTransactions retrieves signed-amount rows from the
// pre-migration transactions table. Rows without a business_id predate
// business scoping and are included.
func (r *Repository) FetchLegacyTransactions(businessID string) ([]models.LegacyTransaction, error) {
	query := `
		SELECT id, business_id, transaction_date, amount, transaction_type, category, description, created_at
		FROM jenga.transactions
		WHERE business_id = $1 OR business_id IS NULL
		ORDER BY transaction_date`
	rows, err := r.db.Query(query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.LegacyTransaction
	for rows.Next() {
		var tx models.LegacyTransaction
		if err := rows.Scan(&tx.ID, &tx.BusinessID, &tx.TransactionDate, &tx.Amount,
			&tx.Type, &tx.Category, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txs, nil
}

// InsertDailyRecord stores one aggregated per-day record
func (r *Repository) InsertDailyRecord(businessID, recordDate string, revenue, expenses decimal.Decimal, currency, notes string) (*models.RawDailyRecord, error) {
	rec := &models.RawDailyRecord{
		ID:         uuid.New().String(),
		BusinessID: sql.NullString{String: businessID, Valid: businessID != ""},
		RecordDate: recordDate,
		Revenue:    decimal.NullDecimal{Decimal: revenue, Valid: true},
		Expenses:   decimal.NullDecimal{Decimal: expenses, Valid: true},
		Currency:   sql.NullString{String: currency, Valid: currency != ""},
		Notes:      sql.NullString{String: notes, Valid: notes != ""},
	}
	query := `
		INSERT INTO jenga.financial_records (id, business_id, record_date, revenue, expenses, currency, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query, rec.ID, rec.BusinessID, rec.RecordDate,
		rec.Revenue, rec.Expenses, rec.Currency, rec.Notes).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert financial record: %w", err)
	}
	return rec, nil
}

// ListBusinesses returns all business profiles with their owner's email
func (r *Repository) ListBusinesses() ([]models.Business, error) {
	query := `
		SELECT b.id, b.name, u.email
		FROM jenga.businesses b
		JOIN jenga.users u ON u.id = b.user_id
		ORDER BY b.name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		var b models.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.OwnerEmail); err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read businesses: %w", err)
	}
	return businesses, nil
}
