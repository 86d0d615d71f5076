package analytics

import (
	"time"

	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
	"github.com/shopspring/decimal"
)

// NormalizeResult carries the canonical records produced from one raw source
// plus the number of rows discarded as malformed.
type NormalizeResult struct {
	Records []models.FinancialRecord
	Skipped int
}

// NormalizeDaily converts aggregated per-day rows into canonical records.
// Rows with an unparseable date or a negative revenue/expense amount are
// counted in Skipped and excluded; null amounts default to zero.
func NormalizeDaily(rows []models.RawDailyRecord) NormalizeResult {
	res := NormalizeResult{Records: make([]models.FinancialRecord, 0, len(rows))}
	for _, row := range rows {
		date, ok := parseRecordDate(row.RecordDate)
		if !ok {
			res.Skipped++
			continue
		}
		revenue := nullDecimalValue(row.Revenue)
		expenses := nullDecimalValue(row.Expenses)
		if revenue.IsNegative() || expenses.IsNegative() {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, models.FinancialRecord{
			ID:         row.ID,
			BusinessID: row.BusinessID.String,
			RecordDate: date,
			Revenue:    revenue,
			Expenses:   expenses,
			Currency:   row.Currency.String,
			Notes:      row.Notes.String,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		})
	}
	return res
}

// NormalizeLegacy converts signed-amount transaction rows into canonical
// records: a positive amount becomes revenue, a negative amount's absolute
// value becomes expenses. A single row never contributes to both.
func NormalizeLegacy(rows []models.LegacyTransaction) NormalizeResult {
	res := NormalizeResult{Records: make([]models.FinancialRecord, 0, len(rows))}
	for _, row := range rows {
		date, ok := parseRecordDate(row.TransactionDate)
		if !ok {
			res.Skipped++
			continue
		}
		amount := nullDecimalValue(row.Amount)
		revenue := decimal.Zero
		expenses := decimal.Zero
		if amount.IsNegative() {
			expenses = amount.Abs()
		} else {
			revenue = amount
		}
		res.Records = append(res.Records, models.FinancialRecord{
			ID:         row.ID,
			BusinessID: row.BusinessID.String,
			RecordDate: date,
			Revenue:    revenue,
			Expenses:   expenses,
			Notes:      row.Description.String,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.CreatedAt,
		})
	}
	return res
}

// parseRecordDate accepts the stored YYYY-MM-DD form as well as full
// timestamps some legacy rows carry, truncated to the calendar date.
func parseRecordDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func nullDecimalValue(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
