package analytics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullDec(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func TestNormalizeDaily(t *testing.T) {
	rows := []models.RawDailyRecord{
		{
			ID:         "r1",
			BusinessID: sql.NullString{String: "b1", Valid: true},
			RecordDate: "2025-04-01",
			Revenue:    nullDec(150),
			Expenses:   nullDec(40),
			Currency:   sql.NullString{String: "KES", Valid: true},
			Notes:      sql.NullString{String: "market day", Valid: true},
		},
	}

	res := NormalizeDaily(rows)

	require.Len(t, res.Records, 1)
	assert.Zero(t, res.Skipped)
	rec := res.Records[0]
	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, "b1", rec.BusinessID)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), rec.RecordDate)
	assert.Equal(t, "150", rec.Revenue.String())
	assert.Equal(t, "40", rec.Expenses.String())
	assert.Equal(t, "KES", rec.Currency)
	assert.Equal(t, "market day", rec.Notes)
}

func TestNormalizeDailyDefaultsNullsToZero(t *testing.T) {
	rows := []models.RawDailyRecord{{ID: "r1", RecordDate: "2025-04-01"}}

	res := NormalizeDaily(rows)

	require.Len(t, res.Records, 1)
	assert.True(t, res.Records[0].Revenue.IsZero())
	assert.True(t, res.Records[0].Expenses.IsZero())
	assert.Empty(t, res.Records[0].BusinessID)
	assert.Empty(t, res.Records[0].Currency)
}

func TestNormalizeDailyFiltersMalformedRows(t *testing.T) {
	rows := []models.RawDailyRecord{
		{ID: "bad-date", RecordDate: "not-a-date", Revenue: nullDec(10)},
		{ID: "negative", RecordDate: "2025-04-02", Revenue: nullDec(-5)},
		{ID: "ok", RecordDate: "2025-04-03", Revenue: nullDec(10)},
	}

	res := NormalizeDaily(rows)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "ok", res.Records[0].ID)
	assert.Equal(t, 2, res.Skipped)
}

func TestNormalizeDailyAcceptsTimestampDates(t *testing.T) {
	rows := []models.RawDailyRecord{
		{ID: "r1", RecordDate: "2025-04-01T13:45:00Z", Revenue: nullDec(10)},
	}

	res := NormalizeDaily(rows)

	require.Len(t, res.Records, 1)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), res.Records[0].RecordDate)
}

func TestNormalizeLegacySignSplit(t *testing.T) {
	rows := []models.LegacyTransaction{
		{ID: "t1", TransactionDate: "2025-04-01", Amount: nullDec(-50)},
		{ID: "t2", TransactionDate: "2025-04-02", Amount: nullDec(75)},
	}

	res := NormalizeLegacy(rows)

	require.Len(t, res.Records, 2)
	assert.True(t, res.Records[0].Revenue.IsZero())
	assert.Equal(t, "50", res.Records[0].Expenses.String())
	assert.Equal(t, "75", res.Records[1].Revenue.String())
	assert.True(t, res.Records[1].Expenses.IsZero())
}

func TestNormalizeLegacyFiltersBadDates(t *testing.T) {
	rows := []models.LegacyTransaction{
		{ID: "t1", TransactionDate: "04/01/2025", Amount: nullDec(10)},
	}

	res := NormalizeLegacy(rows)

	assert.Empty(t, res.Records)
	assert.Equal(t, 1, res.Skipped)
}
