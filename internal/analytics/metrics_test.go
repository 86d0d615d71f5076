package analytics

import (
	"testing"
	"time"

	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(date string, revenue, expenses float64) models.FinancialRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.FinancialRecord{
		ID:         date,
		RecordDate: d,
		Revenue:    decimal.NewFromFloat(revenue),
		Expenses:   decimal.NewFromFloat(expenses),
		Currency:   "KES",
	}
}

// series builds n one-per-day records ending at the given date, walking
// backwards, using per-day revenue/expense values supplied most recent
// first.
func series(end string, revenues, expenses []float64) []models.FinancialRecord {
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		panic(err)
	}
	records := make([]models.FinancialRecord, 0, len(revenues))
	for i := range revenues {
		d := endDate.AddDate(0, 0, -i)
		records = append(records, models.FinancialRecord{
			ID:         d.Format("2006-01-02"),
			RecordDate: d,
			Revenue:    decimal.NewFromFloat(revenues[i]),
			Expenses:   decimal.NewFromFloat(expenses[i]),
		})
	}
	return records
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCalculateHealthMetricsEmptyBaseline(t *testing.T) {
	m := CalculateHealthMetrics(nil)

	assert.Equal(t, 0.0, m.ProfitMargin)
	assert.True(t, m.BurnRate.IsZero())
	assert.Equal(t, models.TrendStable, m.CashflowTrend)
	assert.Equal(t, 365.0, m.SustainabilityDays)
	assert.Equal(t, 0.0, m.RevenueGrowthRate)
	assert.Equal(t, 0.0, m.ExpenseGrowthRate)
	assert.Equal(t, 50, m.HealthScore)
	assert.Equal(t, models.RiskMedium, m.RiskLevel)
}

func TestCalculateHealthMetricsZeroRevenueMargin(t *testing.T) {
	records := series("2025-06-30", repeat(0, 10), repeat(40, 10))

	m := CalculateHealthMetrics(records)

	assert.Equal(t, 0.0, m.ProfitMargin)
}

func TestCalculateHealthMetricsProfitMargin(t *testing.T) {
	// 1000 revenue, 250 expenses -> 75% margin
	records := []models.FinancialRecord{
		record("2025-06-01", 600, 100),
		record("2025-06-02", 400, 150),
	}

	m := CalculateHealthMetrics(records)

	assert.InDelta(t, 75.0, m.ProfitMargin, 1e-9)
}

func TestCalculateHealthMetricsBurnRateNormalization(t *testing.T) {
	// 60 records form two implied months: 600 total expenses -> 300/month
	records := series("2025-06-30", repeat(20, 60), repeat(10, 60))

	m := CalculateHealthMetrics(records)

	assert.Equal(t, "300", m.BurnRate.String())
}

func TestCalculateHealthMetricsBurnRateShortHistory(t *testing.T) {
	// fewer than 30 records still count as one month
	records := series("2025-06-30", repeat(0, 10), repeat(50, 10))

	m := CalculateHealthMetrics(records)

	assert.Equal(t, "500", m.BurnRate.String())
}

func TestCalculateHealthMetricsRunwayWithoutBurn(t *testing.T) {
	records := series("2025-06-30", repeat(100, 5), repeat(0, 5))

	m := CalculateHealthMetrics(records)

	assert.Equal(t, 365.0, m.SustainabilityDays)
}

func TestCalculateHealthMetricsRunwayClampedAtZero(t *testing.T) {
	// lifetime losses: profit is negative so the runway floors at zero
	records := series("2025-06-30", repeat(10, 14), repeat(100, 14))

	m := CalculateHealthMetrics(records)

	assert.Equal(t, 0.0, m.SustainabilityDays)
	assert.Equal(t, models.RiskHigh, m.RiskLevel)
}

func TestCalculateHealthMetricsTrend(t *testing.T) {
	tests := []struct {
		name     string
		revenues []float64
		want     models.Trend
	}{
		{
			name:     "improving recent week",
			revenues: append(repeat(200, 7), repeat(100, 7)...),
			want:     models.TrendPositive,
		},
		{
			name:     "declining recent week",
			revenues: append(repeat(50, 7), repeat(100, 7)...),
			want:     models.TrendNegative,
		},
		{
			name:     "steady weeks",
			revenues: repeat(100, 14),
			want:     models.TrendStable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := series("2025-06-30", tt.revenues, repeat(0, len(tt.revenues)))
			m := CalculateHealthMetrics(records)
			assert.Equal(t, tt.want, m.CashflowTrend)
		})
	}
}

func TestCalculateHealthMetricsGrowthRates(t *testing.T) {
	// recent 7 days: 1400 revenue / 140 expenses,
	// previous 7 days: 700 revenue / 280 expenses
	records := series("2025-06-30",
		append(repeat(200, 7), repeat(100, 7)...),
		append(repeat(20, 7), repeat(40, 7)...),
	)

	m := CalculateHealthMetrics(records)

	assert.InDelta(t, 100.0, m.RevenueGrowthRate, 1e-9)
	assert.InDelta(t, -50.0, m.ExpenseGrowthRate, 1e-9)
}

func TestCalculateHealthMetricsGrowthZeroWithoutBaseline(t *testing.T) {
	// previous window empty: only 5 records exist
	records := series("2025-06-30", repeat(100, 5), repeat(10, 5))

	m := CalculateHealthMetrics(records)

	assert.Equal(t, 0.0, m.RevenueGrowthRate)
	assert.Equal(t, 0.0, m.ExpenseGrowthRate)
}

func TestCalculateHealthMetricsScoreBounds(t *testing.T) {
	// worst case: negative margin, declining trend, no runway
	worst := series("2025-06-30", repeat(10, 14), repeat(100, 14))
	m := CalculateHealthMetrics(worst)
	require.Equal(t, 0, m.HealthScore)

	// best case: fat margin, improving trend, long runway
	best := series("2025-06-30",
		append(repeat(1000, 7), repeat(100, 7)...),
		append(repeat(100, 7), repeat(50, 7)...),
	)
	m = CalculateHealthMetrics(best)
	require.Equal(t, 100, m.HealthScore)
	assert.Equal(t, models.RiskLow, m.RiskLevel)
}

func TestRiskLevelBoundaries(t *testing.T) {
	tests := []struct {
		score int
		days  float64
		want  models.RiskLevel
	}{
		{39, 365, models.RiskHigh},
		{40, 365, models.RiskMedium},
		{100, 29, models.RiskHigh},
		{100, 30, models.RiskMedium}, // 30 days clears high but not medium
		{59, 365, models.RiskMedium},
		{60, 59, models.RiskMedium},
		{60, 60, models.RiskLow},
		{100, 365, models.RiskLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, riskLevel(tt.score, tt.days),
			"score=%d days=%v", tt.score, tt.days)
	}
}

func TestCalculateHealthMetricsOrderIndependent(t *testing.T) {
	records := series("2025-06-30",
		append(repeat(200, 7), repeat(100, 7)...),
		repeat(30, 14),
	)
	reversed := make([]models.FinancialRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	assert.Equal(t, CalculateHealthMetrics(records), CalculateHealthMetrics(reversed))
}
