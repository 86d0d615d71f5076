package analytics

import (
	"sort"

	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
	"github.com/shopspring/decimal"
)

// trendWindow is the number of most-recent records compared against the
// window before it. Assumes roughly one record per day; with a sparser
// cadence "recent" no longer means a literal week.
const trendWindow = 7

// impliedMonthRecords normalizes the burn rate to a 30-record month under
// the same one-record-per-day assumption.
const impliedMonthRecords = 30.0

var thirty = decimal.NewFromInt(30)

// CalculateHealthMetrics derives all health indicators from the canonical
// record set. An empty set yields the neutral "insufficient data" baseline
// rather than computed zeros: score 50, medium risk, a full year of runway.
func CalculateHealthMetrics(records []models.FinancialRecord) models.HealthMetrics {
	if len(records) == 0 {
		return models.HealthMetrics{
			BurnRate:           decimal.Zero,
			CashflowTrend:      models.TrendStable,
			SustainabilityDays: 365,
			HealthScore:        50,
			RiskLevel:          models.RiskMedium,
		}
	}

	sorted := make([]models.FinancialRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RecordDate.After(sorted[j].RecordDate)
	})

	totalRevenue := decimal.Zero
	totalExpenses := decimal.Zero
	for _, r := range sorted {
		totalRevenue = totalRevenue.Add(r.Revenue)
		totalExpenses = totalExpenses.Add(r.Expenses)
	}
	totalProfit := totalRevenue.Sub(totalExpenses)

	profitMargin := 0.0
	if totalRevenue.IsPositive() {
		profitMargin = totalProfit.Div(totalRevenue).InexactFloat64() * 100
	}

	months := float64(len(sorted)) / impliedMonthRecords
	if months < 1 {
		months = 1
	}
	burnRate := totalExpenses.Div(decimal.NewFromFloat(months))

	recent := window(sorted, 0, trendWindow)
	previous := window(sorted, trendWindow, 2*trendWindow)
	trend := classifyTrend(averageNet(recent), averageNet(previous))

	// Lifetime profit stands in for cash on hand here; the forecast
	// endpoint takes a real balance when the caller has one.
	sustainabilityDays := 365.0
	if burnRate.IsPositive() {
		sustainabilityDays = totalProfit.Div(burnRate.Div(thirty)).InexactFloat64()
		if sustainabilityDays < 0 {
			sustainabilityDays = 0
		}
	}

	revenueGrowth := growthRate(sumOf(recent, revenueOf), sumOf(previous, revenueOf))
	expenseGrowth := growthRate(sumOf(recent, expensesOf), sumOf(previous, expensesOf))

	score := healthScore(profitMargin, trend, sustainabilityDays)

	return models.HealthMetrics{
		ProfitMargin:       profitMargin,
		BurnRate:           burnRate,
		CashflowTrend:      trend,
		SustainabilityDays: sustainabilityDays,
		RevenueGrowthRate:  revenueGrowth,
		ExpenseGrowthRate:  expenseGrowth,
		HealthScore:        score,
		RiskLevel:          riskLevel(score, sustainabilityDays),
	}
}

func window(sorted []models.FinancialRecord, from, to int) []models.FinancialRecord {
	if from >= len(sorted) {
		return nil
	}
	if to > len(sorted) {
		to = len(sorted)
	}
	return sorted[from:to]
}

// averageNet is the mean daily net cashflow over a window, 0 when empty
func averageNet(records []models.FinancialRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	net := decimal.Zero
	for _, r := range records {
		net = net.Add(r.Revenue.Sub(r.Expenses))
	}
	return net.Div(decimal.NewFromInt(int64(len(records)))).InexactFloat64()
}

func classifyTrend(recentAvg, previousAvg float64) models.Trend {
	switch {
	case recentAvg > previousAvg*1.1:
		return models.TrendPositive
	case recentAvg < previousAvg*0.9:
		return models.TrendNegative
	default:
		return models.TrendStable
	}
}

func revenueOf(r models.FinancialRecord) decimal.Decimal  { return r.Revenue }
func expensesOf(r models.FinancialRecord) decimal.Decimal { return r.Expenses }

func sumOf(records []models.FinancialRecord, field func(models.FinancialRecord) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(field(r))
	}
	return total
}

// growthRate is the percentage change between two window sums, 0 unless the
// previous sum is positive
func growthRate(recent, previous decimal.Decimal) float64 {
	if !previous.IsPositive() {
		return 0
	}
	return recent.Sub(previous).Div(previous).InexactFloat64() * 100
}

// healthScore blends margin, trend and runway into a 0-100 composite,
// starting from a neutral 50
func healthScore(margin float64, trend models.Trend, days float64) int {
	score := 50
	switch {
	case margin > 20:
		score += 20
	case margin > 10:
		score += 10
	case margin < 0:
		score -= 20
	}
	switch trend {
	case models.TrendPositive:
		score += 15
	case models.TrendNegative:
		score -= 15
	}
	if days > 90 {
		score += 15
	} else if days < 30 {
		score -= 20
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func riskLevel(score int, days float64) models.RiskLevel {
	switch {
	case score < 40 || days < 30:
		return models.RiskHigh
	case score < 60 || days < 60:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
