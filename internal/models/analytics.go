package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Trend classifies the recent cashflow direction
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
	TrendStable   Trend = "stable"
)

// RiskLevel is the overall sustainability risk tier
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// HealthMetrics represents derived financial health indicators for a
// business. It is recomputed in full from the record set on every request
// and is never stored.
type HealthMetrics struct {
	ProfitMargin       float64         `json:"profit_margin"` // percent
	BurnRate           decimal.Decimal `json:"burn_rate"`     // currency per month
	CashflowTrend      Trend           `json:"cashflow_trend"`
	SustainabilityDays float64         `json:"sustainability_days"`
	RevenueGrowthRate  float64         `json:"revenue_growth_rate"` // percent
	ExpenseGrowthRate  float64         `json:"expense_growth_rate"` // percent
	HealthScore        int             `json:"health_score"`        // 0-100
	RiskLevel          RiskLevel       `json:"risk_level"`
}

// CashflowPoint represents one entry of the cumulative cashflow series
type CashflowPoint struct {
	Date               string          `json:"date"` // Format: YYYY-MM-DD
	Revenue            decimal.Decimal `json:"revenue"`
	Expenses           decimal.Decimal `json:"expenses"`
	NetCashflow        decimal.Decimal `json:"net_cashflow"`
	CumulativeCashflow decimal.Decimal `json:"cumulative_cashflow"`
}

// PeriodSummary represents records aggregated into one calendar bucket
type PeriodSummary struct {
	Period   string          `json:"period"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
	Count    int             `json:"count"`
}

// WarningType identifies the sustainability rule that fired
type WarningType string

const (
	WarningBurnRate         WarningType = "burn_rate"
	WarningNegativeTrend    WarningType = "negative_trend"
	WarningLowMargin        WarningType = "low_margin"
	WarningIrregularRevenue WarningType = "irregular_revenue"
)

// Severity ranks a sustainability warning
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SustainabilityWarning is an advisory produced from a metrics snapshot
type SustainabilityWarning struct {
	Type           WarningType `json:"type"`
	Severity       Severity    `json:"severity"`
	Message        string      `json:"message"`
	Recommendation string      `json:"recommendation"`
}

// ProjectionPoint represents one month of the balance projection. The two
// threshold values are constant per projection and carried for charting.
type ProjectionPoint struct {
	Month             string          `json:"month"` // e.g. "Mar 2026"
	ProjectedBalance  decimal.Decimal `json:"projected_balance"`
	CriticalThreshold decimal.Decimal `json:"critical_threshold"`
	WarningThreshold  decimal.Decimal `json:"warning_threshold"`
}

// Runway is the months-until-zero classification of a projection. It
// serializes as null (no basis to project), the string "Sustainable"
// (revenue covers burn), or an integer month count.
type Runway struct {
	Valid       bool
	Sustainable bool
	Months      int64
}

// MarshalJSON implements the null / "Sustainable" / integer encoding
func (r Runway) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	if r.Sustainable {
		return json.Marshal("Sustainable")
	}
	return json.Marshal(r.Months)
}

// BalanceForecast represents a forward-looking balance projection
type BalanceForecast struct {
	Points []ProjectionPoint `json:"points"`
	Runway Runway            `json:"runway"`
}
