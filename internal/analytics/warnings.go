package analytics

import (
	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
)

// GenerateWarnings evaluates a metrics snapshot against fixed sustainability
// thresholds. Rules are independent, so a snapshot may produce zero, one or
// several warnings; the returned order is the evaluation order below.
func GenerateWarnings(m models.HealthMetrics) []models.SustainabilityWarning {
	warnings := []models.SustainabilityWarning{}

	if m.BurnRate.InexactFloat64() > m.RevenueGrowthRate*1.5 {
		warnings = append(warnings, models.SustainabilityWarning{
			Type:           models.WarningBurnRate,
			Severity:       models.SeverityHigh,
			Message:        "Your burn rate is outpacing revenue growth.",
			Recommendation: "Review recurring expenses and cut non-essential spending to slow your monthly outflow.",
		})
	}

	if m.CashflowTrend == models.TrendNegative {
		warnings = append(warnings, models.SustainabilityWarning{
			Type:           models.WarningNegativeTrend,
			Severity:       models.SeverityMedium,
			Message:        "Your cashflow has been declining recently.",
			Recommendation: "Compare this period's income against the previous one and identify what changed.",
		})
	}

	if m.ProfitMargin < 10 {
		severity := models.SeverityMedium
		if m.ProfitMargin < 0 {
			severity = models.SeverityHigh
		}
		warnings = append(warnings, models.SustainabilityWarning{
			Type:           models.WarningLowMargin,
			Severity:       severity,
			Message:        "Your profit margin is below a healthy level.",
			Recommendation: "Consider raising prices or reducing cost of sales to improve your margin.",
		})
	}

	if m.SustainabilityDays < 60 {
		severity := models.SeverityMedium
		if m.SustainabilityDays < 30 {
			severity = models.SeverityHigh
		}
		warnings = append(warnings, models.SustainabilityWarning{
			Type:           models.WarningBurnRate,
			Severity:       severity,
			Message:        "At the current burn rate your funds will run out soon.",
			Recommendation: "Build a cash buffer now: defer large purchases and chase outstanding payments.",
		})
	}

	return warnings
}
