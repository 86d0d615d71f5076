package export

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
)

// FinancialReportXML renders a health-metrics snapshot, period aggregates
// and sustainability warnings as an indented XML document for download.
func FinancialReportXML(businessID, period string, metrics models.HealthMetrics, buckets []models.PeriodSummary, warnings []models.SustainabilityWarning, generatedAt time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	report := doc.CreateElement("financialReport")
	report.CreateAttr("businessId", businessID)
	report.CreateAttr("generatedAt", generatedAt.UTC().Format(time.RFC3339))

	health := report.CreateElement("healthMetrics")
	health.CreateElement("profitMargin").SetText(fmt.Sprintf("%.2f", metrics.ProfitMargin))
	health.CreateElement("burnRate").SetText(metrics.BurnRate.String())
	health.CreateElement("cashflowTrend").SetText(string(metrics.CashflowTrend))
	health.CreateElement("sustainabilityDays").SetText(fmt.Sprintf("%.1f", metrics.SustainabilityDays))
	health.CreateElement("revenueGrowthRate").SetText(fmt.Sprintf("%.2f", metrics.RevenueGrowthRate))
	health.CreateElement("expenseGrowthRate").SetText(fmt.Sprintf("%.2f", metrics.ExpenseGrowthRate))
	health.CreateElement("healthScore").SetText(fmt.Sprintf("%d", metrics.HealthScore))
	health.CreateElement("riskLevel").SetText(string(metrics.RiskLevel))

	periods := report.CreateElement("periods")
	periods.CreateAttr("granularity", period)
	for _, b := range buckets {
		el := periods.CreateElement("period")
		el.CreateAttr("label", b.Period)
		el.CreateAttr("records", fmt.Sprintf("%d", b.Count))
		el.CreateElement("revenue").SetText(b.Revenue.String())
		el.CreateElement("expenses").SetText(b.Expenses.String())
		el.CreateElement("profit").SetText(b.Profit.String())
	}

	alerts := report.CreateElement("warnings")
	for _, w := range warnings {
		el := alerts.CreateElement("warning")
		el.CreateAttr("type", string(w.Type))
		el.CreateAttr("severity", string(w.Severity))
		el.CreateElement("message").SetText(w.Message)
		el.CreateElement("recommendation").SetText(w.Recommendation)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render report XML: %w", err)
	}
	return out, nil
}
