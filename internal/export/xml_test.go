package export

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialReportXML(t *testing.T) {
	metrics := models.HealthMetrics{
		ProfitMargin:       42.5,
		BurnRate:           decimal.NewFromInt(1500),
		CashflowTrend:      models.TrendPositive,
		SustainabilityDays: 120,
		HealthScore:        85,
		RiskLevel:          models.RiskLow,
	}
	buckets := []models.PeriodSummary{
		{Period: "2025-04", Revenue: decimal.NewFromInt(900), Expenses: decimal.NewFromInt(300), Profit: decimal.NewFromInt(600), Count: 12},
		{Period: "2025-05", Revenue: decimal.NewFromInt(1100), Expenses: decimal.NewFromInt(450), Profit: decimal.NewFromInt(650), Count: 15},
	}
	warnings := []models.SustainabilityWarning{
		{Type: models.WarningLowMargin, Severity: models.SeverityMedium, Message: "m", Recommendation: "r"},
	}

	out, err := FinancialReportXML("b1", "monthly", metrics, buckets, warnings,
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.SelectElement("financialReport")
	require.NotNil(t, root)
	assert.Equal(t, "b1", root.SelectAttrValue("businessId", ""))

	health := root.SelectElement("healthMetrics")
	require.NotNil(t, health)
	assert.Equal(t, "42.50", health.SelectElement("profitMargin").Text())
	assert.Equal(t, "1500", health.SelectElement("burnRate").Text())
	assert.Equal(t, "low", health.SelectElement("riskLevel").Text())

	periods := root.FindElements("./periods/period")
	require.Len(t, periods, 2)
	assert.Equal(t, "2025-04", periods[0].SelectAttrValue("label", ""))
	assert.Equal(t, "600", periods[0].SelectElement("profit").Text())

	alerts := root.FindElements("./warnings/warning")
	require.Len(t, alerts, 1)
	assert.Equal(t, "low_margin", alerts[0].SelectAttrValue("type", ""))
	assert.Equal(t, "medium", alerts[0].SelectAttrValue("severity", ""))
}

func TestFinancialReportXMLEmpty(t *testing.T) {
	out, err := FinancialReportXML("b1", "daily", models.HealthMetrics{BurnRate: decimal.Zero}, nil, nil, time.Now())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.NotNil(t, doc.SelectElement("financialReport"))
}
