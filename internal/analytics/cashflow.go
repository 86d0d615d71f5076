package analytics

import (
	"sort"

	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
	"github.com/shopspring/decimal"
)

// BuildCashflowSeries produces the chronologically ascending cumulative
// cashflow series used for charting. Input order does not matter; an empty
// record set yields an empty series.
func BuildCashflowSeries(records []models.FinancialRecord) []models.CashflowPoint {
	sorted := make([]models.FinancialRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RecordDate.Before(sorted[j].RecordDate)
	})

	points := make([]models.CashflowPoint, 0, len(sorted))
	cumulative := decimal.Zero
	for _, r := range sorted {
		net := r.Revenue.Sub(r.Expenses)
		cumulative = cumulative.Add(net)
		points = append(points, models.CashflowPoint{
			Date:               r.RecordDate.Format("2006-01-02"),
			Revenue:            r.Revenue,
			Expenses:           r.Expenses,
			NetCashflow:        net,
			CumulativeCashflow: cumulative,
		})
	}
	return points
}
