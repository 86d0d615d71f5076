package analytics

import (
	"fmt"
	"time"

	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
)

// Period selects the calendar bucketing for aggregation
type Period string

const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
)

// ParsePeriod validates a period selector from the API surface
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly:
		return Period(s), nil
	case "":
		return PeriodMonthly, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// AggregateByPeriod buckets records into calendar periods, summing revenue
// and expenses per bucket. Profit is derived from the bucket sums after
// aggregation. Output order is unspecified; callers needing chronological
// order sort by the Period key (labels are chosen to sort lexically).
func AggregateByPeriod(records []models.FinancialRecord, period Period) []models.PeriodSummary {
	buckets := make(map[string]*models.PeriodSummary)
	for _, r := range records {
		key := bucketKey(r.RecordDate, period)
		b, ok := buckets[key]
		if !ok {
			b = &models.PeriodSummary{Period: key}
			buckets[key] = b
		}
		b.Revenue = b.Revenue.Add(r.Revenue)
		b.Expenses = b.Expenses.Add(r.Expenses)
		b.Count++
	}

	out := make([]models.PeriodSummary, 0, len(buckets))
	for _, b := range buckets {
		b.Profit = b.Revenue.Sub(b.Expenses)
		out = append(out, *b)
	}
	return out
}

func bucketKey(date time.Time, period Period) string {
	switch period {
	case PeriodWeekly:
		// start of week is Sunday
		sunday := date.AddDate(0, 0, -int(date.Weekday()))
		return sunday.Format("2006-01-02")
	case PeriodMonthly:
		return date.Format("2006-01")
	case PeriodQuarterly:
		quarter := (int(date.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", date.Year(), quarter)
	default:
		return date.Format("2006-01-02")
	}
}
