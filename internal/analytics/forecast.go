package analytics

import (
	"time"

	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultProjectionMonths is the horizon used when the caller does not ask
// for a specific one.
const DefaultProjectionMonths = 12

// ProjectBalance extrapolates a month-by-month balance curve from the given
// starting balance and constant monthly burn/revenue rates. The result is
// linear: no compounding, no seasonality. The series includes month 0, so
// it has projectionMonths+1 points, labelled with calendar months starting
// at start.
//
// Runway is null when monthlyBurnRate or currentBalance is non-positive,
// "Sustainable" when revenue covers the burn, and otherwise the whole
// number of months until the balance reaches zero at the current net burn.
func ProjectBalance(currentBalance, monthlyBurnRate, monthlyRevenue decimal.Decimal, projectionMonths int, start time.Time) models.BalanceForecast {
	if projectionMonths <= 0 {
		projectionMonths = DefaultProjectionMonths
	}

	netMonthlyChange := monthlyRevenue.Sub(monthlyBurnRate)
	criticalThreshold := decimal.Zero
	warningThreshold := monthlyBurnRate.Mul(decimal.NewFromInt(3))

	points := make([]models.ProjectionPoint, 0, projectionMonths+1)
	runningBalance := currentBalance
	for month := 0; month <= projectionMonths; month++ {
		points = append(points, models.ProjectionPoint{
			Month:             start.AddDate(0, month, 0).Format("Jan 2006"),
			ProjectedBalance:  runningBalance,
			CriticalThreshold: criticalThreshold,
			WarningThreshold:  warningThreshold,
		})
		runningBalance = runningBalance.Add(netMonthlyChange)
	}

	return models.BalanceForecast{
		Points: points,
		Runway: classifyRunway(currentBalance, monthlyBurnRate, monthlyRevenue),
	}
}

func classifyRunway(currentBalance, monthlyBurnRate, monthlyRevenue decimal.Decimal) models.Runway {
	if !monthlyBurnRate.IsPositive() || !currentBalance.IsPositive() {
		return models.Runway{}
	}
	if monthlyRevenue.GreaterThanOrEqual(monthlyBurnRate) {
		return models.Runway{Valid: true, Sustainable: true}
	}
	netBurn := monthlyBurnRate.Sub(monthlyRevenue)
	months := currentBalance.Div(netBurn).Floor().IntPart()
	return models.Runway{Valid: true, Months: months}
}
