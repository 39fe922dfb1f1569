package scoring

import (
	"math"

	"exitlayer/internal/audit"
)

const (
	// DefaultProfitMarginPct applies when no margin was reported.
	DefaultProfitMarginPct = 15.0
	targetExitMultiple     = 5.0
	weeksPerMonth          = 4.33

	// maxRevenue caps reported revenue so every derived figure stays finite.
	maxRevenue = 1e12
	// hoursPerWeek caps a single weekly-hours answer.
	hoursPerWeek = 168.0
	// minHourlyBasis: below half an hour a week there is no meaningful hourly value.
	minHourlyBasis = 0.5
)

// operationalHourFields are the weekly hours spent working in the business.
// Strategy time is tracked separately and does not dilute the hourly value.
var operationalHourFields = []string{
	"time_delivery_hrs",
	"time_sales_hrs",
	"time_mgmt_hrs",
	"time_ops_hrs",
}

func operationalHours(r audit.Response) float64 {
	var total float64
	for _, f := range operationalHourFields {
		total += weeklyHours(r, f)
	}
	return total
}

func weeklyHours(r audit.Response, field string) float64 {
	return math.Min(hoursPerWeek, nonNegative(r.Number(field)))
}

func revenue(r audit.Response, field string) float64 {
	return math.Min(maxRevenue, nonNegative(r.Number(field)))
}

func financials(r audit.Response, dims Dimensions) FinancialMetrics {
	monthly := revenue(r, "revenue_monthly_avg")
	annual := revenue(r, "revenue_12mo")
	if monthly == 0 {
		monthly = annual / 12
	}
	if annual == 0 {
		annual = monthly * 12
	}

	hours := operationalHours(r)
	var hourly float64
	if hours >= minHourlyBasis {
		hourly = monthly / hours
	}

	margin := DefaultProfitMarginPct
	if r.HasNumber("profit_margin_pct") {
		margin = math.Max(0, math.Min(100, r.Number("profit_margin_pct")))
	}
	profit := annual * margin / 100

	current := 1.5 + 2.5*float64(dims.Leverage+dims.RevenueRisk+dims.EquityPotential)/300
	currentVal := profit * current
	potentialVal := profit * targetExitMultiple

	return FinancialMetrics{
		MonthlyRevenue:           round(monthly, 2),
		AnnualRevenue:            round(annual, 2),
		TotalWeeklyHours:         hours,
		StrategicHours:           weeklyHours(r, "time_strategy_hrs"),
		OwnerHourlyValue:         round(hourly, 1),
		ProfitMarginPct:          margin,
		AnnualProfit:             round(profit, 0),
		CurrentExitMultiple:      round(current, 2),
		TargetExitMultiple:       targetExitMultiple,
		CurrentValuation:         round(currentVal, 0),
		PotentialValuation:       round(potentialVal, 0),
		ValueGap:                 round(math.Max(0, potentialVal-currentVal), 0),
		OwnerDeliveryCostMonthly: round(weeklyHours(r, "time_delivery_hrs")*hourly*weeksPerMonth, 0),
	}
}

// round also maps NaN and ±Inf to 0 so metrics always serialize.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	out := math.Round(v*p) / p
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}
