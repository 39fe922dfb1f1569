package scoring

// Dimension identifies one of the five readiness dimensions.
type Dimension string

const (
	Leverage               Dimension = "leverage"
	EquityPotential        Dimension = "equityPotential"
	RevenueRisk            Dimension = "revenueRisk"
	ProductReadiness       Dimension = "productReadiness"
	ImplementationCapacity Dimension = "implementationCapacity"
)

// DimensionOrder is the fixed evaluation order; it also breaks ties.
var DimensionOrder = []Dimension{
	Leverage,
	EquityPotential,
	RevenueRisk,
	ProductReadiness,
	ImplementationCapacity,
}

var dimensionLabels = map[Dimension]string{
	Leverage:               "Owner Leverage",
	EquityPotential:        "Equity Potential",
	RevenueRisk:            "Revenue Stability",
	ProductReadiness:       "Product Readiness",
	ImplementationCapacity: "Implementation Capacity",
}

// Label returns the display name.
func (d Dimension) Label() string {
	if l, ok := dimensionLabels[d]; ok {
		return l
	}
	return string(d)
}

// NeutralScore is reported for a dimension with no answered inputs.
const NeutralScore = 50

// Dimensions holds the five dimension scores, each 0-100.
type Dimensions struct {
	Leverage               int `json:"leverage"`
	EquityPotential        int `json:"equityPotential"`
	RevenueRisk            int `json:"revenueRisk"`
	ProductReadiness       int `json:"productReadiness"`
	ImplementationCapacity int `json:"implementationCapacity"`
}

// Get returns the score for d.
func (d Dimensions) Get(dim Dimension) int {
	switch dim {
	case Leverage:
		return d.Leverage
	case EquityPotential:
		return d.EquityPotential
	case RevenueRisk:
		return d.RevenueRisk
	case ProductReadiness:
		return d.ProductReadiness
	case ImplementationCapacity:
		return d.ImplementationCapacity
	}
	return 0
}

func (d *Dimensions) set(dim Dimension, v int) {
	switch dim {
	case Leverage:
		d.Leverage = v
	case EquityPotential:
		d.EquityPotential = v
	case RevenueRisk:
		d.RevenueRisk = v
	case ProductReadiness:
		d.ProductReadiness = v
	case ImplementationCapacity:
		d.ImplementationCapacity = v
	}
}

// DimensionRef points at a single dimension and its score.
type DimensionRef struct {
	Dimension Dimension `json:"dimension"`
	Label     string    `json:"label"`
	Score     int       `json:"score"`
}

// Driver is one sub-metric contributing to a dimension.
type Driver struct {
	Field  string  `json:"field"`
	Label  string  `json:"label"`
	Score  int     `json:"score"`
	Weight float64 `json:"weight"`
}

// DimensionResult explains how a dimension score was reached.
type DimensionResult struct {
	Dimension Dimension `json:"dimension"`
	Label     string    `json:"label"`
	Score     int       `json:"score"`
	Weight    float64   `json:"weight"`
	Defined   bool      `json:"defined"`
	Drivers   []Driver  `json:"drivers"`
}

// FinancialMetrics are derived from revenue, margin and owner hours.
type FinancialMetrics struct {
	MonthlyRevenue           float64 `json:"monthlyRevenue"`
	AnnualRevenue            float64 `json:"annualRevenue"`
	TotalWeeklyHours         float64 `json:"totalWeeklyHours"`
	StrategicHours           float64 `json:"strategicHours"`
	OwnerHourlyValue         float64 `json:"ownerHourlyValue"`
	ProfitMarginPct          float64 `json:"profitMarginPct"`
	AnnualProfit             float64 `json:"annualProfit"`
	CurrentExitMultiple      float64 `json:"currentExitMultiple"`
	TargetExitMultiple       float64 `json:"targetExitMultiple"`
	CurrentValuation         float64 `json:"currentValuation"`
	PotentialValuation       float64 `json:"potentialValuation"`
	ValueGap                 float64 `json:"valueGap"`
	OwnerDeliveryCostMonthly float64 `json:"ownerDeliveryCostMonthly"`
}

// Score is the full readiness result for one response.
type Score struct {
	Overall            int               `json:"overall"`
	Dimensions         Dimensions        `json:"dimensions"`
	Breakdown          []DimensionResult `json:"breakdown"`
	FinancialMetrics   FinancialMetrics  `json:"financialMetrics"`
	PrimaryConstraint  *DimensionRef     `json:"primaryConstraint"`
	HighestOpportunity *DimensionRef     `json:"highestOpportunity"`
}

// Result returns the breakdown entry for d.
func (s Score) Result(d Dimension) (DimensionResult, bool) {
	for _, r := range s.Breakdown {
		if r.Dimension == d {
			return r, true
		}
	}
	return DimensionResult{}, false
}
