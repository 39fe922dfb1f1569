package scoring

import (
	"math"
	"strings"

	"exitlayer/internal/audit"
)

// metric is one weighted sub-score. eval reports false when its inputs are unanswered.
type metric struct {
	field  string
	label  string
	weight float64
	eval   func(audit.Response) (float64, bool)
}

var dimensionMetrics = map[Dimension][]metric{
	Leverage: {
		{field: "owner_involvement_pct", label: "Projects not needing the owner", weight: 0.35, eval: inverted("owner_involvement_pct", 1)},
		{field: "time_delivery_hrs", label: "Owner time outside delivery and admin", weight: 0.25, eval: nonCoreShare},
		{field: "delegation_blockers", label: "Few delegation blockers", weight: 0.20, eval: listPenalty("delegation_blockers", 20)},
		{field: "can_take_2_weeks_off", label: "Business runs without the owner", weight: 0.20, eval: yesNoScore("can_take_2_weeks_off", 100, 50, 20)},
	},
	EquityPotential: {
		{field: "recurring_revenue_pct", label: "Recurring revenue", weight: 0.30, eval: scaled("recurring_revenue_pct", 1)},
		{field: "profit_margin_pct", label: "Profit margin", weight: 0.30, eval: scaled("profit_margin_pct", 2.5)},
		{field: "documented_pct", label: "Documented delivery", weight: 0.20, eval: scaled("documented_pct", 1)},
		{field: "has_sops", label: "SOPs in place", weight: 0.20, eval: yesNoScore("has_sops", 100, 50, 0)},
	},
	RevenueRisk: {
		{field: "top_client_pct", label: "Client concentration", weight: 0.35, eval: inverted("top_client_pct", 1.5)},
		{field: "revenue_trend", label: "Revenue trend", weight: 0.25, eval: choice("revenue_trend", map[string]float64{"growing": 90, "flat": 60, "declining": 20})},
		{field: "pipeline_months", label: "Pipeline coverage", weight: 0.20, eval: scaled("pipeline_months", 25)},
		{field: "churn_last_12mo", label: "Client retention", weight: 0.20, eval: inverted("churn_last_12mo", 10)},
	},
	ProductReadiness: {
		{field: "has_productized_offer", label: "Productized offer", weight: 0.30, eval: yesNoScore("has_productized_offer", 100, 60, 20)},
		{field: "service_standardization_pct", label: "Standardized delivery", weight: 0.30, eval: scaled("service_standardization_pct", 1)},
		{field: "pricing_model", label: "Pricing model", weight: 0.20, eval: choice("pricing_model", map[string]float64{"productized": 100, "retainer": 80, "fixed": 65, "hourly": 30})},
		{field: "has_case_studies", label: "Case studies", weight: 0.20, eval: yesNoScore("has_case_studies", 90, 60, 30)},
	},
	ImplementationCapacity: {
		{field: "team_size_total", label: "Team depth", weight: 0.30, eval: scaled("team_size_total", 15)},
		{field: "has_ops_manager", label: "Operations lead", weight: 0.25, eval: yesNoScore("has_ops_manager", 100, 60, 30)},
		{field: "tech_comfort", label: "Tool adoption", weight: 0.20, eval: scaled("tech_comfort", 20)},
		{field: "available_hours_for_change", label: "Owner hours for implementation", weight: 0.25, eval: scaled("available_hours_for_change", 10)},
	},
}

func evaluateDimension(d Dimension, resp audit.Response) DimensionResult {
	res := DimensionResult{Dimension: d, Label: d.Label(), Drivers: []Driver{}}
	var sum, weight float64
	for _, m := range dimensionMetrics[d] {
		v, ok := m.eval(resp)
		if !ok {
			continue
		}
		v = clamp(v)
		sum += v * m.weight
		weight += m.weight
		res.Drivers = append(res.Drivers, Driver{Field: m.field, Label: m.label, Score: int(math.Round(v)), Weight: m.weight})
	}
	if weight == 0 {
		res.Score = NeutralScore
		return res
	}
	res.Defined = true
	res.Score = int(math.Round(sum / weight))
	return res
}

func scaled(field string, factor float64) func(audit.Response) (float64, bool) {
	return func(r audit.Response) (float64, bool) {
		if !r.HasNumber(field) {
			return 0, false
		}
		return r.Number(field) * factor, true
	}
}

func inverted(field string, factor float64) func(audit.Response) (float64, bool) {
	return func(r audit.Response) (float64, bool) {
		if !r.HasNumber(field) {
			return 0, false
		}
		return 100 - r.Number(field)*factor, true
	}
}

func listPenalty(field string, per float64) func(audit.Response) (float64, bool) {
	return func(r audit.Response) (float64, bool) {
		if _, ok := r[field]; !ok {
			return 0, false
		}
		return 100 - per*float64(len(r.Strings(field))), true
	}
}

func yesNoScore(field string, yes, partial, no float64) func(audit.Response) (float64, bool) {
	return func(r audit.Response) (float64, bool) {
		switch r.YesNo(field) {
		case "Yes":
			return yes, true
		case "Partial":
			return partial, true
		case "No":
			return no, true
		}
		return 0, false
	}
}

func choice(field string, values map[string]float64) func(audit.Response) (float64, bool) {
	return func(r audit.Response) (float64, bool) {
		v, ok := values[strings.ToLower(r.String(field))]
		return v, ok
	}
}

func nonCoreShare(r audit.Response) (float64, bool) {
	answered := r.HasNumber("time_strategy_hrs")
	for _, f := range operationalHourFields {
		answered = answered || r.HasNumber(f)
	}
	if !answered {
		return 0, false
	}
	total := operationalHours(r) + nonNegative(r.Number("time_strategy_hrs"))
	if total <= 0 {
		return 0, false
	}
	core := nonNegative(r.Number("time_delivery_hrs")) + nonNegative(r.Number("time_ops_hrs"))
	return 100 - 100*core/total, true
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func nonNegative(v float64) float64 {
	return math.Max(0, v)
}
