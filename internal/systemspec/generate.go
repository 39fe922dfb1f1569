package systemspec

import (
	"math"

	"exitlayer/internal/audit"
)

// Generate evaluates every rule in order and assembles the specification.
// It is pure: the same response always yields the same output.
func Generate(r audit.Response) Output {
	systems := []System{}
	needs := map[string][]ToolCategory{}
	for _, rule := range rules {
		if !rule.Trigger(r) {
			continue
		}
		sys := rule.Produce(r)
		sys.ID = rule.ID
		systems = append(systems, sys)
		needs[rule.ID] = rule.Needs
	}

	out := Output{
		Systems:            systems,
		Integrations:       assignIntegrations(r, systems, needs),
		Gaps:               findGaps(r),
		AutomationCoverage: automationCoverage(r),
	}
	out.WeekByWeekBuildPlan, out.Backlog = buildPlan(systems)
	out.Summary = summarize(systems, out.AutomationCoverage)
	return out
}

func summarize(systems []System, cov Coverage) Summary {
	s := Summary{
		TotalSystems:       len(systems),
		ByPriority:         map[Priority]int{P0: 0, P1: 0, P2: 0, P3: 0},
		AutomationCoverage: cov.Overall,
	}
	hoursByCategory := map[Category]float64{}
	for _, sys := range systems {
		s.ByPriority[sys.Priority]++
		s.TotalBuildHours += sys.EstimatedBuildHours
		s.WeeklyHoursReclaimed += sys.OwnerTimeReclaimed
		hoursByCategory[sys.Category] += sys.OwnerTimeReclaimed
	}
	s.WeeklyHoursReclaimed = math.Round(s.WeeklyHoursReclaimed*10) / 10
	var best float64
	for _, c := range Categories {
		if h := hoursByCategory[c]; h > best {
			best = h
			s.PrimaryFocus = c
		}
	}
	return s
}
