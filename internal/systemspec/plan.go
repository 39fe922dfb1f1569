package systemspec

import (
	"sort"
)

// MaxSystemsPerWeek caps how many systems one build week takes on.
const MaxSystemsPerWeek = 3

type weekTemplate struct {
	theme    string
	focus    Priority
	standing []string
}

var buildTemplate = []weekTemplate{
	{theme: "Foundation", focus: P0, standing: []string{"Kickoff and tool access", "Baseline owner hours"}},
	{theme: "Core Systems", focus: P1, standing: []string{"Team walkthrough of week 1 systems"}},
	{theme: "Scale & Visibility", focus: P2, standing: []string{"Mid-sprint metrics review"}},
	{theme: "Optimization & Handoff", focus: P3, standing: []string{"Team training and handoff", "Owner hours re-measured"}},
}

// buildPlan slots systems into the week matching their priority, highest
// reclaimed hours first. Systems past the weekly cap go to the backlog.
func buildPlan(systems []System) ([]WeekPlan, []string) {
	weeks := make([]WeekPlan, 0, len(buildTemplate))
	backlog := []string{}
	for i, tpl := range buildTemplate {
		var matched []System
		for _, s := range systems {
			if s.Priority == tpl.focus {
				matched = append(matched, s)
			}
		}
		sort.SliceStable(matched, func(a, b int) bool {
			return matched[a].OwnerTimeReclaimed > matched[b].OwnerTimeReclaimed
		})
		week := WeekPlan{
			Week:         i + 1,
			Theme:        tpl.theme,
			Focus:        tpl.focus,
			Systems:      []PlannedSystem{},
			Deliverables: []string{},
		}
		for j, s := range matched {
			if j >= MaxSystemsPerWeek {
				backlog = append(backlog, s.Name)
				continue
			}
			week.Systems = append(week.Systems, PlannedSystem{ID: s.ID, Name: s.Name, Priority: s.Priority, BuildHours: s.EstimatedBuildHours})
			week.Deliverables = append(week.Deliverables, s.Name+" live")
			week.BuildHours += s.EstimatedBuildHours
		}
		week.Deliverables = append(week.Deliverables, tpl.standing...)
		weeks = append(weeks, week)
	}
	return weeks, backlog
}
