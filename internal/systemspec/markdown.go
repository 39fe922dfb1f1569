package systemspec

import (
	"fmt"
	"strings"

	"exitlayer/internal/audit"
	"exitlayer/internal/shared/util"
)

var categoryLabels = map[Category]string{
	CategoryDelivery:    "Delivery",
	CategorySales:       "Sales",
	CategoryClientComms: "Client Communication",
	CategoryOperations:  "Operations",
	CategoryQuality:     "Quality",
}

var gapLabels = map[GapPriority]string{
	GapCritical:  "Critical",
	GapImportant: "Important",
	GapNormal:    "Nice to have",
}

func company(r audit.Response) string {
	if c := r.CompanyName(); c != "" {
		return c
	}
	return "Client"
}

// BuildPlanMarkdown renders the build plan. The Systems Detail section lists
// every system exactly once under its own priority.
func BuildPlanMarkdown(r audit.Response, out Output) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Build Plan: %s\n\n", company(r))

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- Systems: %d (P0: %d, P1: %d, P2: %d, P3: %d)\n",
		out.Summary.TotalSystems, out.Summary.ByPriority[P0], out.Summary.ByPriority[P1], out.Summary.ByPriority[P2], out.Summary.ByPriority[P3])
	fmt.Fprintf(&b, "- Estimated build effort: %d hours\n", out.Summary.TotalBuildHours)
	fmt.Fprintf(&b, "- Owner time reclaimed: %s hours/week\n", util.Hours(out.Summary.WeeklyHoursReclaimed))
	fmt.Fprintf(&b, "- Current automation coverage: %d%%\n", out.Summary.AutomationCoverage)
	if out.Summary.PrimaryFocus != "" {
		fmt.Fprintf(&b, "- Primary focus: %s\n", categoryLabels[out.Summary.PrimaryFocus])
	}
	b.WriteString("\n")

	b.WriteString("## Week-by-Week Plan\n\n")
	for _, w := range out.WeekByWeekBuildPlan {
		fmt.Fprintf(&b, "### Week %d: %s\n\n", w.Week, w.Theme)
		for _, d := range w.Deliverables {
			fmt.Fprintf(&b, "- %s\n", d)
		}
		if w.BuildHours > 0 {
			fmt.Fprintf(&b, "\nBuild effort: %d hours\n", w.BuildHours)
		}
		b.WriteString("\n")
	}
	if len(out.Backlog) > 0 {
		b.WriteString("### Backlog\n\n")
		for _, name := range out.Backlog {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Systems Detail\n\n")
	for _, p := range Priorities {
		var group []System
		for _, s := range out.Systems {
			if s.Priority == p {
				group = append(group, s)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s: %s\n\n", p, p.Label())
		for _, s := range group {
			writeSystem(&b, s)
		}
	}

	b.WriteString("## Integrations\n\n")
	if len(out.Integrations) == 0 {
		b.WriteString("No recognized tools reported yet.\n\n")
	}
	for _, in := range out.Integrations {
		fmt.Fprintf(&b, "- **%s** (%s, %s): %s\n", in.Tool, in.Category, in.Priority, in.Purpose)
	}
	if len(out.Integrations) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Automation Coverage\n\n")
	b.WriteString("| Area | Coverage |\n|---|---|\n")
	for _, c := range Categories {
		fmt.Fprintf(&b, "| %s | %d%% |\n", categoryLabels[c], out.AutomationCoverage.Get(c))
	}
	fmt.Fprintf(&b, "| Overall | %d%% |\n", out.AutomationCoverage.Overall)
	return b.String()
}

func writeSystem(b *strings.Builder, s System) {
	fmt.Fprintf(b, "#### %s\n\n", s.Name)
	fmt.Fprintf(b, "%s\n\n", s.Description)
	fmt.Fprintf(b, "- Type: %s\n- Category: %s\n- Build time: %s (%d hours)\n- Owner time reclaimed: %s hours/week\n",
		s.Type, categoryLabels[s.Category], s.EstimatedBuildTime, s.EstimatedBuildHours, util.Hours(s.OwnerTimeReclaimed))
	if len(s.Integrations) > 0 {
		fmt.Fprintf(b, "- Integrations: %s\n", strings.Join(s.Integrations, ", "))
	}
	fmt.Fprintf(b, "\n**Problem:** %s\n\n**Solution:** %s\n\n**Workflow:**\n\n", s.PRD.Problem, s.PRD.Solution)
	for i, step := range s.PRD.Workflow {
		fmt.Fprintf(b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\n**Success metrics:**\n\n")
	for _, m := range s.PRD.SuccessMetrics {
		fmt.Fprintf(b, "- %s\n", m)
	}
	b.WriteString("\n")
}

// DiscoveryAgendaMarkdown renders the agenda for the discovery call.
func DiscoveryAgendaMarkdown(r audit.Response, out Output) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Discovery Agenda: %s\n\n", company(r))
	if name := r.ContactName(); name != "" {
		fmt.Fprintf(&b, "With %s.\n\n", name)
	}

	b.WriteString("## Objectives\n\n")
	b.WriteString("1. Close the information gaps below\n")
	b.WriteString("2. Confirm tool access for the build\n")
	b.WriteString("3. Validate the proposed P0 and P1 systems\n\n")

	b.WriteString("## Information Gaps\n\n")
	if len(out.Gaps) == 0 {
		b.WriteString("No gaps found in the questionnaire.\n\n")
	}
	for _, p := range GapPriorities {
		var group []Gap
		for _, g := range out.Gaps {
			if g.Priority == p {
				group = append(group, g)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", gapLabels[p])
		for _, g := range group {
			fmt.Fprintf(&b, "- **%s** (`%s`): %s\n", g.Label, g.Field, g.Reason)
			for _, q := range g.Questions {
				fmt.Fprintf(&b, "  - %s\n", q)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Integrations to Confirm\n\n")
	if len(out.Integrations) == 0 {
		b.WriteString("- Ask which tools the team uses daily\n")
	}
	for _, in := range out.Integrations {
		fmt.Fprintf(&b, "- %s: admin access for %s\n", in.Tool, strings.Join(in.RequiredBy, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Systems to Validate\n\n")
	validated := 0
	for _, s := range out.Systems {
		if s.Priority.Rank() > P1.Rank() {
			continue
		}
		validated++
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", s.Name, s.Priority, s.PRD.Problem)
	}
	if validated == 0 {
		b.WriteString("- No urgent systems flagged; confirm priorities with the client\n")
	}
	b.WriteString("\n## Wrap-up\n\n")
	b.WriteString("- Agree on the week 1 scope\n- Schedule the build kickoff\n- List documents to send over\n")
	return b.String()
}
