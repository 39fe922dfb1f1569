package callprep

import (
	"fmt"
	"strings"

	"exitlayer/internal/shared/util"
)

// Markdown renders the sheet. Section order is fixed.
func Markdown(doc Document) string {
	var b strings.Builder
	qc := doc.QuickContext
	company := qc.Company
	if company == "" {
		company = "Prospect"
	}
	fmt.Fprintf(&b, "# Call Prep: %s\n\n", company)

	b.WriteString("## Quick Context\n\n")
	if qc.Contact != "" {
		fmt.Fprintf(&b, "- Contact: %s", qc.Contact)
		if qc.Role != "" {
			fmt.Fprintf(&b, " (%s)", qc.Role)
		}
		if qc.Email != "" {
			fmt.Fprintf(&b, ", %s", qc.Email)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "- Revenue: %s/year\n", util.Money(qc.AnnualRevenue))
	fmt.Fprintf(&b, "- Team size: %g\n", qc.TeamSize)
	fmt.Fprintf(&b, "- Owner hours: %s/week at %s/hour\n", util.Hours(qc.OwnerWeeklyHours), util.Money(qc.OwnerHourlyValue))
	fmt.Fprintf(&b, "- ExitLayer score: %d/100\n", qc.OverallScore)
	if qc.PrimaryConstraint != "" {
		fmt.Fprintf(&b, "- Primary constraint: %s\n", qc.PrimaryConstraint)
	}
	if qc.ExitTimeline != "" {
		fmt.Fprintf(&b, "- Exit timeline: %s\n", qc.ExitTimeline)
	}
	b.WriteString("\n")

	b.WriteString("## Build Hypothesis\n\n")
	for _, h := range doc.BuildHypothesis {
		fmt.Fprintf(&b, "%d. **%s** (priority %d, ~%s hrs/week): %s\n", h.Priority, h.Name, h.Priority, util.Hours(h.HoursReclaimed), h.Rationale)
	}
	if len(doc.BuildHypothesis) == 0 {
		b.WriteString("No systems flagged.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Mechanism Hypothesis\n\n")
	for _, m := range doc.MechanismHypothesis {
		fmt.Fprintf(&b, "- **%s.** %s\n", m.Mechanism, m.Evidence)
	}
	b.WriteString("\n")

	b.WriteString("## Call Sections\n\n")
	for _, s := range doc.CallSections {
		fmt.Fprintf(&b, "### %s (%d min)\n\n", s.Title, s.Minutes)
		for _, q := range s.Questions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		if len(s.ListenFor) > 0 {
			fmt.Fprintf(&b, "\n_Listen for:_ %s\n", strings.Join(s.ListenFor, "; "))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Red Flags\n\n")
	if len(doc.RedFlags) == 0 {
		b.WriteString("None found.\n")
	}
	for _, f := range doc.RedFlags {
		fmt.Fprintf(&b, "- %s\n  - Probe: %s\n", f.Observation, f.Probe)
	}
	b.WriteString("\n")

	b.WriteString("## Show-Me Requests\n\n")
	for _, s := range doc.ShowMeRequests {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\n")

	b.WriteString("## Quick Wins\n\n")
	for _, w := range doc.QuickWins {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", w.Title, w.Effort, w.Description)
	}
	b.WriteString("\n")

	b.WriteString("## Post-Call Needs\n\n")
	for _, n := range doc.PostCallNeeds {
		fmt.Fprintf(&b, "- [ ] %s\n", n)
	}
	return b.String()
}
