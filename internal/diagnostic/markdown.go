package diagnostic

import (
	"fmt"
	"strings"

	"exitlayer/internal/shared/util"
)

var severityLabel = map[Severity]string{
	SeverityCritical: "Critical",
	SeverityWarning:  "Needs attention",
	SeverityStrength: "Strength",
}

// Markdown renders the report.
func Markdown(rep Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rep.Title)
	fmt.Fprintf(&b, "**Overall score:** %d/100 (%s)\n\n", rep.OverallScore, rep.Readiness)
	fmt.Fprintf(&b, "%s\n\n", rep.Summary)

	b.WriteString("## Financial Snapshot\n\n")
	if rep.Financial.AnnualRevenue > 0 {
		fmt.Fprintf(&b, "- Annual revenue: %s\n", util.Money(rep.Financial.AnnualRevenue))
		fmt.Fprintf(&b, "- Owner hourly value: %s\n", util.Money(rep.Financial.OwnerHourlyValue))
		fmt.Fprintf(&b, "- Current valuation: %s\n", util.Money(rep.Financial.CurrentValuation))
		fmt.Fprintf(&b, "- Potential valuation: %s\n", util.Money(rep.Financial.PotentialValuation))
		fmt.Fprintf(&b, "- Value gap: %s\n\n", util.Money(rep.Financial.ValueGap))
	}
	fmt.Fprintf(&b, "%s\n\n", rep.Financial.Narrative)

	b.WriteString("## Findings\n\n")
	for _, s := range rep.Sections {
		fmt.Fprintf(&b, "### %s: %d/100 (%s)\n\n", s.Title, s.Score, severityLabel[s.Severity])
		fmt.Fprintf(&b, "**%s.** %s\n\n", s.Headline, s.Body)
		for _, ev := range s.Evidence {
			fmt.Fprintf(&b, "- %s\n", ev)
		}
		if len(s.Evidence) > 0 {
			b.WriteString("\n")
		}
		for _, a := range s.Actions {
			fmt.Fprintf(&b, "- [ ] %s\n", a)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Next Steps\n\n")
	for i, step := range rep.NextSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return b.String()
}
