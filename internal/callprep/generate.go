package callprep

import (
	"fmt"
	"sort"
	"strings"

	"exitlayer/internal/audit"
	"exitlayer/internal/scoring"
	"exitlayer/internal/systemspec"
)

const (
	maxHypotheses = 5
	maxQuickWins  = 5
)

// Generate builds the call-prep sheet using the default score weights.
func Generate(r audit.Response) Document {
	return GenerateWith(r, scoring.Calculate(r), systemspec.Generate(r))
}

// GenerateWith builds the call-prep sheet from an already computed score and spec.
func GenerateWith(r audit.Response, score scoring.Score, spec systemspec.Output) Document {
	return Document{
		QuickContext:        quickContext(r, score),
		BuildHypothesis:     hypotheses(spec),
		MechanismHypothesis: mechanisms(r),
		CallSections:        callSections(r),
		RedFlags:            redFlags(r),
		ShowMeRequests:      showMe(r),
		QuickWins:           quickWins(r),
		PostCallNeeds:       postCallNeeds(r, spec),
	}
}

func quickContext(r audit.Response, score scoring.Score) QuickContext {
	qc := QuickContext{
		Company:          r.CompanyName(),
		Contact:          r.ContactName(),
		Email:            r.ContactEmail(),
		Role:             r.String("role"),
		AnnualRevenue:    score.FinancialMetrics.AnnualRevenue,
		TeamSize:         r.Number("team_size_total"),
		OwnerWeeklyHours: score.FinancialMetrics.TotalWeeklyHours + score.FinancialMetrics.StrategicHours,
		OwnerHourlyValue: score.FinancialMetrics.OwnerHourlyValue,
		OverallScore:     score.Overall,
		ExitTimeline:     r.String("exit_timeline"),
	}
	if score.PrimaryConstraint != nil {
		qc.PrimaryConstraint = score.PrimaryConstraint.Label
	}
	return qc
}

// hypotheses ranks spec systems by priority; the stable sort keeps rule order within a priority.
func hypotheses(spec systemspec.Output) []Hypothesis {
	out := make([]Hypothesis, 0, len(spec.Systems))
	for _, s := range spec.Systems {
		out = append(out, Hypothesis{
			Priority:       s.Priority.Rank() + 1,
			SystemID:       s.ID,
			Name:           s.Name,
			Rationale:      s.PRD.Problem,
			HoursReclaimed: s.OwnerTimeReclaimed,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	if len(out) > maxHypotheses {
		out = out[:maxHypotheses]
	}
	return out
}

func mechanisms(r audit.Response) []Mechanism {
	out := []Mechanism{}
	if r.Number("owner_involvement_pct") >= 50 {
		out = append(out, Mechanism{
			Mechanism: "The owner is the delivery bottleneck",
			Evidence:  fmt.Sprintf("%g%% of projects need the owner personally.", r.Number("owner_involvement_pct")),
		})
	}
	if r.Has("tasks_only_owner") {
		out = append(out, Mechanism{
			Mechanism: "Judgment work has never been written down",
			Evidence:  fmt.Sprintf("Owner-only tasks: %s", r.String("tasks_only_owner")),
		})
	}
	if r.Number("time_sales_hrs") >= 8 {
		out = append(out, Mechanism{
			Mechanism: "Sales is founder-led",
			Evidence:  fmt.Sprintf("The owner spends %g hours a week selling.", r.Number("time_sales_hrs")),
		})
	}
	if !r.IsYes("has_sops") {
		out = append(out, Mechanism{
			Mechanism: "Knowledge is tribal",
			Evidence:  "No complete SOP library was reported.",
		})
	}
	if r.Number("top_client_pct") >= 30 {
		out = append(out, Mechanism{
			Mechanism: "Revenue rides on one relationship",
			Evidence:  fmt.Sprintf("The largest client is %g%% of revenue.", r.Number("top_client_pct")),
		})
	}
	if len(out) == 0 {
		out = append(out, Mechanism{
			Mechanism: "No single mechanism stands out",
			Evidence:  "Use the call to map where the owner's week actually goes.",
		})
	}
	return out
}

func showMe(r audit.Response) []string {
	out := []string{}
	if yn := r.YesNo("has_sops"); yn == "Yes" || yn == "Partial" {
		where := "your SOP library"
		if loc := r.String("sop_location"); loc != "" {
			where = fmt.Sprintf("your SOP library in %s", loc)
		}
		out = append(out, "Show me "+where)
	}
	if crm := r.String("crm"); crm != "" && !strings.EqualFold(crm, "none") {
		out = append(out, fmt.Sprintf("Walk me through one open deal in %s", crm))
	}
	if r.Equals("reporting_process", "Manual") || r.Equals("reporting_process", "Automated") {
		out = append(out, "Show me the last report you sent a client")
	}
	if pm := r.String("project_mgmt_tool"); pm != "" && !strings.EqualFold(pm, "none") {
		out = append(out, fmt.Sprintf("Share your screen on a live project in %s", pm))
	}
	if r.IsYes("onboarding_documented") {
		out = append(out, "Show me the onboarding checklist")
	}
	out = append(out, "Show me your calendar from last week")
	return out
}

func quickWins(r audit.Response) []QuickWin {
	out := []QuickWin{}
	add := func(w QuickWin) {
		if len(out) < maxQuickWins {
			out = append(out, w)
		}
	}
	if r.Equals("reporting_process", "Manual") {
		add(QuickWin{Title: "Client report template", Description: "Turn the last manual report into a reusable template.", Effort: "2 hours"})
	}
	if !r.Has("client_comm_cadence") || r.Equals("client_comm_cadence", "Ad hoc") {
		add(QuickWin{Title: "Weekly client update", Description: "Set a fixed weekly update with a three-line template.", Effort: "1 hour"})
	}
	if r.IsNo("can_take_2_weeks_off") {
		add(QuickWin{Title: "Out-of-office playbook", Description: "List who covers each owner task during a week away.", Effort: "2 hours"})
	}
	if !r.IsYes("has_sops") {
		add(QuickWin{Title: "Record three walkthroughs", Description: "Screen-record the three most repeated tasks this week.", Effort: "1 hour"})
	}
	if r.Number("time_sales_hrs") >= 8 {
		add(QuickWin{Title: "Proposal boilerplate", Description: "Save the best recent proposal as the starting template.", Effort: "1 hour"})
	}
	add(QuickWin{Title: "Weekly systems hour", Description: "Block one recurring hour for systems work.", Effort: "15 minutes"})
	return out
}

func postCallNeeds(r audit.Response, spec systemspec.Output) []string {
	out := []string{}
	for _, g := range spec.Gaps {
		out = append(out, fmt.Sprintf("Confirm %s (%s)", strings.ToLower(g.Label), g.Field))
	}
	if !r.IsNo("has_sops") {
		out = append(out, "Export of existing SOPs and templates")
	}
	out = append(out, "Org chart with roles and owners")
	if len(spec.Integrations) > 0 {
		tools := make([]string, 0, len(spec.Integrations))
		for _, in := range spec.Integrations {
			tools = append(tools, in.Tool)
		}
		out = append(out, "Admin access to "+strings.Join(tools, ", "))
	}
	out = append(out, "Signed build agreement and kickoff date")
	return out
}
