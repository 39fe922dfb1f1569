package callprep

import (
	"fmt"
	"strings"

	"exitlayer/internal/audit"
)

type sectionRule struct {
	id      string
	title   string
	minutes int
	when    func(audit.Response) bool
	build   func(audit.Response) ([]string, []string)
}

func always(audit.Response) bool { return true }

var sectionRules = []sectionRule{
	{
		id: "opening", title: "Opening & Goals", minutes: 5, when: always,
		build: func(r audit.Response) ([]string, []string) {
			qs := []string{"What made you fill out the audit now?", "What would make this call a win for you?"}
			if r.Has("ideal_role") {
				qs = append(qs, fmt.Sprintf("You described your ideal role as %q. What is stopping that today?", r.String("ideal_role")))
			}
			return qs, []string{"Urgency and trigger event", "Whether the goal is freedom, growth or exit"}
		},
	},
	{
		id: "owner-dependency", title: "Owner Dependency", minutes: 10,
		when: func(r audit.Response) bool {
			return r.Number("owner_involvement_pct") >= 40 || r.Has("tasks_only_owner") || r.IsNo("can_take_2_weeks_off")
		},
		build: func(r audit.Response) ([]string, []string) {
			qs := []string{"Walk me through yesterday. Which hours could only you have done?"}
			if r.Has("tasks_only_owner") {
				qs = append(qs, fmt.Sprintf("You listed %q as owner-only. Who comes closest to doing it today?", r.String("tasks_only_owner")))
			}
			qs = append(qs, "If you disappeared for a month, what breaks first?")
			return qs, []string{"Tasks the owner defends as special", "Whether the blocker is skill, trust or documentation"}
		},
	},
	{
		id: "process-documentation", title: "Process Documentation", minutes: 8,
		when: func(r audit.Response) bool { return !r.IsYes("has_sops") },
		build: func(r audit.Response) ([]string, []string) {
			return []string{
					"How does a new hire learn to deliver your core service today?",
					"Which process would you document first if you had the time?",
				},
				[]string{"Loom videos or docs that exist but are not called SOPs", "Processes that change with every client"}
		},
	},
	{
		id: "sales-pipeline", title: "Sales & Pipeline", minutes: 8,
		when: func(r audit.Response) bool {
			crm := strings.ToLower(r.String("crm"))
			return r.Number("time_sales_hrs") >= 5 || crm == "" || crm == "none" ||
				(r.HasNumber("pipeline_months") && r.Number("pipeline_months") < 2)
		},
		build: func(r audit.Response) ([]string, []string) {
			return []string{
					"Where did your last three clients come from?",
					"Who besides you can run a sales call today?",
					"How do you decide what to charge?",
				},
				[]string{"Founder-led sales with no handoff", "Pricing decided case by case"}
		},
	},
	{
		id: "team-capacity", title: "Team Capacity", minutes: 7,
		when: func(r audit.Response) bool { return r.HasNumber("team_size_total") },
		build: func(r audit.Response) ([]string, []string) {
			qs := []string{"Who on the team would own a new system once it is built?"}
			if !r.IsYes("has_ops_manager") {
				qs = append(qs, "Who handles operations when you are busy with clients?")
			}
			return qs, []string{"A natural systems owner", "Capacity already stretched by delivery"}
		},
	},
	{
		id: "client-concentration", title: "Client Concentration", minutes: 5,
		when: func(r audit.Response) bool { return r.Number("top_client_pct") >= 25 },
		build: func(r audit.Response) ([]string, []string) {
			return []string{
					fmt.Sprintf("Your largest client is %g%% of revenue. What is the contract term?", r.Number("top_client_pct")),
					"Who owns that relationship day to day?",
				},
				[]string{"Relationship held personally by the owner", "Renewal risk in the next 12 months"}
		},
	},
	{
		id: "tools", title: "Tools & Integrations", minutes: 5,
		when: func(r audit.Response) bool { return len(r.Strings("tools_used")) > 0 },
		build: func(r audit.Response) ([]string, []string) {
			return []string{
					fmt.Sprintf("You use %s. Which one is the source of truth for client work?", strings.Join(r.Strings("tools_used"), ", ")),
					"Who has admin access to each tool?",
				},
				[]string{"Duplicate tools doing the same job", "Access we will need for the build"}
		},
	},
	{
		id: "exit-readiness", title: "Exit Readiness", minutes: 5,
		when: func(r audit.Response) bool {
			return r.Has("exit_timeline") && !r.Equals("exit_timeline", "Not planning")
		},
		build: func(r audit.Response) ([]string, []string) {
			qs := []string{fmt.Sprintf("You mentioned an exit in %s. What would a good outcome look like?", r.String("exit_timeline"))}
			if r.HasNumber("target_valuation") {
				qs = append(qs, "How did you arrive at your target valuation?")
			}
			return qs, []string{"Realism of the timeline", "Whether a buyer conversation has started"}
		},
	},
}

func callSections(r audit.Response) []Section {
	out := []Section{}
	for _, rule := range sectionRules {
		if !rule.when(r) {
			continue
		}
		qs, listen := rule.build(r)
		out = append(out, Section{ID: rule.id, Title: rule.title, Minutes: rule.minutes, Questions: qs, ListenFor: listen})
	}
	return out
}
