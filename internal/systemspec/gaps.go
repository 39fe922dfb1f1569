package systemspec

import (
	"sort"

	"exitlayer/internal/audit"
)

type gapRule struct {
	field     string
	label     string
	priority  GapPriority
	reason    string
	questions []string
	missing   func(audit.Response) bool
}

func tooShort(field string, minLen int) func(audit.Response) bool {
	return func(r audit.Response) bool { return r.TextLen(field) < minLen }
}

var gapRules = []gapRule{
	{
		field:    "tasks_only_owner",
		label:    "Tasks only the owner can do",
		priority: GapCritical,
		reason:   "Owner-only tasks define the first systems to build.",
		questions: []string{
			"Walk me through last week: which tasks did only you touch?",
			"What would break if you were unreachable for two weeks?",
		},
		missing: tooShort("tasks_only_owner", 20),
	},
	{
		field:    "delivery_process_description",
		label:    "Delivery process",
		priority: GapCritical,
		reason:   "The delivery workflow cannot be templated without the current steps.",
		questions: []string{
			"Take one recent project: what happened between signature and final delivery?",
			"Where does work usually wait on you?",
		},
		missing: tooShort("delivery_process_description", 40),
	},
	{
		field:    "revenue_12mo",
		label:    "Revenue",
		priority: GapCritical,
		reason:   "Valuation and owner hourly value need revenue.",
		questions: []string{"What was revenue over the last 12 months, and roughly what is a typical month?"},
		missing: func(r audit.Response) bool {
			return !r.HasNumber("revenue_12mo") && !r.HasNumber("revenue_monthly_avg")
		},
	},
	{
		field:     "biggest_frustration",
		label:     "Biggest frustration",
		priority:  GapImportant,
		reason:    "The stated pain anchors which win to deliver first.",
		questions: []string{"If we fixed one thing in the next 30 days, what should it be?"},
		missing:   func(r audit.Response) bool { return !r.Has("biggest_frustration") },
	},
	{
		field:     "tools_used",
		label:     "Tool stack",
		priority:  GapImportant,
		reason:    "Integrations cannot be scoped without the tool list.",
		questions: []string{"Which tools does the team open every day?", "Which logins would we need to build in your stack?"},
		missing:   func(r audit.Response) bool { return len(r.Strings("tools_used")) == 0 },
	},
	{
		field:     "onboarding_steps",
		label:     "Onboarding steps",
		priority:  GapImportant,
		reason:    "Onboarding was marked documented but the steps were not listed.",
		questions: []string{"Can you share the onboarding checklist you use today?"},
		missing: func(r audit.Response) bool {
			return r.IsYes("onboarding_documented") && r.TextLen("onboarding_steps") < 30
		},
	},
	{
		field:     "proposal_process",
		label:     "Proposal process",
		priority:  GapNormal,
		reason:    "Proposal automation needs the current approach.",
		questions: []string{"How long does a proposal take you, and what do you reuse?"},
		missing:   func(r audit.Response) bool { return !r.Has("proposal_process") },
	},
	{
		field:     "services",
		label:     "Service lines",
		priority:  GapNormal,
		reason:    "Service-level revenue and hours sharpen the build priorities.",
		questions: []string{"What are your main services and what does each bring in per month?"},
		missing:   func(r audit.Response) bool { return len(r.Services()) == 0 },
	},
}

func findGaps(r audit.Response) []Gap {
	out := []Gap{}
	for _, g := range gapRules {
		if !g.missing(r) {
			continue
		}
		out = append(out, Gap{
			Field:     g.field,
			Label:     g.label,
			Priority:  g.priority,
			Reason:    g.reason,
			Questions: append([]string(nil), g.questions...),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority.rank() < out[j].Priority.rank() })
	return out
}
