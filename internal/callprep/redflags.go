package callprep

import (
	"fmt"
	"math"

	"exitlayer/internal/audit"
	"exitlayer/internal/shared/util"
)

type redFlagCheck struct {
	id    string
	check func(audit.Response) (observation, probe string, ok bool)
}

// redFlagChecks are independent; each compares a pair of answers.
var redFlagChecks = []redFlagCheck{
	{
		id: "onboarding-documented-but-owner-led",
		check: func(r audit.Response) (string, string, bool) {
			if !(r.IsYes("onboarding_documented") && r.IsNo("team_can_onboard")) {
				return "", "", false
			}
			return "Onboarding is documented, yet the team cannot onboard a client without the owner.",
				"When a new client signs, what part of the documented onboarding still needs you?", true
		},
	},
	{
		id: "sops-claimed-low-coverage",
		check: func(r audit.Response) (string, string, bool) {
			if !(r.IsYes("has_sops") && r.HasNumber("documented_pct") && r.Number("documented_pct") < 30) {
				return "", "", false
			}
			return fmt.Sprintf("SOPs are reported as in place, but only %g%% of delivery is documented.", r.Number("documented_pct")),
				"Which SOPs did someone other than you use last week?", true
		},
	},
	{
		id: "high-involvement-but-time-off",
		check: func(r audit.Response) (string, string, bool) {
			if !(r.Number("owner_involvement_pct") >= 70 && r.IsYes("can_take_2_weeks_off")) {
				return "", "", false
			}
			return fmt.Sprintf("The owner is needed on %g%% of projects but says they could take two weeks off.", r.Number("owner_involvement_pct")),
				"When did you last take two weeks fully offline, and what happened to active projects?", true
		},
	},
	{
		id: "ops-manager-but-owner-runs-ops",
		check: func(r audit.Response) (string, string, bool) {
			if !(r.IsYes("has_ops_manager") && r.Number("time_ops_hrs") >= 15) {
				return "", "", false
			}
			return fmt.Sprintf("There is an operations manager, yet the owner still spends %g hours a week on operations.", r.Number("time_ops_hrs")),
				"What does your ops manager hand back to you, and why?", true
		},
	},
	{
		id: "short-exit-low-recurring",
		check: func(r audit.Response) (string, string, bool) {
			if !(r.Equals("exit_timeline", "<1 year") && r.HasNumber("recurring_revenue_pct") && r.Number("recurring_revenue_pct") < 20) {
				return "", "", false
			}
			return "The owner wants an exit within a year with under 20% recurring revenue.",
				"What is driving the timeline, and have you spoken to any buyers yet?", true
		},
	},
	{
		id: "revenue-figures-disagree",
		check: func(r audit.Response) (string, string, bool) {
			annual, monthly := r.Number("revenue_12mo"), r.Number("revenue_monthly_avg")
			if annual <= 0 || monthly <= 0 {
				return "", "", false
			}
			if math.Abs(monthly*12-annual)/annual <= 0.30 {
				return "", "", false
			}
			return fmt.Sprintf("Monthly revenue (%s) does not line up with 12-month revenue (%s).", util.Money(monthly), util.Money(annual)),
				"Is revenue seasonal or has it changed recently? Which figure reflects today?", true
		},
	},
	{
		id: "growth-on-one-client",
		check: func(r audit.Response) (string, string, bool) {
			if !(r.Equals("revenue_trend", "Growing") && r.Number("top_client_pct") >= 40) {
				return "", "", false
			}
			return fmt.Sprintf("Revenue is growing, but the largest client is %g%% of revenue.", r.Number("top_client_pct")),
				"How much of the growth came from your largest client, and what is the contract term?", true
		},
	},
	{
		id: "large-team-owner-dependent",
		check: func(r audit.Response) (string, string, bool) {
			if !(r.Number("team_size_total") >= 10 && r.Number("owner_involvement_pct") >= 80) {
				return "", "", false
			}
			return fmt.Sprintf("A team of %g still needs the owner on %g%% of projects.", r.Number("team_size_total"), r.Number("owner_involvement_pct")),
				"What decisions does your team bring to you that they could make themselves?", true
		},
	},
}

func redFlags(r audit.Response) []RedFlag {
	out := []RedFlag{}
	for _, c := range redFlagChecks {
		obs, probe, ok := c.check(r)
		if !ok {
			continue
		}
		out = append(out, RedFlag{ID: c.id, Observation: obs, Probe: probe})
	}
	return out
}
