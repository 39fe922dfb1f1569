package diagnostic

import "exitlayer/internal/scoring"

type entry struct {
	headline string
	body     string
	actions  []string
}

// catalog holds the copy for each dimension at each severity.
var catalog = map[scoring.Dimension]map[Severity]entry{
	scoring.Leverage: {
		SeverityCritical: {
			headline: "The business runs through you",
			body:     "Most delivery decisions and client work still need the owner. Buyers discount agencies where revenue walks out the door with the founder.",
			actions:  []string{"List every task only you can do and assign an owner for each within 30 days", "Move final QA to a documented checklist your team can run"},
		},
		SeverityWarning: {
			headline: "Partial owner dependency",
			body:     "Some work flows without you, but key projects and escalations still land on your desk.",
			actions:  []string{"Pick the two recurring decisions you make most often and write decision rules for them"},
		},
		SeverityStrength: {
			headline: "Strong owner leverage",
			body:     "Your team carries delivery without constant involvement. Protect this as you grow.",
			actions:  []string{"Formalize the roles that make this possible so they survive turnover"},
		},
	},
	scoring.EquityPotential: {
		SeverityCritical: {
			headline: "Little transferable equity",
			body:     "Low recurring revenue, thin margins or undocumented delivery limit what a buyer can take over.",
			actions:  []string{"Document your core delivery process end to end", "Convert your best project clients to retainers"},
		},
		SeverityWarning: {
			headline: "Equity is building",
			body:     "There is a base of repeatable revenue and documentation, with clear room to grow both.",
			actions:  []string{"Raise documented coverage of delivery above 70%"},
		},
		SeverityStrength: {
			headline: "Attractive equity profile",
			body:     "Recurring revenue, healthy margins and documented processes make the business easier to value.",
			actions:  []string{"Package your documentation into a buyer-ready operations manual"},
		},
	},
	scoring.RevenueRisk: {
		SeverityCritical: {
			headline: "Revenue is fragile",
			body:     "Client concentration, churn or a thin pipeline put a large share of revenue at risk.",
			actions:  []string{"Cap any single client below 20% of revenue", "Build a pipeline review into your weekly rhythm"},
		},
		SeverityWarning: {
			headline: "Moderate revenue risk",
			body:     "Revenue is reasonably spread but one lost client or a slow quarter would hurt.",
			actions:  []string{"Add a second reliable lead source"},
		},
		SeverityStrength: {
			headline: "Stable revenue base",
			body:     "Revenue is diversified and the pipeline covers the months ahead.",
			actions:  []string{"Track concentration and pipeline coverage monthly to keep it that way"},
		},
	},
	scoring.ProductReadiness: {
		SeverityCritical: {
			headline: "Custom work, custom pricing",
			body:     "Every engagement is scoped from scratch, which makes delivery hard to delegate and revenue hard to forecast.",
			actions:  []string{"Define one fixed-scope offer for your most common engagement", "Publish two case studies for that offer"},
		},
		SeverityWarning: {
			headline: "Some standardization",
			body:     "Parts of delivery repeat, but the offer is not yet packaged as a product.",
			actions:  []string{"Turn your most repeated deliverable into a named, fixed-price package"},
		},
		SeverityStrength: {
			headline: "Productized and repeatable",
			body:     "A defined offer with standard delivery is the foundation for scaling without you.",
			actions:  []string{"Instrument the offer with delivery metrics buyers can audit"},
		},
	},
	scoring.ImplementationCapacity: {
		SeverityCritical: {
			headline: "Limited capacity to change",
			body:     "With a small team, no operations lead or little available time, new systems risk stalling after setup.",
			actions:  []string{"Block two hours a week for systems work", "Name one team member as systems owner"},
		},
		SeverityWarning: {
			headline: "Capacity with constraints",
			body:     "The team can adopt new systems, with support and clear ownership.",
			actions:  []string{"Sequence changes one system at a time with a named owner"},
		},
		SeverityStrength: {
			headline: "Ready to implement",
			body:     "You have the people and time to roll out systems quickly.",
			actions:  []string{"Run systems rollouts in short sprints with clear success metrics"},
		},
	},
}
