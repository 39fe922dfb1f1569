package systemspec

import (
	"fmt"
	"math"
	"strings"

	"exitlayer/internal/audit"
)

// Rule produces one system when its trigger fires. Triggers only look at
// negative signals so that better answers never add P0 work.
type Rule struct {
	ID      string
	Needs   []ToolCategory
	Trigger func(audit.Response) bool
	Produce func(audit.Response) System
}

// Rules returns the ordered rule list.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

var rules = []Rule{
	{
		ID:    "core-process-documentation",
		Needs: []ToolCategory{ToolDocs, ToolVideo},
		Trigger: func(r audit.Response) bool {
			return !r.IsYes("has_sops") || (r.HasNumber("documented_pct") && r.Number("documented_pct") < 25)
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Core Process Documentation",
				Type:                TypeDocumentation,
				Priority:            P0,
				Category:            CategoryOperations,
				Description:         "A central SOP library covering the recurring delivery and operations work.",
				EstimatedBuildTime:  "2-3 days",
				EstimatedBuildHours: 16,
				OwnerTimeReclaimed:  atLeast(1, 0.25*hrs(r, "time_mgmt_hrs")+0.2*hrs(r, "time_ops_hrs")),
				PRD: PRD{
					Problem:  fmt.Sprintf("Delivery knowledge lives with the owner; %s of delivery is documented.", pct(r, "documented_pct", "little")),
					Solution: "Capture the top recurring processes as step-by-step SOPs with named owners and review dates.",
					Workflow: []string{
						"Record the owner walking through the five most frequent tasks",
						"Convert each recording into a checklist SOP",
						"Assign an owner and review date to every SOP",
						"Link SOPs from project templates so they are used in context",
					},
					SuccessMetrics: []string{"Documented delivery above 70% within 60 days", "New hires complete core tasks from SOPs alone"},
				},
			}
		},
	},
	{
		ID:    "client-onboarding-system",
		Needs: []ToolCategory{ToolCRM, ToolProjectManagement, ToolEmail, ToolScheduling},
		Trigger: func(r audit.Response) bool {
			return r.IsNo("team_can_onboard")
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Client Onboarding System",
				Type:                TypeAutomation,
				Priority:            P0,
				Category:            CategoryDelivery,
				Description:         "A triggered onboarding sequence that the team runs without the owner.",
				EstimatedBuildTime:  "3-4 days",
				EstimatedBuildHours: 20,
				OwnerTimeReclaimed:  atLeast(1, 2+0.1*hrs(r, "time_delivery_hrs")),
				PRD: PRD{
					Problem:  "New clients cannot be onboarded without the owner.",
					Solution: "Trigger onboarding from a closed deal: welcome email, intake form, kickoff booking and project setup.",
					Workflow: []string{
						"Deal marked won in the CRM",
						"Welcome email and intake form sent automatically",
						"Kickoff call booked from the account manager's calendar",
						"Project created from the onboarding template with tasks assigned",
						"Account manager runs kickoff from the onboarding checklist",
					},
					SuccessMetrics: []string{"Onboarding completed with zero owner hours", "Kickoff within 5 business days of signature"},
				},
			}
		},
	},
	{
		ID:    "delivery-workflow-engine",
		Needs: []ToolCategory{ToolProjectManagement, ToolCommunication},
		Trigger: func(r audit.Response) bool {
			return r.Number("owner_involvement_pct") >= 50 || r.Number("time_delivery_hrs") >= 20
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Delivery Workflow Engine",
				Type:                TypeAutomation,
				Priority:            P0,
				Category:            CategoryDelivery,
				Description:         "Standard project templates with stage gates so delivery moves without owner check-ins.",
				EstimatedBuildTime:  "1 week",
				EstimatedBuildHours: 32,
				OwnerTimeReclaimed:  atLeast(2, 0.3*hrs(r, "time_delivery_hrs")),
				PRD: PRD{
					Problem:  fmt.Sprintf("The owner spends %s hours a week in delivery and is needed on %s of projects.", num(r, "time_delivery_hrs"), pct(r, "owner_involvement_pct", "most")),
					Solution: "Template each service as a project with stages, owners, due dates and an escalation path that does not default to the owner.",
					Workflow: []string{
						"Project created from the service template",
						"Stage owners notified as each stage opens",
						"Blocked tasks escalate to the delivery lead",
						"Stage gate review before client handoff",
					},
					SuccessMetrics: []string{"Owner delivery hours cut by a third", "Share of projects needing the owner below 25%"},
				},
			}
		},
	},
	{
		ID:    "delegation-decision-matrix",
		Needs: []ToolCategory{ToolDocs},
		Trigger: func(r audit.Response) bool {
			return len(r.Strings("delegation_blockers")) >= 2 || r.IsNo("can_take_2_weeks_off")
		},
		Produce: func(r audit.Response) System {
			blockers := r.Strings("delegation_blockers")
			problem := "The owner is the default decision-maker for most questions."
			if len(blockers) > 0 {
				problem = fmt.Sprintf("Delegation is blocked by %s.", strings.ToLower(strings.Join(blockers, ", ")))
			}
			return System{
				Name:                "Delegation Decision Matrix",
				Type:                TypePlaybook,
				Priority:            P1,
				Category:            CategoryOperations,
				Description:         "Written decision rights so the team knows what it can decide without asking.",
				EstimatedBuildTime:  "1 day",
				EstimatedBuildHours: 8,
				OwnerTimeReclaimed:  atLeast(1, 0.2*hrs(r, "time_mgmt_hrs")+0.1*hrs(r, "time_delivery_hrs")),
				PRD: PRD{
					Problem:  problem,
					Solution: "Map recurring decisions to an owner, a spending limit and an escalation rule.",
					Workflow: []string{
						"List decisions the owner made in the last month",
						"Assign each to a role with limits",
						"Publish the matrix where the team works",
						"Review escalations monthly and widen limits",
					},
					SuccessMetrics: []string{"Owner escalations halved within 30 days", "Owner can take two weeks off"},
				},
			}
		},
	},
	{
		ID:    "sales-pipeline-crm",
		Needs: []ToolCategory{ToolCRM, ToolEmail},
		Trigger: func(r audit.Response) bool {
			crm := strings.ToLower(r.String("crm"))
			return (crm == "" || crm == "none" || crm == "spreadsheet") && r.Number("time_sales_hrs") >= 3
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Sales Pipeline CRM",
				Type:                TypeIntegration,
				Priority:            P1,
				Category:            CategorySales,
				Description:         "A structured pipeline with stages, follow-up tasks and source tracking.",
				EstimatedBuildTime:  "2 days",
				EstimatedBuildHours: 16,
				OwnerTimeReclaimed:  atLeast(1, 0.3*hrs(r, "time_sales_hrs")),
				PRD: PRD{
					Problem:  "Leads and follow-ups are tracked informally, so sales depends on the owner's memory.",
					Solution: "Stand up a CRM pipeline with defined stages, automated follow-ups and lead source capture.",
					Workflow: []string{
						"Inbound lead captured with source",
						"Discovery call booked and logged",
						"Follow-up tasks created per stage",
						"Won deal triggers onboarding",
					},
					SuccessMetrics: []string{"Every open deal has a next step", "Lead source known for 90% of deals"},
				},
			}
		},
	},
	{
		ID:    "proposal-generator",
		Needs: []ToolCategory{ToolDocs, ToolCRM},
		Trigger: func(r audit.Response) bool {
			return r.Number("time_sales_hrs") >= 8
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Proposal Generator",
				Type:                TypeAutomation,
				Priority:            P1,
				Category:            CategorySales,
				Description:         "Proposal templates assembled from standard service blocks and pricing.",
				EstimatedBuildTime:  "1-2 days",
				EstimatedBuildHours: 12,
				OwnerTimeReclaimed:  atLeast(1, 0.4*hrs(r, "time_sales_hrs")),
				PRD: PRD{
					Problem:  fmt.Sprintf("The owner spends %s hours a week on sales, much of it writing proposals.", num(r, "time_sales_hrs")),
					Solution: "Build a proposal template library driven by discovery notes and a price book.",
					Workflow: []string{
						"Discovery notes captured in a standard form",
						"Service blocks and pricing selected from the price book",
						"Proposal assembled from the template",
						"Owner approves only above a deal size threshold",
					},
					SuccessMetrics: []string{"Proposal turnaround under 24 hours", "Owner writes fewer than 20% of proposals"},
				},
			}
		},
	},
	{
		ID:    "client-reporting-automation",
		Needs: []ToolCategory{ToolAutomation, ToolProjectManagement},
		Trigger: func(r audit.Response) bool {
			return r.Equals("reporting_process", "Manual")
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Client Reporting Automation",
				Type:                TypeAutomation,
				Priority:            P1,
				Category:            CategoryClientComms,
				Description:         "Scheduled client reports assembled from source data with a short human summary.",
				EstimatedBuildTime:  "2 days",
				EstimatedBuildHours: 16,
				OwnerTimeReclaimed:  atLeast(1, 1+0.25*hrs(r, "time_mgmt_hrs")),
				PRD: PRD{
					Problem:  "Client reports are compiled by hand every cycle.",
					Solution: "Pull report data automatically into a template and have the account lead add commentary.",
					Workflow: []string{
						"Data pulled from source tools on schedule",
						"Report template populated",
						"Account lead adds a three-line summary",
						"Report sent and logged against the client",
					},
					SuccessMetrics: []string{"Report prep under 15 minutes per client", "Reports sent on schedule every cycle"},
				},
			}
		},
	},
	{
		ID:    "qa-review-system",
		Needs: []ToolCategory{ToolProjectManagement},
		Trigger: func(r audit.Response) bool {
			return !r.IsYes("qa_process") && r.Number("team_size_total") >= 3
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "QA Review System",
				Type:                TypePlaybook,
				Priority:            P1,
				Category:            CategoryQuality,
				Description:         "Peer review checklists so quality does not depend on the owner's final pass.",
				EstimatedBuildTime:  "1-2 days",
				EstimatedBuildHours: 10,
				OwnerTimeReclaimed:  atLeast(1, 0.15*hrs(r, "time_delivery_hrs")),
				PRD: PRD{
					Problem:  "There is no consistent review step, so the owner ends up checking work.",
					Solution: "Add a checklist-driven peer review stage to every project template.",
					Workflow: []string{
						"Deliverable marked ready for review",
						"Reviewer assigned by rotation",
						"Checklist completed and issues logged",
						"Approved deliverable released to the client",
					},
					SuccessMetrics: []string{"Every deliverable has a logged review", "Client revision requests down 30%"},
				},
			}
		},
	},
	{
		ID:    "client-communication-hub",
		Needs: []ToolCategory{ToolCommunication, ToolEmail},
		Trigger: func(r audit.Response) bool {
			return !r.Has("client_comm_cadence") || r.Equals("client_comm_cadence", "Ad hoc")
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Client Communication Hub",
				Type:                TypeAutomation,
				Priority:            P2,
				Category:            CategoryClientComms,
				Description:         "A fixed update cadence with templated status messages per client.",
				EstimatedBuildTime:  "1-2 days",
				EstimatedBuildHours: 12,
				OwnerTimeReclaimed:  atLeast(0.5, 0.5+0.15*hrs(r, "time_mgmt_hrs")),
				PRD: PRD{
					Problem:  "Client communication happens ad hoc and often routes through the owner.",
					Solution: "Set a weekly update rhythm with templated status messages and a shared client channel.",
					Workflow: []string{
						"Weekly status drafted from project progress",
						"Account lead reviews and sends",
						"Client questions routed to the shared channel",
					},
					SuccessMetrics: []string{"Every client receives a weekly update", "Owner handles fewer than 10% of client messages"},
				},
			}
		},
	},
	{
		ID:    "team-knowledge-base",
		Needs: []ToolCategory{ToolDocs},
		Trigger: func(r audit.Response) bool {
			return r.Contains("delegation_blockers", "No documentation") || r.Contains("delegation_blockers", "Team skill gaps")
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Team Knowledge Base",
				Type:                TypeDocumentation,
				Priority:            P2,
				Category:            CategoryOperations,
				Description:         "A searchable knowledge base with training paths per role.",
				EstimatedBuildTime:  "2 days",
				EstimatedBuildHours: 12,
				OwnerTimeReclaimed:  atLeast(0.5, 0.1*hrs(r, "time_mgmt_hrs")+0.1*hrs(r, "time_ops_hrs")),
				PRD: PRD{
					Problem:  "The team lacks the documentation or skills to take work off the owner.",
					Solution: "Organize SOPs, examples and recorded walkthroughs into role-based training paths.",
					Workflow: []string{
						"Collect existing docs and recordings",
						"Tag by role and skill",
						"Build a training path per role",
						"Track completion in onboarding",
					},
					SuccessMetrics: []string{"New hires productive within 2 weeks", "Repeat questions to the owner down 50%"},
				},
			}
		},
	},
	{
		ID:    "kpi-dashboard",
		Needs: []ToolCategory{ToolFinance, ToolCRM},
		Trigger: func(r audit.Response) bool {
			return !r.IsYes("has_kpi_dashboard")
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "KPI Dashboard",
				Type:                TypeDashboard,
				Priority:            P2,
				Category:            CategoryOperations,
				Description:         "One dashboard for revenue, utilization, pipeline and client health.",
				EstimatedBuildTime:  "2 days",
				EstimatedBuildHours: 12,
				OwnerTimeReclaimed:  atLeast(0.5, 0.2*hrs(r, "time_ops_hrs")),
				PRD: PRD{
					Problem:  "Agency performance is assembled by hand, if at all.",
					Solution: "Connect finance and CRM data into a weekly KPI dashboard.",
					Workflow: []string{
						"Finance and CRM data synced nightly",
						"Dashboard refreshed",
						"Weekly review with the leadership team",
					},
					SuccessMetrics: []string{"KPIs reviewed weekly without manual prep"},
				},
			}
		},
	},
	{
		ID:    "productized-offer-builder",
		Needs: []ToolCategory{ToolDocs},
		Trigger: func(r audit.Response) bool {
			return !r.IsYes("has_productized_offer")
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Productized Offer Builder",
				Type:                TypePlaybook,
				Priority:            P2,
				Category:            CategorySales,
				Description:         "A fixed-scope, fixed-price package built from the most repeated engagement.",
				EstimatedBuildTime:  "1-2 days",
				EstimatedBuildHours: 10,
				OwnerTimeReclaimed:  atLeast(0.5, 0.1*hrs(r, "time_sales_hrs")+0.05*hrs(r, "time_delivery_hrs")),
				PRD: PRD{
					Problem:  "Every engagement is scoped and priced from scratch.",
					Solution: "Package the most common engagement into a named offer with fixed scope, timeline and price.",
					Workflow: []string{
						"Identify the most repeated engagement",
						"Define scope, deliverables and timeline",
						"Set a fixed price",
						"Publish a one-page offer sheet",
					},
					SuccessMetrics: []string{"30% of new deals sold as the package within a quarter"},
				},
			}
		},
	},
	{
		ID:    "retainer-conversion-playbook",
		Needs: []ToolCategory{ToolCRM},
		Trigger: func(r audit.Response) bool {
			return r.HasNumber("recurring_revenue_pct") && r.Number("recurring_revenue_pct") < 30
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Retainer Conversion Playbook",
				Type:                TypePlaybook,
				Priority:            P3,
				Category:            CategorySales,
				Description:         "A scripted path from project work to an ongoing retainer.",
				EstimatedBuildTime:  "1 day",
				EstimatedBuildHours: 6,
				OwnerTimeReclaimed:  0.5,
				PRD: PRD{
					Problem:  fmt.Sprintf("Only %s of revenue is recurring.", pct(r, "recurring_revenue_pct", "a small share")),
					Solution: "Offer a retainer at every project close using a standard proposal and success review.",
					Workflow: []string{
						"Project close triggers a success review",
						"Retainer proposal sent from template",
						"Follow-up scheduled in the CRM",
					},
					SuccessMetrics: []string{"Recurring revenue above 40% within two quarters"},
				},
			}
		},
	},
	{
		ID:    "referral-engine",
		Needs: []ToolCategory{ToolCRM, ToolEmail},
		Trigger: func(r audit.Response) bool {
			return r.Number("referral_pct") >= 60
		},
		Produce: func(r audit.Response) System {
			return System{
				Name:                "Referral Engine",
				Type:                TypeAutomation,
				Priority:            P3,
				Category:            CategorySales,
				Description:         "Systematic referral asks and tracking instead of relying on the owner's network.",
				EstimatedBuildTime:  "1 day",
				EstimatedBuildHours: 8,
				OwnerTimeReclaimed:  atLeast(0.5, 0.1*hrs(r, "time_sales_hrs")),
				PRD: PRD{
					Problem:  fmt.Sprintf("%s of new clients come from referrals, mostly through the owner.", pct(r, "referral_pct", "Most")),
					Solution: "Automate referral requests at delivery milestones and track referral sources.",
					Workflow: []string{
						"Milestone reached with a positive client rating",
						"Referral request sent from template",
						"Referred lead captured with source",
					},
					SuccessMetrics: []string{"Referral requests sent at every milestone", "Referrals not involving the owner above 50%"},
				},
			}
		},
	},
}

// hrs reads a weekly-hours answer, bounded to the hours in a week.
func hrs(r audit.Response, field string) float64 {
	return math.Min(168, math.Max(0, r.Number(field)))
}

// atLeast rounds v to the nearest half hour with a floor of min.
func atLeast(min, v float64) float64 {
	v = math.Round(v*2) / 2
	if v < min {
		return min
	}
	return v
}

func pct(r audit.Response, field, fallback string) string {
	if !r.HasNumber(field) {
		return fallback
	}
	return fmt.Sprintf("%g%%", math.Round(r.Number(field)))
}

func num(r audit.Response, field string) string {
	return fmt.Sprintf("%g", math.Round(hrs(r, field)*10)/10)
}
