package questionnaire

var (
	yesNo        = []string{"Yes", "No"}
	yesNoPartial = []string{"Yes", "Partial", "No"}
)

var catalog = []Section{
	{
		ID:          "contact",
		Title:       "About You",
		Description: "Who we are talking to.",
		Questions: []Question{
			{Key: "full_name", Label: "Your name", Type: TypeText, Required: true},
			{Key: "email", Label: "Work email", Type: TypeEmail, Required: true},
			{Key: "company_name", Label: "Agency name", Type: TypeText, Required: true},
			{Key: "website", Label: "Website", Type: TypeURL},
			{Key: "role", Label: "Your role", Type: TypeSelect, Options: []string{"Founder/CEO", "Co-founder", "Managing Director", "Other"}},
		},
	},
	{
		ID:    "business",
		Title: "Business Snapshot",
		Questions: []Question{
			{Key: "revenue_12mo", Label: "Revenue over the last 12 months", Type: TypeCurrency, Required: true},
			{Key: "revenue_monthly_avg", Label: "Average monthly revenue", Type: TypeCurrency},
			{Key: "profit_margin_pct", Label: "Net profit margin", Type: TypePercent, Min: ptr(0), Max: ptr(100)},
			{Key: "recurring_revenue_pct", Label: "Share of revenue that is recurring (retainers, subscriptions)", Type: TypePercent, Min: ptr(0), Max: ptr(100)},
			{Key: "revenue_trend", Label: "Revenue trend over the last year", Type: TypeSelect, Options: []string{"Growing", "Flat", "Declining"}},
			{Key: "years_in_business", Label: "Years in business", Type: TypeNumber, Min: ptr(0)},
			{Key: "pricing_model", Label: "Primary pricing model", Type: TypeSelect, Options: []string{"Hourly", "Fixed", "Retainer", "Productized"}},
			{Key: "services", Label: "Services you sell", Type: TypeServices, Help: "Name, monthly revenue and weekly hours for each service."},
		},
	},
	{
		ID:    "clients",
		Title: "Clients & Pipeline",
		Questions: []Question{
			{Key: "client_count", Label: "Active clients", Type: TypeNumber, Min: ptr(0)},
			{Key: "top_client_pct", Label: "Share of revenue from your largest client", Type: TypePercent, Min: ptr(0), Max: ptr(100)},
			{Key: "avg_client_tenure_months", Label: "Average client tenure (months)", Type: TypeNumber, Min: ptr(0)},
			{Key: "churn_last_12mo", Label: "Clients lost in the last 12 months", Type: TypeNumber, Min: ptr(0)},
			{Key: "pipeline_months", Label: "Months of booked work in the pipeline", Type: TypeNumber, Min: ptr(0)},
			{Key: "lead_sources", Label: "Where new clients come from", Type: TypeMultiSelect, Options: []string{"Referrals", "Outbound", "Content", "Paid ads", "Partnerships", "Marketplaces"}},
			{Key: "referral_pct", Label: "Share of new clients from referrals", Type: TypePercent, Min: ptr(0), Max: ptr(100)},
		},
	},
	{
		ID:    "team",
		Title: "Team",
		Questions: []Question{
			{Key: "team_size_total", Label: "Team size (including contractors)", Type: TypeNumber, Required: true, Min: ptr(0)},
			{Key: "has_ops_manager", Label: "Do you have an operations or delivery manager?", Type: TypeYesNo, Options: yesNo},
			{Key: "ops_manager_scope", Label: "What does that person own today?", Type: TypeTextarea, ShowIf: &Condition{Field: "has_ops_manager", Equals: "Yes"}},
			{Key: "team_can_onboard", Label: "Can your team onboard a new client without you?", Type: TypeYesNo, Options: yesNo},
			{Key: "hiring_plan", Label: "Hiring plans for the next 12 months", Type: TypeTextarea},
		},
	},
	{
		ID:          "owner_time",
		Title:       "Where Your Time Goes",
		Description: "Typical weekly hours.",
		Questions: []Question{
			{Key: "time_delivery_hrs", Label: "Client delivery", Type: TypeNumber, Required: true, Min: ptr(0), Max: ptr(100)},
			{Key: "time_sales_hrs", Label: "Sales and proposals", Type: TypeNumber, Min: ptr(0), Max: ptr(100)},
			{Key: "time_mgmt_hrs", Label: "Managing the team", Type: TypeNumber, Min: ptr(0), Max: ptr(100)},
			{Key: "time_ops_hrs", Label: "Admin and operations", Type: TypeNumber, Min: ptr(0), Max: ptr(100)},
			{Key: "time_strategy_hrs", Label: "Strategy and growth", Type: TypeNumber, Min: ptr(0), Max: ptr(100)},
			{Key: "owner_involvement_pct", Label: "Share of projects that need you personally", Type: TypePercent, Min: ptr(0), Max: ptr(100)},
			{Key: "tasks_only_owner", Label: "Which tasks can only you do today?", Type: TypeTextarea, Required: true, Placeholder: "e.g. final QA on every deliverable, pricing, client escalations"},
			{Key: "delegation_blockers", Label: "What stops you delegating more?", Type: TypeMultiSelect, Options: []string{"Quality concerns", "No documentation", "Team skill gaps", "Client expectations", "Trust", "Cost"}},
			{Key: "can_take_2_weeks_off", Label: "Could you take two weeks fully offline without revenue dropping?", Type: TypeYesNo, Options: yesNo},
		},
	},
	{
		ID:    "processes",
		Title: "Processes",
		Questions: []Question{
			{Key: "has_sops", Label: "Do you have documented SOPs?", Type: TypeYesNo, Options: yesNoPartial},
			{Key: "documented_pct", Label: "Roughly how much of delivery is documented?", Type: TypePercent, Min: ptr(0), Max: ptr(100), ShowIf: &Condition{Field: "has_sops", NotEquals: "No"}},
			{Key: "sop_location", Label: "Where do SOPs live?", Type: TypeText, ShowIf: &Condition{Field: "has_sops", NotEquals: "No"}},
			{Key: "onboarding_documented", Label: "Is client onboarding documented?", Type: TypeYesNo, Options: yesNo},
			{Key: "onboarding_steps", Label: "List the onboarding steps", Type: TypeTextarea, ShowIf: &Condition{Field: "onboarding_documented", Equals: "Yes"}},
			{Key: "delivery_process_description", Label: "Describe how a typical project moves from kickoff to done", Type: TypeTextarea, Required: true},
			{Key: "qa_process", Label: "Is there a review step before work reaches the client?", Type: TypeYesNo, Options: yesNo},
			{Key: "reporting_process", Label: "How are client reports produced?", Type: TypeSelect, Options: []string{"Automated", "Manual", "None"}},
			{Key: "client_comm_cadence", Label: "Client communication cadence", Type: TypeSelect, Options: []string{"Weekly", "Bi-weekly", "Monthly", "Ad hoc"}},
			{Key: "sales_process_documented", Label: "Is your sales process documented?", Type: TypeYesNo, Options: yesNo},
			{Key: "proposal_process", Label: "How do you put proposals together?", Type: TypeTextarea},
			{Key: "has_kpi_dashboard", Label: "Do you track agency KPIs on a dashboard?", Type: TypeYesNo, Options: yesNo},
		},
	},
	{
		ID:    "tools",
		Title: "Tools",
		Questions: []Question{
			{Key: "tools_used", Label: "Tools your team uses daily", Type: TypeMultiSelect, Options: []string{"Slack", "Gmail", "Google Workspace", "Microsoft 365", "HubSpot", "Salesforce", "Pipedrive", "ClickUp", "Asana", "Monday", "Notion", "Trello", "QuickBooks", "Xero", "Zapier", "Make", "Loom", "Calendly"}},
			{Key: "crm", Label: "CRM", Type: TypeSelect, Options: []string{"HubSpot", "Salesforce", "Pipedrive", "Spreadsheet", "None"}},
			{Key: "project_mgmt_tool", Label: "Project management tool", Type: TypeSelect, Options: []string{"ClickUp", "Asana", "Monday", "Notion", "Trello", "None"}},
			{Key: "automation_level", Label: "How automated is your business today? (1-5)", Type: TypeScale, Min: ptr(1), Max: ptr(5)},
			{Key: "tech_comfort", Label: "Team comfort adopting new tools (1-5)", Type: TypeScale, Min: ptr(1), Max: ptr(5)},
		},
	},
	{
		ID:    "productization",
		Title: "Productization",
		Questions: []Question{
			{Key: "has_productized_offer", Label: "Do you sell a fixed-scope productized offer?", Type: TypeYesNo, Options: yesNo},
			{Key: "productized_offer_desc", Label: "Describe the offer", Type: TypeTextarea, ShowIf: &Condition{Field: "has_productized_offer", Equals: "Yes"}},
			{Key: "service_standardization_pct", Label: "Share of work delivered the same way every time", Type: TypePercent, Min: ptr(0), Max: ptr(100)},
			{Key: "has_case_studies", Label: "Do you have published case studies?", Type: TypeYesNo, Options: yesNo},
			{Key: "ideal_client_defined", Label: "Is your ideal client profile written down?", Type: TypeYesNo, Options: yesNo},
		},
	},
	{
		ID:    "goals",
		Title: "Goals",
		Questions: []Question{
			{Key: "exit_timeline", Label: "When would you like the option to exit?", Type: TypeSelect, Options: []string{"<1 year", "1-3 years", "3-5 years", "5+ years", "Not planning"}},
			{Key: "target_valuation", Label: "Target valuation", Type: TypeCurrency, ShowIf: &Condition{Field: "exit_timeline", NotEquals: "Not planning"}},
			{Key: "biggest_frustration", Label: "Biggest frustration in the business right now", Type: TypeTextarea},
			{Key: "ideal_role", Label: "Your ideal role in 12 months", Type: TypeTextarea},
			{Key: "budget_for_systems", Label: "Budget for systems work", Type: TypeSelect, Options: []string{"<$5k", "$5k-15k", "$15k-50k", "$50k+"}},
			{Key: "available_hours_for_change", Label: "Hours per week you can give to implementation", Type: TypeNumber, Min: ptr(0), Max: ptr(40)},
		},
	},
}

var byKey = func() map[string]Question {
	m := make(map[string]Question)
	for _, s := range catalog {
		for _, q := range s.Questions {
			m[q.Key] = q
		}
	}
	return m
}()
