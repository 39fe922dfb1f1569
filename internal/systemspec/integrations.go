package systemspec

import (
	"sort"
	"strings"

	"exitlayer/internal/audit"
)

// ToolCategory groups client tools by the job they do.
type ToolCategory string

const (
	ToolCommunication     ToolCategory = "communication"
	ToolCRM               ToolCategory = "crm"
	ToolProjectManagement ToolCategory = "project_management"
	ToolEmail             ToolCategory = "email"
	ToolDocs              ToolCategory = "docs"
	ToolFinance           ToolCategory = "finance"
	ToolAutomation        ToolCategory = "automation"
	ToolScheduling        ToolCategory = "scheduling"
	ToolVideo             ToolCategory = "video"
)

type toolInfo struct {
	name     string
	category ToolCategory
	purpose  string
}

var toolCatalog = map[string]toolInfo{
	"slack":            {"Slack", ToolCommunication, "Team and client notifications"},
	"microsoft teams":  {"Microsoft Teams", ToolCommunication, "Team and client notifications"},
	"gmail":            {"Gmail", ToolEmail, "Client email sequences"},
	"google workspace": {"Google Workspace", ToolDocs, "SOP and template storage"},
	"microsoft 365":    {"Microsoft 365", ToolDocs, "SOP and template storage"},
	"notion":           {"Notion", ToolDocs, "Knowledge base and SOP library"},
	"hubspot":          {"HubSpot", ToolCRM, "Pipeline and client records"},
	"salesforce":       {"Salesforce", ToolCRM, "Pipeline and client records"},
	"pipedrive":        {"Pipedrive", ToolCRM, "Pipeline and client records"},
	"clickup":          {"ClickUp", ToolProjectManagement, "Project templates and task routing"},
	"asana":            {"Asana", ToolProjectManagement, "Project templates and task routing"},
	"monday":           {"Monday", ToolProjectManagement, "Project templates and task routing"},
	"trello":           {"Trello", ToolProjectManagement, "Project boards"},
	"quickbooks":       {"QuickBooks", ToolFinance, "Revenue and margin data"},
	"xero":             {"Xero", ToolFinance, "Revenue and margin data"},
	"zapier":           {"Zapier", ToolAutomation, "Glue automations between tools"},
	"make":             {"Make", ToolAutomation, "Glue automations between tools"},
	"calendly":         {"Calendly", ToolScheduling, "Kickoff and discovery booking"},
	"loom":             {"Loom", ToolVideo, "Recorded walkthroughs for SOPs"},
}

// clientTools returns the recognized tools a response mentions, deduplicated.
func clientTools(r audit.Response) []toolInfo {
	seen := map[string]bool{}
	var out []toolInfo
	add := func(raw string) {
		info, ok := toolCatalog[strings.ToLower(strings.TrimSpace(raw))]
		if !ok || seen[info.name] {
			return
		}
		seen[info.name] = true
		out = append(out, info)
	}
	for _, t := range r.Strings("tools_used") {
		add(t)
	}
	add(r.String("crm"))
	add(r.String("project_mgmt_tool"))
	return out
}

// assignIntegrations fills System.Integrations and returns the integration list
// sorted by tool name.
func assignIntegrations(r audit.Response, systems []System, needs map[string][]ToolCategory) []Integration {
	tools := clientTools(r)
	byTool := map[string]*Integration{}
	for i := range systems {
		sys := &systems[i]
		sys.Integrations = []string{}
		for _, cat := range needs[sys.ID] {
			for _, t := range tools {
				if t.category != cat {
					continue
				}
				sys.Integrations = append(sys.Integrations, t.name)
				in, ok := byTool[t.name]
				if !ok {
					in = &Integration{Tool: t.name, Category: string(t.category), Purpose: t.purpose, Priority: "recommended"}
					byTool[t.name] = in
				}
				in.RequiredBy = append(in.RequiredBy, sys.ID)
				if sys.Priority.Rank() <= P1.Rank() {
					in.Priority = "required"
				}
			}
		}
	}
	out := make([]Integration, 0, len(byTool))
	for _, in := range byTool {
		out = append(out, *in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tool < out[j].Tool })
	return out
}
