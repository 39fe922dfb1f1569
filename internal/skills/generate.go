package skills

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"exitlayer/internal/audit"
	"exitlayer/internal/shared/util"
	"exitlayer/internal/systemspec"
)

// Generate maps every system-spec entry to a skill. Pure.
func Generate(r audit.Response, spec systemspec.Output) Catalog {
	company := r.CompanyName()
	out := Catalog{Company: company, Skills: make([]Skill, 0, len(spec.Systems))}
	seen := map[string]int{}
	for _, sys := range spec.Systems {
		sk := fromSystem(company, sys)
		// names must stay unique within a catalog
		if n := seen[sk.Name]; n > 0 {
			suffix := fmt.Sprintf("-%d", n+1)
			sk.Name = util.Slug(sk.Name, MaxNameLength-len(suffix)) + suffix
		}
		seen[sk.Name]++
		out.Skills = append(out.Skills, sk)
	}
	out.TotalSkills = len(out.Skills)
	return out
}

func fromSystem(company string, sys systemspec.System) Skill {
	name := util.Slug(sys.ID, MaxNameLength)
	if name == "" {
		name = util.Slug(sys.Name, MaxNameLength)
	}
	return Skill{
		Name:            name,
		Title:           sys.Name,
		Description:     describe(sys),
		SystemID:        sys.ID,
		Priority:        sys.Priority,
		Category:        sys.Category,
		Triggers:        triggers(sys),
		Inputs:          inputs(sys),
		Steps:           append([]string(nil), sys.PRD.Workflow...),
		Tools:           append([]string{}, sys.Integrations...),
		SuccessCriteria: append([]string(nil), sys.PRD.SuccessMetrics...),
		Metadata: Metadata{
			SchemaVersion:       SchemaVersion,
			Company:             company,
			EstimatedBuildHours: float64(sys.EstimatedBuildHours),
			OwnerTimeReclaimed:  sys.OwnerTimeReclaimed,
			SystemType:          string(sys.Type),
		},
	}
}

func describe(sys systemspec.System) string {
	parts := []string{}
	for _, p := range []string{sys.Description, sys.PRD.Solution} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, fmt.Sprintf("Use when working on %s.", strings.ToLower(sys.Name)))
	return truncate(strings.Join(parts, " "), MaxDescriptionLength)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max-3])) + "..."
}

func triggers(sys systemspec.System) []string {
	out := []string{fmt.Sprintf("Building or maintaining the %s", sys.Name)}
	switch sys.Category {
	case systemspec.CategoryDelivery:
		out = append(out, "A project moves to a new delivery stage")
	case systemspec.CategorySales:
		out = append(out, "A new lead or proposal request arrives")
	case systemspec.CategoryClientComms:
		out = append(out, "A client update or report is due")
	case systemspec.CategoryOperations:
		out = append(out, "A recurring internal task needs a documented owner")
	case systemspec.CategoryQuality:
		out = append(out, "Work is ready for review before it reaches a client")
	}
	return out
}

func inputs(sys systemspec.System) []Input {
	out := []Input{{Name: "owner-walkthrough", Description: "Recording or notes of how the owner does this today", Required: true}}
	for _, tool := range sys.Integrations {
		out = append(out, Input{
			Name:        util.Slug(tool, MaxNameLength) + "-access",
			Description: fmt.Sprintf("Access to %s", tool),
		})
	}
	return out
}
