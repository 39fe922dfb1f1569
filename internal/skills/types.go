package skills

import "exitlayer/internal/systemspec"

const (
	MaxNameLength        = 64
	MaxDescriptionLength = 1024
	SchemaVersion        = "1.0"
)

// Input is something the skill needs before it can run.
type Input struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// Metadata carries provenance for a generated skill.
type Metadata struct {
	SchemaVersion       string  `json:"schemaVersion" yaml:"schema_version"`
	Company             string  `json:"company,omitempty" yaml:"company,omitempty"`
	EstimatedBuildHours float64 `json:"estimatedBuildHours" yaml:"estimated_build_hours"`
	OwnerTimeReclaimed  float64 `json:"ownerTimeReclaimed" yaml:"owner_hours_reclaimed"`
	SystemType          string  `json:"systemType" yaml:"system_type"`
}

// Skill is an operator-facing playbook derived from one system-spec entry.
type Skill struct {
	Name            string              `json:"name"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	SystemID        string              `json:"systemId"`
	Priority        systemspec.Priority `json:"priority"`
	Category        systemspec.Category `json:"category"`
	Triggers        []string            `json:"triggers"`
	Inputs          []Input             `json:"inputs"`
	Steps           []string            `json:"steps"`
	Tools           []string            `json:"tools"`
	SuccessCriteria []string            `json:"successCriteria"`
	Metadata        Metadata            `json:"metadata"`
}

// Catalog is every skill for one client, in system-spec order.
type Catalog struct {
	Company     string  `json:"company,omitempty"`
	TotalSkills int     `json:"totalSkills"`
	Skills      []Skill `json:"skills"`
}

// ByPriority returns the skills at priority p, preserving order.
func (c Catalog) ByPriority(p systemspec.Priority) []Skill {
	var out []Skill
	for _, s := range c.Skills {
		if s.Priority == p {
			out = append(out, s)
		}
	}
	return out
}
