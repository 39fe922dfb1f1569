package skills

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exitlayer/internal/audit"
	"exitlayer/internal/systemspec"
)

func strugglingAgency() audit.Response {
	return audit.Response{
		"company_name":          "Strain Studio",
		"team_size_total":       6.0,
		"time_delivery_hrs":     35.0,
		"time_sales_hrs":        12.0,
		"time_mgmt_hrs":         8.0,
		"time_ops_hrs":          6.0,
		"owner_involvement_pct": 90.0,
		"has_sops":              "No",
		"team_can_onboard":      "No",
		"reporting_process":     "Manual",
		"crm":                   "None",
		"tools_used":            []any{"Slack", "HubSpot", "Notion"},
	}
}

func TestGenerateOneSkillPerSystem(t *testing.T) {
	resp := strugglingAgency()
	spec := systemspec.Generate(resp)
	cat := Generate(resp, spec)

	require.Len(t, cat.Skills, len(spec.Systems))
	assert.Equal(t, len(spec.Systems), cat.TotalSkills)
	assert.Equal(t, "Strain Studio", cat.Company)

	names := map[string]bool{}
	for i, sk := range cat.Skills {
		sys := spec.Systems[i]
		assert.Equal(t, sys.ID, sk.SystemID)
		assert.Equal(t, sys.Priority, sk.Priority)
		assert.Equal(t, sys.PRD.Workflow, sk.Steps)
		assert.NoError(t, Validate(sk), sk.Name)
		assert.False(t, names[sk.Name], "duplicate name %s", sk.Name)
		names[sk.Name] = true
	}
}

func TestGenerateEmptySpec(t *testing.T) {
	cat := Generate(audit.Response{}, systemspec.Output{})
	assert.Empty(t, cat.Skills)
	assert.Equal(t, 0, cat.TotalSkills)
	assert.Contains(t, CatalogMarkdown(cat), "# Skill Catalog")
}

func TestGenerateDeduplicatesNames(t *testing.T) {
	sys := systemspec.System{ID: "kpi-dashboard", Name: "KPI Dashboard", Priority: systemspec.P2, Description: "Weekly numbers."}
	cat := Generate(audit.Response{}, systemspec.Output{Systems: []systemspec.System{sys, sys}})
	require.Len(t, cat.Skills, 2)
	assert.Equal(t, "kpi-dashboard", cat.Skills[0].Name)
	assert.Equal(t, "kpi-dashboard-2", cat.Skills[1].Name)
}

func TestValidate(t *testing.T) {
	ok := Skill{Name: "client-onboarding", Description: "Onboard clients.", Priority: systemspec.P0}
	tests := []struct {
		name  string
		mut   func(*Skill)
		valid bool
	}{
		{"valid", func(*Skill) {}, true},
		{"empty name", func(s *Skill) { s.Name = "" }, false},
		{"uppercase", func(s *Skill) { s.Name = "Client-Onboarding" }, false},
		{"too long", func(s *Skill) { s.Name = strings.Repeat("a", MaxNameLength+1) }, false},
		{"empty description", func(s *Skill) { s.Description = "  " }, false},
		{"long description", func(s *Skill) { s.Description = strings.Repeat("x", MaxDescriptionLength+1) }, false},
		{"angle brackets", func(s *Skill) { s.Description = "use <b>" }, false},
		{"unknown priority", func(s *Skill) { s.Priority = "P9" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sk := ok
			tt.mut(&sk)
			err := Validate(sk)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidSkill), "got %v", err)
		})
	}
}

func TestDocumentRoundTripsFrontmatter(t *testing.T) {
	resp := strugglingAgency()
	cat := Generate(resp, systemspec.Generate(resp))
	require.NotEmpty(t, cat.Skills)
	sk := cat.Skills[0]

	doc, err := Document(sk)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "---\nname: "+sk.Name+"\n"))

	fm, body, err := ParseDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, sk.Name, fm.Name)
	assert.Equal(t, sk.Description, fm.Description)
	assert.Equal(t, string(sk.Priority), fm.Priority)
	assert.Equal(t, SchemaVersion, fm.Metadata.SchemaVersion)
	assert.True(t, strings.HasPrefix(body, "# "+sk.Title))
	assert.Contains(t, body, "## Steps")
}

func TestDocumentRejectsInvalidSkill(t *testing.T) {
	_, err := Document(Skill{Name: "Bad Name", Description: "x"})
	assert.ErrorIs(t, err, ErrInvalidSkill)
}

func TestParseDocumentWithoutFrontmatter(t *testing.T) {
	_, _, err := ParseDocument([]byte("# just markdown\n"))
	assert.ErrorIs(t, err, ErrNoFrontmatter)
}

func TestCatalogMarkdownGroupsByPriority(t *testing.T) {
	resp := strugglingAgency()
	cat := Generate(resp, systemspec.Generate(resp))
	md := CatalogMarkdown(cat)

	last := -1
	for _, p := range systemspec.Priorities {
		if len(cat.ByPriority(p)) == 0 {
			continue
		}
		idx := strings.Index(md, "## "+string(p)+": ")
		require.Greater(t, idx, last, string(p))
		last = idx
	}
	for _, sk := range cat.Skills {
		assert.Equal(t, 1, strings.Count(md, "### "+sk.Title+"\n"), sk.Title)
	}
}
