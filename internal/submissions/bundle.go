package submissions

import (
	"encoding/json"
	"time"

	"exitlayer/internal/audit"
	"exitlayer/internal/callprep"
	"exitlayer/internal/diagnostic"
	"exitlayer/internal/scoring"
	"exitlayer/internal/skills"
	"exitlayer/internal/systemspec"
)

// BundleVersion is stamped on every generated bundle.
const BundleVersion = "1.0"

// Markdown document kinds.
const (
	KindDiagnostic      = "diagnostic"
	KindBuildPlan       = "build-plan"
	KindDiscoveryAgenda = "discovery-agenda"
	KindCallPrep        = "call-prep"
	KindSkills          = "skills"
)

// Kinds lists the markdown documents in the order they are generated.
func Kinds() []string {
	return []string{KindDiagnostic, KindBuildPlan, KindDiscoveryAgenda, KindCallPrep, KindSkills}
}

// ValidKind reports whether kind names a generated document.
func ValidKind(kind string) bool {
	for _, k := range Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// Metadata describes how and for whom a bundle was generated.
type Metadata struct {
	GeneratedAt      time.Time `json:"generatedAt"`
	Version          string    `json:"version"`
	ClientFolder     string    `json:"clientFolder"`
	Analytics        any       `json:"_analytics,omitempty"`
	AnalyticsSession any       `json:"_analyticsSession,omitempty"`
	Valuation        any       `json:"_valuation,omitempty"`
}

// Bundle is everything generated for one submission.
type Bundle struct {
	Score      scoring.Score     `json:"score"`
	Diagnostic diagnostic.Report `json:"diagnostic"`
	SystemSpec systemspec.Output `json:"systemSpec"`
	CallPrep   callprep.Document `json:"callPrep"`
	Skills     skills.Catalog    `json:"skills"`
	Markdown   map[string]string `json:"markdown"`
	Metadata   Metadata          `json:"metadata"`
}

// Build runs the generators in order. It is pure apart from the supplied clock value.
func Build(answers audit.Response, weights scoring.Weights, reserved audit.Reserved, clientFolder string, now time.Time) Bundle {
	score := scoring.CalculateWithWeights(answers, weights)
	report := diagnostic.Generate(answers, score)
	spec := systemspec.Generate(answers)
	prep := callprep.GenerateWith(answers, score, spec)
	catalog := skills.Generate(answers, spec)

	return Bundle{
		Score:      score,
		Diagnostic: report,
		SystemSpec: spec,
		CallPrep:   prep,
		Skills:     catalog,
		Markdown: map[string]string{
			KindDiagnostic:      diagnostic.Markdown(report),
			KindBuildPlan:       systemspec.BuildPlanMarkdown(answers, spec),
			KindDiscoveryAgenda: systemspec.DiscoveryAgendaMarkdown(answers, spec),
			KindCallPrep:        callprep.Markdown(prep),
			KindSkills:          skills.CatalogMarkdown(catalog),
		},
		Metadata: Metadata{
			GeneratedAt:      now.UTC(),
			Version:          BundleVersion,
			ClientFolder:     clientFolder,
			Analytics:        reserved.Analytics,
			AnalyticsSession: reserved.AnalyticsSession,
			Valuation:        reserved.Valuation,
		},
	}
}

// MarkdownFor pulls one markdown document out of stored generated content.
func MarkdownFor(content json.RawMessage, kind string) (string, bool) {
	if len(content) == 0 {
		return "", false
	}
	var stored struct {
		Markdown map[string]string `json:"markdown"`
	}
	if err := json.Unmarshal(content, &stored); err != nil {
		return "", false
	}
	md, ok := stored.Markdown[kind]
	return md, ok && md != ""
}
