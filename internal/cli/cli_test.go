package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acmeYAML = `company_name: Acme Agency
full_name: Jo Smith
email: jo@acme.test
revenue_12mo: 1200000
revenue_monthly_avg: 100000
team_size_total: 8
time_delivery_hrs: 30
time_sales_hrs: 5
time_mgmt_hrs: 5
time_ops_hrs: 5
time_strategy_hrs: 5
has_sops: "Yes"
documented_pct: 40
tasks_only_owner: Final QA on every deliverable and pricing
_session_token: ignored
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadAnswersYAMLAndJSON(t *testing.T) {
	fromYAML, err := LoadAnswers(writeFile(t, "a.yaml", acmeYAML))
	require.NoError(t, err)
	assert.Equal(t, 30.0, fromYAML.Number("time_delivery_hrs"))
	assert.False(t, fromYAML.Has("_session_token"))

	fromJSON, err := LoadAnswers(writeFile(t, "a.json", `{"company_name":"Acme","time_delivery_hrs":30}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", fromJSON.CompanyName())

	_, err = LoadAnswers(writeFile(t, "bad.json", `{`))
	assert.Error(t, err)
	_, err = LoadAnswers(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestScoreCommand(t *testing.T) {
	out, err := run(t, "score", writeFile(t, "a.yaml", acmeYAML))
	require.NoError(t, err)

	var score struct {
		Overall          int `json:"overall"`
		FinancialMetrics struct {
			OwnerHourlyValue float64 `json:"ownerHourlyValue"`
		} `json:"financialMetrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &score))
	assert.Equal(t, 59, score.Overall)
	assert.InDelta(t, 2222.2, score.FinancialMetrics.OwnerHourlyValue, 0.05)
}

func TestQuestionsCommand(t *testing.T) {
	out, err := run(t, "questions")
	require.NoError(t, err)
	assert.Contains(t, out, "company_name")

	out, err = run(t, "questions", "--json")
	require.NoError(t, err)
	var sections []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &sections))
	assert.NotEmpty(t, sections)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "render", writeFile(t, "a.yaml", acmeYAML), "--out", dir)
	require.NoError(t, err)

	for _, name := range []string{"diagnostic.md", "build-plan.md", "discovery-agenda.md", "call-prep.md", "skills.md", "bundle.json"} {
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, out, name)
	}
	skillDocs, err := filepath.Glob(filepath.Join(dir, "skills", "*", "SKILL.md"))
	require.NoError(t, err)
	assert.NotEmpty(t, skillDocs)

	plan, err := os.ReadFile(filepath.Join(dir, "build-plan.md"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(plan), "Acme Agency"))
}

func TestRenderRequiresOut(t *testing.T) {
	_, err := run(t, "render", writeFile(t, "a.yaml", acmeYAML))
	assert.Error(t, err)
}
