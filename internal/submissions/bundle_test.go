package submissions

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exitlayer/internal/audit"
	"exitlayer/internal/scoring"
)

func acmeAnswers() audit.Response {
	return audit.Response{
		"company_name":        "Acme Agency",
		"full_name":           "Jo Smith",
		"email":               "jo@acme.test",
		"revenue_12mo":        1200000.0,
		"revenue_monthly_avg": 100000.0,
		"team_size_total":     8.0,
		"time_delivery_hrs":   30.0,
		"time_sales_hrs":      5.0,
		"time_mgmt_hrs":       5.0,
		"time_ops_hrs":        5.0,
		"time_strategy_hrs":   5.0,
		"has_sops":            "Yes",
		"documented_pct":      40.0,
		"tasks_only_owner":    "Final QA on every deliverable and pricing",
	}
}

func TestBuildProducesEveryDocument(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	reserved := audit.Reserved{Analytics: map[string]any{"utm": "ad"}, Valuation: 3.5}

	b := Build(acmeAnswers(), scoring.DefaultWeights(), reserved, "acme-agency-abcd1234", now)

	assert.Equal(t, 59, b.Score.Overall)
	assert.Equal(t, BundleVersion, b.Metadata.Version)
	assert.Equal(t, "acme-agency-abcd1234", b.Metadata.ClientFolder)
	assert.Equal(t, now.UTC(), b.Metadata.GeneratedAt)
	assert.Equal(t, 3.5, b.Metadata.Valuation)
	assert.Nil(t, b.Metadata.AnalyticsSession)
	for _, kind := range Kinds() {
		assert.NotEmpty(t, b.Markdown[kind], kind)
	}
	assert.Len(t, b.Skills.Skills, len(b.SystemSpec.Systems))
}

func TestBuildIsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Build(acmeAnswers(), scoring.DefaultWeights(), audit.Reserved{}, "f", now)
	b := Build(acmeAnswers(), scoring.DefaultWeights(), audit.Reserved{}, "f", now)
	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))
}

func TestMarkdownFor(t *testing.T) {
	b := Build(acmeAnswers(), scoring.DefaultWeights(), audit.Reserved{}, "f", time.Now())
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	md, ok := MarkdownFor(raw, KindCallPrep)
	require.True(t, ok)
	assert.Equal(t, b.Markdown[KindCallPrep], md)

	_, ok = MarkdownFor(raw, "unknown")
	assert.False(t, ok)
	_, ok = MarkdownFor(nil, KindCallPrep)
	assert.False(t, ok)
	_, ok = MarkdownFor(json.RawMessage(`not json`), KindCallPrep)
	assert.False(t, ok)
}

func TestValidKind(t *testing.T) {
	assert.True(t, ValidKind("build-plan"))
	assert.True(t, ValidKind("diagnostic"))
	assert.False(t, ValidKind("resume"))
}
