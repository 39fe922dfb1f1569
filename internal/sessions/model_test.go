package sessions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"exitlayer/internal/audit"
)

func TestCanTransitionForwardOnly(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusInProgress, StatusSubmitted, true},
		{StatusInProgress, StatusAccountCreated, true},
		{StatusSubmitted, StatusAccountCreated, true},
		{StatusSubmitted, StatusInProgress, false},
		{StatusAccountCreated, StatusSubmitted, false},
		{StatusSubmitted, StatusSubmitted, false},
		{Status("archived"), StatusSubmitted, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestDeriveStage(t *testing.T) {
	answered := audit.Response{"company_name": "Acme"}
	docs := []DocumentRef{{ID: "d1"}}

	tests := []struct {
		name string
		s    Session
		want ClientStage
	}{
		{"empty draft", Session{Status: StatusInProgress}, StageNew},
		{"answering", Session{Status: StatusInProgress, FormData: answered}, StageInAudit},
		{"submitted without docs", Session{Status: StatusSubmitted, FormData: answered}, StageDocsNeeded},
		{"submitted with docs", Session{Status: StatusSubmitted, FormData: answered, DocumentsUploaded: docs}, StageReady},
		{"account created with docs", Session{Status: StatusAccountCreated, DocumentsUploaded: docs}, StageReady},
		{"sprint started", Session{Status: StatusSubmitted, SprintData: json.RawMessage(`{"week":1}`)}, StageBuilding},
		{"empty sprint ignored", Session{Status: StatusSubmitted, SprintData: json.RawMessage(`{}`)}, StageDocsNeeded},
		{"complete override", Session{Status: StatusSubmitted, ClientStage: StageComplete, SprintData: json.RawMessage(`[1]`)}, StageComplete},
		{"ready stored but derived", Session{Status: StatusInProgress, ClientStage: StageReady}, StageNew},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStage(tt.s))
		})
	}
}

func TestParseStage(t *testing.T) {
	st, ok := ParseStage(" Building ")
	assert.True(t, ok)
	assert.Equal(t, StageBuilding, st)

	st, ok = ParseStage("")
	assert.True(t, ok)
	assert.Equal(t, ClientStage(""), st)

	_, ok = ParseStage("shipped")
	assert.False(t, ok)
}
