package sessions

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"exitlayer/internal/audit"
)

// Status is the persisted lifecycle of an audit session.
type Status string

const (
	StatusInProgress     Status = "in_progress"
	StatusSubmitted      Status = "submitted"
	StatusAccountCreated Status = "account_created"
)

var statusOrder = []Status{StatusInProgress, StatusSubmitted, StatusAccountCreated}

func (s Status) rank() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s.rank() >= 0 }

// CanTransition reports whether a session may move from one status to another.
// Status only moves forward.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	return to.rank() > from.rank()
}

// ClientStage summarizes where a client sits in the sales and delivery pipeline.
type ClientStage string

const (
	StageNew        ClientStage = "new"
	StageInAudit    ClientStage = "in_audit"
	StageDocsNeeded ClientStage = "docs_needed"
	StageReady      ClientStage = "ready"
	StageBuilding   ClientStage = "building"
	StageComplete   ClientStage = "complete"
)

// ParseStage normalizes a stage name. The empty stage is valid and clears an override.
func ParseStage(raw string) (ClientStage, bool) {
	st := ClientStage(strings.ToLower(strings.TrimSpace(raw)))
	switch st {
	case "", StageNew, StageInAudit, StageDocsNeeded, StageReady, StageBuilding, StageComplete:
		return st, true
	}
	return "", false
}

// DocumentRef points at a file the client uploaded after submitting.
type DocumentRef struct {
	ID           string    `json:"id"`
	FileName     string    `json:"fileName"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	StorageKey   string    `json:"storageKey"`
	ExtractedKey string    `json:"extractedKey,omitempty"`
	WordCount    int       `json:"wordCount"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Session is the single mutable record kept per client.
type Session struct {
	ID                string          `json:"id"`
	SessionToken      string          `json:"sessionToken"`
	Status            Status          `json:"status"`
	Email             string          `json:"email,omitempty"`
	CompanyName       string          `json:"companyName,omitempty"`
	OverallScore      *int            `json:"overallScore,omitempty"`
	ClientFolder      string          `json:"clientFolder,omitempty"`
	ScoreData         json.RawMessage `json:"scoreData,omitempty"`
	FormData          audit.Response  `json:"formData"`
	GeneratedContent  json.RawMessage `json:"generatedContent,omitempty"`
	ClientStage       ClientStage     `json:"clientStage,omitempty"`
	SprintData        json.RawMessage `json:"sprintData,omitempty"`
	DocumentsUploaded []DocumentRef   `json:"documentsUploaded"`
	SubmittedAt       *time.Time      `json:"submittedAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Submission carries everything persisted when a questionnaire is submitted.
type Submission struct {
	SessionToken     string
	FormData         audit.Response
	Email            string
	CompanyName      string
	OverallScore     int
	ClientFolder     string
	ScoreData        json.RawMessage
	GeneratedContent json.RawMessage
	SubmittedAt      time.Time
}

// ListFilter narrows admin listings.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

// DeriveStage computes the pipeline stage shown to operators. A stored
// building/complete stage is an operator override and wins.
func DeriveStage(s Session) ClientStage {
	switch s.ClientStage {
	case StageBuilding, StageComplete:
		return s.ClientStage
	}
	if hasJSON(s.SprintData) {
		return StageBuilding
	}
	if s.Status == StatusInProgress || s.Status == "" {
		if len(s.FormData) == 0 {
			return StageNew
		}
		return StageInAudit
	}
	if len(s.DocumentsUploaded) == 0 {
		return StageDocsNeeded
	}
	return StageReady
}

func hasJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "{}", "[]", `""`:
		return false
	}
	return true
}
