package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"exitlayer/internal/audit"
	"exitlayer/internal/questionnaire"
	"exitlayer/internal/shared/metrics"
	"exitlayer/internal/shared/telemetry"
)

// Service implements the session lifecycle on top of a Repo.
type Service struct {
	Repo Repo
	Now  func() time.Time
	// NewToken mints session tokens; defaults to a random UUID.
	NewToken func() string
}

// NewService constructs a Service with default clock and token source.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newToken() string {
	if s.NewToken != nil {
		return s.NewToken()
	}
	return uuid.NewString()
}

// MintToken returns a fresh session token.
func (s *Service) MintToken() string {
	return s.newToken()
}

// Create starts a new in-progress session.
func (s *Service) Create(ctx context.Context, email string) (Session, error) {
	now := s.now()
	sess := Session{
		ID:                uuid.NewString(),
		SessionToken:      s.newToken(),
		Status:            StatusInProgress,
		Email:             normalizeEmail(email),
		FormData:          audit.Response{},
		DocumentsUploaded: []DocumentRef{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Repo.Create(ctx, sess); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	telemetry.Info("session.created", map[string]any{"session_token": sess.SessionToken})
	return sess, nil
}

// Get returns a session by token.
func (s *Service) Get(ctx context.Context, token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrNotFound
	}
	return s.Repo.GetByToken(ctx, token)
}

// Resume loads a draft for a returning visitor. When both the caller and the
// session carry an email they must match.
func (s *Service) Resume(ctx context.Context, token, email string) (Session, error) {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if !emailMatches(sess.Email, email) {
		return Session{}, ErrEmailMismatch
	}
	return sess, nil
}

// Autosave replaces the draft answers of an in-progress session. Reserved
// transport keys are dropped. Concurrent saves are last-write-wins.
func (s *Service) Autosave(ctx context.Context, token string, answers audit.Response) (Session, questionnaire.Progress, error) {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return Session{}, questionnaire.Progress{}, err
	}
	if sess.Status != StatusInProgress {
		return Session{}, questionnaire.Progress{}, ErrNotEditable
	}

	clean, _ := answers.Split()
	email := clean.ContactEmail()
	if sess.Email != "" && email != "" && !emailMatches(sess.Email, email) {
		return Session{}, questionnaire.Progress{}, ErrEmailMismatch
	}

	now := s.now()
	if err := s.Repo.SaveDraft(ctx, sess.SessionToken, clean, email, clean.CompanyName(), now); err != nil {
		return Session{}, questionnaire.Progress{}, fmt.Errorf("save draft: %w", err)
	}
	metrics.IncAutosave()

	sess.FormData = clean
	if email != "" {
		sess.Email = email
	}
	if c := clean.CompanyName(); c != "" {
		sess.CompanyName = c
	}
	sess.UpdatedAt = now
	return sess, questionnaire.ProgressOf(clean), nil
}

// SaveDraft satisfies DraftSaver so the Autosaver can flush through the service.
func (s *Service) SaveDraft(ctx context.Context, token string, data audit.Response) error {
	_, _, err := s.Autosave(ctx, token, data)
	return err
}

// CheckSubmittable verifies a submission may proceed for token. A session that
// is already submitted is returned without error so callers can replay it.
func (s *Service) CheckSubmittable(ctx context.Context, token, email string) (Session, error) {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if sess.Status == StatusAccountCreated {
		return Session{}, ErrNotEditable
	}
	if !emailMatches(sess.Email, email) {
		return Session{}, ErrEmailMismatch
	}
	return sess, nil
}

// SaveSubmission persists a submitted questionnaire, creating the session row when needed.
func (s *Service) SaveSubmission(ctx context.Context, sub Submission) error {
	if strings.TrimSpace(sub.SessionToken) == "" {
		return fmt.Errorf("%w: session token is required", ErrInvalidInput)
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now()
	}
	sub.Email = normalizeEmail(sub.Email)
	return s.Repo.SaveSubmission(ctx, uuid.NewString(), sub)
}

// List returns sessions for the admin panel.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Session, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	return s.Repo.List(ctx, filter)
}

// AdvanceStatus moves a session forward along the status sequence.
func (s *Service) AdvanceStatus(ctx context.Context, token string, to Status) (Session, error) {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if !CanTransition(sess.Status, to) {
		return Session{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sess.Status, to)
	}
	now := s.now()
	if err := s.Repo.UpdateStatus(ctx, sess.SessionToken, to, now); err != nil {
		return Session{}, err
	}
	telemetry.Info("session.status_changed", map[string]any{
		"session_token": sess.SessionToken,
		"from":          string(sess.Status),
		"to":            string(to),
	})
	sess.Status = to
	sess.UpdatedAt = now
	return sess, nil
}

// SetStage stores an operator-chosen client stage. An empty stage clears it.
func (s *Service) SetStage(ctx context.Context, token, raw string) (Session, error) {
	stage, ok := ParseStage(raw)
	if !ok {
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidStage, raw)
	}
	sess, err := s.Get(ctx, token)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	if err := s.Repo.UpdateStage(ctx, sess.SessionToken, stage, now); err != nil {
		return Session{}, err
	}
	sess.ClientStage = stage
	sess.UpdatedAt = now
	return sess, nil
}

// SetSprint replaces sprint data. It must be a JSON object or array.
func (s *Service) SetSprint(ctx context.Context, token string, data json.RawMessage) (Session, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return Session{}, fmt.Errorf("%w: sprint data must be JSON", ErrInvalidInput)
	}
	switch probe.(type) {
	case map[string]any, []any:
	default:
		return Session{}, fmt.Errorf("%w: sprint data must be an object or array", ErrInvalidInput)
	}
	sess, err := s.Get(ctx, token)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	if err := s.Repo.UpdateSprint(ctx, sess.SessionToken, data, now); err != nil {
		return Session{}, err
	}
	sess.SprintData = data
	sess.UpdatedAt = now
	return sess, nil
}

// AddDocument records an upload against a submitted session.
func (s *Service) AddDocument(ctx context.Context, token string, doc DocumentRef) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	if sess.Status == StatusInProgress {
		return ErrNotSubmitted
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = s.now()
	}
	return s.Repo.AppendDocument(ctx, sess.SessionToken, doc, s.now())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailMatches(stored, given string) bool {
	stored, given = normalizeEmail(stored), normalizeEmail(given)
	if stored == "" || given == "" {
		return true
	}
	return stored == given
}
