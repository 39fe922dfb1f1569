package sessions

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"exitlayer/internal/audit"
)

// MemoryRepo stores sessions in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	byToken map[string]Session
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byToken: make(map[string]Session)}
}

// Create stores a new session.
func (r *MemoryRepo) Create(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byToken[s.SessionToken] = clone(s)
	return nil
}

// GetByToken returns a session by token.
func (r *MemoryRepo) GetByToken(ctx context.Context, token string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return clone(s), nil
}

// SaveDraft replaces the form data of an in-progress session.
func (r *MemoryRepo) SaveDraft(ctx context.Context, token string, formData audit.Response, email, company string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[token]
	if !ok {
		return ErrNotFound
	}
	if s.Status != StatusInProgress {
		return ErrNotEditable
	}
	s.FormData = formData.Clone()
	if email != "" {
		s.Email = email
	}
	if company != "" {
		s.CompanyName = company
	}
	s.UpdatedAt = at
	r.byToken[token] = s
	return nil
}

// SaveSubmission creates or overwrites the session for sub.SessionToken as submitted.
func (r *MemoryRepo) SaveSubmission(ctx context.Context, id string, sub Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[sub.SessionToken]
	if !ok {
		s = Session{ID: id, SessionToken: sub.SessionToken, CreatedAt: sub.SubmittedAt}
	}
	score := sub.OverallScore
	submittedAt := sub.SubmittedAt
	s.Status = StatusSubmitted
	s.FormData = sub.FormData.Clone()
	s.Email = sub.Email
	s.CompanyName = sub.CompanyName
	s.OverallScore = &score
	s.ClientFolder = sub.ClientFolder
	s.ScoreData = copyRaw(sub.ScoreData)
	s.GeneratedContent = copyRaw(sub.GeneratedContent)
	s.SubmittedAt = &submittedAt
	s.UpdatedAt = sub.SubmittedAt
	r.byToken[sub.SessionToken] = s
	return nil
}

// UpdateStatus sets the status.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, token string, status Status, at time.Time) error {
	return r.update(ctx, token, func(s *Session) {
		s.Status = status
		s.UpdatedAt = at
	})
}

// UpdateStage sets the stored client stage.
func (r *MemoryRepo) UpdateStage(ctx context.Context, token string, stage ClientStage, at time.Time) error {
	return r.update(ctx, token, func(s *Session) {
		s.ClientStage = stage
		s.UpdatedAt = at
	})
}

// UpdateSprint replaces the sprint data.
func (r *MemoryRepo) UpdateSprint(ctx context.Context, token string, data json.RawMessage, at time.Time) error {
	return r.update(ctx, token, func(s *Session) {
		s.SprintData = copyRaw(data)
		s.UpdatedAt = at
	})
}

// AppendDocument adds an uploaded document reference.
func (r *MemoryRepo) AppendDocument(ctx context.Context, token string, doc DocumentRef, at time.Time) error {
	return r.update(ctx, token, func(s *Session) {
		s.DocumentsUploaded = append(s.DocumentsUploaded, doc)
		s.UpdatedAt = at
	})
}

// List returns sessions newest first, optionally filtered by status.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Session, 0, len(r.byToken))
	for _, s := range r.byToken {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, clone(s))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].SessionToken < out[j].SessionToken
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []Session{}, nil
	}
	end := len(out)
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}
	return out[offset:end], nil
}

func (r *MemoryRepo) update(ctx context.Context, token string, fn func(*Session)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[token]
	if !ok {
		return ErrNotFound
	}
	fn(&s)
	r.byToken[token] = s
	return nil
}

func clone(s Session) Session {
	s.FormData = s.FormData.Clone()
	s.ScoreData = copyRaw(s.ScoreData)
	s.GeneratedContent = copyRaw(s.GeneratedContent)
	s.SprintData = copyRaw(s.SprintData)
	if s.DocumentsUploaded != nil {
		docs := make([]DocumentRef, len(s.DocumentsUploaded))
		copy(docs, s.DocumentsUploaded)
		s.DocumentsUploaded = docs
	}
	return s
}

func copyRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}
