package sessions

import (
	"context"
	"encoding/json"
	"time"

	"exitlayer/internal/audit"
)

// Repo persists audit sessions. Writes are last-write-wins; nothing here locks a row.
type Repo interface {
	Create(ctx context.Context, s Session) error
	GetByToken(ctx context.Context, token string) (Session, error)
	SaveDraft(ctx context.Context, token string, formData audit.Response, email, company string, at time.Time) error
	SaveSubmission(ctx context.Context, id string, sub Submission) error
	UpdateStatus(ctx context.Context, token string, status Status, at time.Time) error
	UpdateStage(ctx context.Context, token string, stage ClientStage, at time.Time) error
	UpdateSprint(ctx context.Context, token string, data json.RawMessage, at time.Time) error
	AppendDocument(ctx context.Context, token string, doc DocumentRef, at time.Time) error
	List(ctx context.Context, filter ListFilter) ([]Session, error)
}
