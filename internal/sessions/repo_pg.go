package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"exitlayer/internal/audit"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const sessionColumns = `id, session_token, status, email, company_name, overall_score, client_folder,
       score_data, form_data, generated_content, client_stage, sprint_data, documents_uploaded,
       submitted_at, created_at, updated_at`

// Create inserts a new session.
func (r *PGRepo) Create(ctx context.Context, s Session) error {
	const query = `
INSERT INTO audit_sessions (id, session_token, status, email, company_name, form_data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	form, err := marshalForm(s.FormData)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		s.ID,
		s.SessionToken,
		string(s.Status),
		nullString(s.Email),
		nullString(s.CompanyName),
		form,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

// GetByToken returns a session by token.
func (r *PGRepo) GetByToken(ctx context.Context, token string) (Session, error) {
	query := `SELECT ` + sessionColumns + `
FROM audit_sessions
WHERE session_token = $1
LIMIT 1`
	s, err := scanSession(r.DB.QueryRowContext(ctx, query, token))
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	return s, err
}

// SaveDraft replaces form data of an in-progress session; email and company
// are only overwritten when given. A session that has moved on yields ErrNotEditable.
func (r *PGRepo) SaveDraft(ctx context.Context, token string, formData audit.Response, email, company string, at time.Time) error {
	const query = `
UPDATE audit_sessions
SET form_data = $2,
    email = COALESCE($3, email),
    company_name = COALESCE($4, company_name),
    updated_at = $5
WHERE session_token = $1 AND status = 'in_progress'`
	form, err := marshalForm(formData)
	if err != nil {
		return err
	}
	err = r.exec(ctx, query, token, form, nullString(email), nullString(company), at)
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	var exists bool
	if qerr := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM audit_sessions WHERE session_token = $1)`, token).Scan(&exists); qerr != nil {
		return qerr
	}
	if exists {
		return ErrNotEditable
	}
	return ErrNotFound
}

// SaveSubmission upserts the submitted session keyed by session token.
func (r *PGRepo) SaveSubmission(ctx context.Context, id string, sub Submission) error {
	const query = `
INSERT INTO audit_sessions (
    id, session_token, status, email, company_name, overall_score, client_folder,
    score_data, form_data, generated_content, submitted_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11, $11)
ON CONFLICT (session_token) DO UPDATE SET
    status = EXCLUDED.status,
    email = EXCLUDED.email,
    company_name = EXCLUDED.company_name,
    overall_score = EXCLUDED.overall_score,
    client_folder = EXCLUDED.client_folder,
    score_data = EXCLUDED.score_data,
    form_data = EXCLUDED.form_data,
    generated_content = EXCLUDED.generated_content,
    submitted_at = EXCLUDED.submitted_at,
    updated_at = EXCLUDED.updated_at`
	form, err := marshalForm(sub.FormData)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		id,
		sub.SessionToken,
		string(StatusSubmitted),
		nullString(sub.Email),
		nullString(sub.CompanyName),
		sub.OverallScore,
		nullString(sub.ClientFolder),
		rawJSONB(sub.ScoreData),
		form,
		rawJSONB(sub.GeneratedContent),
		sub.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

// UpdateStatus sets the status.
func (r *PGRepo) UpdateStatus(ctx context.Context, token string, status Status, at time.Time) error {
	const query = `UPDATE audit_sessions SET status = $2, updated_at = $3 WHERE session_token = $1`
	return r.exec(ctx, query, token, string(status), at)
}

// UpdateStage sets the stored client stage.
func (r *PGRepo) UpdateStage(ctx context.Context, token string, stage ClientStage, at time.Time) error {
	const query = `UPDATE audit_sessions SET client_stage = $2, updated_at = $3 WHERE session_token = $1`
	return r.exec(ctx, query, token, nullString(string(stage)), at)
}

// UpdateSprint replaces the sprint data.
func (r *PGRepo) UpdateSprint(ctx context.Context, token string, data json.RawMessage, at time.Time) error {
	const query = `UPDATE audit_sessions SET sprint_data = $2, updated_at = $3 WHERE session_token = $1`
	return r.exec(ctx, query, token, rawJSONB(data), at)
}

// AppendDocument appends to the documents_uploaded array.
func (r *PGRepo) AppendDocument(ctx context.Context, token string, doc DocumentRef, at time.Time) error {
	const query = `
UPDATE audit_sessions
SET documents_uploaded = COALESCE(documents_uploaded, '[]'::jsonb) || $2::jsonb,
    updated_at = $3
WHERE session_token = $1`
	payload, err := json.Marshal([]DocumentRef{doc})
	if err != nil {
		return err
	}
	return r.exec(ctx, query, token, payload, at)
}

// List returns sessions newest first.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Session, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + sessionColumns + `
FROM audit_sessions
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC, session_token
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, string(filter.Status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var s Session
	var status string
	var email, company, folder, stage sql.NullString
	var score sql.NullInt64
	var scoreData, formData, generated, sprint, docs []byte
	var submittedAt sql.NullTime
	err := row.Scan(
		&s.ID,
		&s.SessionToken,
		&status,
		&email,
		&company,
		&score,
		&folder,
		&scoreData,
		&formData,
		&generated,
		&stage,
		&sprint,
		&docs,
		&submittedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return Session{}, err
	}
	s.Status = Status(status)
	s.Email = email.String
	s.CompanyName = company.String
	s.ClientFolder = folder.String
	s.ClientStage = ClientStage(stage.String)
	if score.Valid {
		v := int(score.Int64)
		s.OverallScore = &v
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		s.SubmittedAt = &t
	}
	s.ScoreData = nonEmptyRaw(scoreData)
	s.GeneratedContent = nonEmptyRaw(generated)
	s.SprintData = nonEmptyRaw(sprint)

	s.FormData = audit.Response{}
	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &s.FormData); err != nil {
			return Session{}, fmt.Errorf("decode form_data: %w", err)
		}
	}
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &s.DocumentsUploaded); err != nil {
			return Session{}, fmt.Errorf("decode documents_uploaded: %w", err)
		}
	}
	return s, nil
}

func marshalForm(form audit.Response) ([]byte, error) {
	if form == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(form)
}

func rawJSONB(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func nonEmptyRaw(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
