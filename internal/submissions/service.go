package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"exitlayer/internal/audit"
	"exitlayer/internal/notify"
	"exitlayer/internal/scoring"
	"exitlayer/internal/sessions"
	"exitlayer/internal/shared/metrics"
	"exitlayer/internal/shared/telemetry"
	"exitlayer/internal/shared/util"
	"exitlayer/internal/systemspec"
)

// ErrPersist marks a submission whose session row could not be written.
var ErrPersist = errors.New("failed to save submission")

const defaultFollowUpTimeout = 30 * time.Second

// Result is what a caller needs to answer the prospect.
type Result struct {
	Score        scoring.Score
	ClientFolder string
	SessionToken string
	Replayed     bool
}

// Service runs the submission pipeline.
type Service struct {
	Sessions *sessions.Service
	Weights  scoring.Weights
	// Artifacts and Notifier are optional follow-ups run after the session is saved.
	Artifacts       *ArtifactWriter
	Notifier        notify.Notifier
	Now             func() time.Time
	FollowUpTimeout time.Duration

	wg sync.WaitGroup
}

// NewService constructs a Service with default weights.
func NewService(sess *sessions.Service) *Service {
	return &Service{Sessions: sess, Weights: scoring.DefaultWeights()}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Submit validates, scores and persists one submission. A session that was
// already submitted is answered from its stored score without regenerating.
func (s *Service) Submit(ctx context.Context, payload audit.Response) (Result, error) {
	answers, reserved := payload.Split()
	if err := Validate(answers); err != nil {
		metrics.IncSubmission(metrics.OutcomeInvalid)
		return Result{}, err
	}

	email := answers.ContactEmail()
	token := reserved.SessionToken
	if token != "" {
		sess, err := s.Sessions.CheckSubmittable(ctx, token, email)
		if err != nil {
			metrics.IncSubmission(metrics.OutcomeRejected)
			return Result{}, err
		}
		if sess.Status == sessions.StatusSubmitted {
			return s.replay(sess)
		}
	} else {
		token = s.Sessions.MintToken()
	}

	company := answers.CompanyName()
	folder := util.ClientFolder(company, token)
	now := s.now()

	start := time.Now()
	bundle := Build(answers, s.Weights, reserved, folder, now)
	metrics.ObservePipeline(time.Since(start))

	scoreJSON, err := json.Marshal(bundle.Score)
	if err != nil {
		metrics.IncSubmission(metrics.OutcomeFailed)
		return Result{}, fmt.Errorf("%w: marshal score: %v", ErrPersist, err)
	}
	contentJSON, err := json.Marshal(bundle)
	if err != nil {
		metrics.IncSubmission(metrics.OutcomeFailed)
		return Result{}, fmt.Errorf("%w: marshal bundle: %v", ErrPersist, err)
	}

	err = s.Sessions.SaveSubmission(ctx, sessions.Submission{
		SessionToken:     token,
		FormData:         answers,
		Email:            email,
		CompanyName:      company,
		OverallScore:     bundle.Score.Overall,
		ClientFolder:     folder,
		ScoreData:        scoreJSON,
		GeneratedContent: contentJSON,
		SubmittedAt:      now,
	})
	if err != nil {
		metrics.IncSubmission(metrics.OutcomeFailed)
		telemetry.Error("submission.persist_failed", map[string]any{
			"session_token": token,
			"client_folder": folder,
			"error":         err.Error(),
		})
		return Result{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	metrics.IncSubmission(metrics.OutcomeScored)
	metrics.ObserveScore(bundle.Score.Overall)
	telemetry.Info("submission.scored", map[string]any{
		"session_token": token,
		"client_folder": folder,
		"overall_score": bundle.Score.Overall,
	})

	s.followUp(bundle, eventFor(answers, bundle, token, now))

	return Result{Score: bundle.Score, ClientFolder: folder, SessionToken: token}, nil
}

func (s *Service) replay(sess sessions.Session) (Result, error) {
	var score scoring.Score
	if len(sess.ScoreData) > 0 {
		if err := json.Unmarshal(sess.ScoreData, &score); err != nil {
			metrics.IncSubmission(metrics.OutcomeFailed)
			return Result{}, fmt.Errorf("decode stored score: %w", err)
		}
	}
	metrics.IncSubmission(metrics.OutcomeReplay)
	telemetry.Info("submission.replayed", map[string]any{
		"session_token": sess.SessionToken,
		"client_folder": sess.ClientFolder,
	})
	return Result{
		Score:        score,
		ClientFolder: sess.ClientFolder,
		SessionToken: sess.SessionToken,
		Replayed:     true,
	}, nil
}

// followUp writes artifacts and notifies in the background. The request
// context is not used so a disconnecting client cannot cancel it.
func (s *Service) followUp(b Bundle, e notify.Event) {
	if s.Artifacts == nil && s.Notifier == nil {
		return
	}
	timeout := s.FollowUpTimeout
	if timeout <= 0 {
		timeout = defaultFollowUpTimeout
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if s.Artifacts != nil {
			if err := s.Artifacts.Write(ctx, b); err != nil {
				telemetry.Warn("submission.artifacts_failed", map[string]any{
					"session_token": e.SessionToken,
					"client_folder": e.ClientFolder,
					"error":         err.Error(),
				})
			}
		}
		if s.Notifier != nil {
			if err := s.Notifier.NotifySubmission(ctx, e); err != nil {
				telemetry.Warn("submission.notify_failed", map[string]any{
					"session_token": e.SessionToken,
					"error":         err.Error(),
				})
			}
		}
	}()
}

// Wait blocks until background follow-ups finish or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func eventFor(answers audit.Response, b Bundle, token string, at time.Time) notify.Event {
	e := notify.Event{
		SessionToken: token,
		CompanyName:  answers.CompanyName(),
		ContactName:  answers.ContactName(),
		Email:        answers.ContactEmail(),
		ClientFolder: b.Metadata.ClientFolder,
		OverallScore: b.Score.Overall,
		ValueGap:     b.Score.FinancialMetrics.ValueGap,
		P0Systems:    b.SystemSpec.CountPriority(systemspec.P0),
		SubmittedAt:  at,
	}
	if b.Score.PrimaryConstraint != nil {
		e.PrimaryConstraint = b.Score.PrimaryConstraint.Label
	}
	return e
}
