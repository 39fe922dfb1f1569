package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"exitlayer/internal/shared/util"
)

// Event describes a completed submission.
type Event struct {
	SessionToken      string    `json:"sessionToken"`
	CompanyName       string    `json:"companyName"`
	ContactName       string    `json:"contactName"`
	Email             string    `json:"email"`
	ClientFolder      string    `json:"clientFolder"`
	OverallScore      int       `json:"overallScore"`
	PrimaryConstraint string    `json:"primaryConstraint,omitempty"`
	ValueGap          float64   `json:"valueGap"`
	P0Systems         int       `json:"p0Systems"`
	SubmittedAt       time.Time `json:"submittedAt"`
}

// Notifier tells operators about new submissions.
type Notifier interface {
	NotifySubmission(ctx context.Context, e Event) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) NotifySubmission(context.Context, Event) error { return nil }

// Multi fans out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifySubmission(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.NotifySubmission(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subject is the one-line summary used for email subjects and SNS.
func Subject(e Event) string {
	company := e.CompanyName
	if company == "" {
		company = "Unknown company"
	}
	return fmt.Sprintf("New ExitLayer audit: %s (score %d)", company, e.OverallScore)
}

// Body renders a plain-text summary of the submission.
func Body(e Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", e.CompanyName)
	fmt.Fprintf(&b, "Contact: %s <%s>\n", e.ContactName, e.Email)
	fmt.Fprintf(&b, "Overall score: %d\n", e.OverallScore)
	if e.PrimaryConstraint != "" {
		fmt.Fprintf(&b, "Primary constraint: %s\n", e.PrimaryConstraint)
	}
	fmt.Fprintf(&b, "Value gap: %s\n", util.Money(e.ValueGap))
	fmt.Fprintf(&b, "P0 systems: %d\n", e.P0Systems)
	fmt.Fprintf(&b, "Client folder: %s\n", e.ClientFolder)
	fmt.Fprintf(&b, "Session: %s\n", e.SessionToken)
	if !e.SubmittedAt.IsZero() {
		fmt.Fprintf(&b, "Submitted: %s\n", e.SubmittedAt.UTC().Format(time.RFC3339))
	}
	return b.String()
}
