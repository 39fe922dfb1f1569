package questionnaire

import (
	"sync"

	"exitlayer/internal/audit"
)

// Draft accumulates answers for one session. Safe for concurrent use.
type Draft struct {
	mu      sync.RWMutex
	answers audit.Response
	onSet   func(audit.Response)
}

// NewDraft seeds a draft with existing answers. onChange, if set, receives a
// snapshot after every mutation.
func NewDraft(initial audit.Response, onChange func(audit.Response)) *Draft {
	d := &Draft{answers: make(audit.Response), onSet: onChange}
	for k, v := range initial {
		d.answers[k] = v
	}
	return d
}

// Set records one answer. A nil value clears it.
func (d *Draft) Set(key string, value any) {
	d.mu.Lock()
	if value == nil {
		delete(d.answers, key)
	} else {
		d.answers[key] = value
	}
	snap := d.answers.Clone()
	d.mu.Unlock()
	if d.onSet != nil {
		d.onSet(snap)
	}
}

// Answers returns a snapshot of the answers.
func (d *Draft) Answers() audit.Response {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.answers.Clone()
}

// Visible returns the questions shown for the current answers.
func (d *Draft) Visible() []Question {
	return VisibleQuestions(d.Answers())
}

// Progress reports completion for the current answers.
func (d *Draft) Progress() Progress {
	return ProgressOf(d.Answers())
}
