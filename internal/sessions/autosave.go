package sessions

import (
	"context"
	"sync"
	"time"

	"exitlayer/internal/audit"
	"exitlayer/internal/shared/telemetry"
)

// DraftSaver persists a draft snapshot for a session.
type DraftSaver interface {
	SaveDraft(ctx context.Context, token string, data audit.Response) error
}

// DefaultAutosaveDelay is the quiet period before a pending draft is written.
const DefaultAutosaveDelay = 1500 * time.Millisecond

// Autosaver debounces draft writes per session: only the latest snapshot
// scheduled within the delay is saved. Scoring never depends on it.
type Autosaver struct {
	saver DraftSaver
	delay time.Duration

	mu      sync.Mutex
	pending map[string]audit.Response
	timers  map[string]*time.Timer
	closed  bool
}

// NewAutosaver returns an Autosaver writing through saver.
func NewAutosaver(saver DraftSaver, delay time.Duration) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{
		saver:   saver,
		delay:   delay,
		pending: make(map[string]audit.Response),
		timers:  make(map[string]*time.Timer),
	}
}

// Schedule queues data for token, restarting its timer.
func (a *Autosaver) Schedule(token string, data audit.Response) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending[token] = data.Clone()
	if t, ok := a.timers[token]; ok {
		t.Stop()
	}
	a.timers[token] = time.AfterFunc(a.delay, func() { a.fire(token) })
}

// Pending returns the unsaved snapshot for token, if any.
func (a *Autosaver) Pending(token string) (audit.Response, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, ok := a.pending[token]
	if !ok {
		return nil, false
	}
	return data.Clone(), true
}

// Cancel drops any pending snapshot for token.
func (a *Autosaver) Cancel(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.drop(token)
}

// Flush saves every pending snapshot now and returns the first error.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	batch := make(map[string]audit.Response, len(a.pending))
	for token, data := range a.pending {
		batch[token] = data
		a.drop(token)
	}
	a.mu.Unlock()

	var first error
	for token, data := range batch {
		if err := a.save(ctx, token, data); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close flushes pending drafts and stops accepting new ones.
func (a *Autosaver) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return a.Flush(ctx)
}

func (a *Autosaver) fire(token string) {
	a.mu.Lock()
	data, ok := a.pending[token]
	if ok {
		a.drop(token)
	}
	a.mu.Unlock()
	if !ok {
		return
	}
	_ = a.save(context.Background(), token, data)
}

func (a *Autosaver) save(ctx context.Context, token string, data audit.Response) error {
	if err := a.saver.SaveDraft(ctx, token, data); err != nil {
		telemetry.Warn("session.autosave_failed", map[string]any{
			"session_token": token,
			"err":           err,
		})
		return err
	}
	return nil
}

// drop must be called with mu held.
func (a *Autosaver) drop(token string) {
	if t, ok := a.timers[token]; ok {
		t.Stop()
		delete(a.timers, token)
	}
	delete(a.pending, token)
}
