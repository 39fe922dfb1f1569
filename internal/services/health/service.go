package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB and redis clients wrapped with PingFunc.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Service reports liveness of the process and its backing stores.
type Service struct {
	checks map[string]Pinger
}

// NewService constructs a health service. Nil checks are ignored.
func NewService(checks map[string]Pinger) *Service {
	s := &Service{checks: map[string]Pinger{}}
	for name, p := range checks {
		if p != nil {
			s.checks[name] = p
		}
	}
	return s
}

// Report is the health payload.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Status pings every dependency and reports "ok" or the error per check.
func (s *Service) Status(ctx context.Context) Report {
	rep := Report{OK: true}
	if len(s.checks) == 0 {
		return rep
	}
	rep.Checks = make(map[string]string, len(s.checks))
	for name, p := range s.checks {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := p.PingContext(pctx)
		cancel()
		if err != nil {
			rep.OK = false
			rep.Checks[name] = err.Error()
			continue
		}
		rep.Checks[name] = "ok"
	}
	return rep
}
