// Package health reports the availability of the pipeline's external
// dependencies without exercising them end to end.
package health

import (
	"context"
	"sort"
	"time"
)

// Pinger is implemented by dependencies with a cheap connectivity probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the service health snapshot.
type Status struct {
	Status     string          `json:"status"`
	Version    string          `json:"version"`
	Components map[string]bool `json:"components"`
	Degraded   []string        `json:"degraded,omitempty"`
}

// Service aggregates availability checks registered at startup.
type Service struct {
	version string
	checks  map[string]func() bool
	pingers map[string]Pinger
}

func New(version string) *Service {
	return &Service{
		version: version,
		checks:  make(map[string]func() bool),
		pingers: make(map[string]Pinger),
	}
}

// RegisterCheck adds a cheap local availability check.
func (s *Service) RegisterCheck(name string, fn func() bool) {
	s.checks[name] = fn
}

// RegisterPinger adds a dependency probed over the network.
func (s *Service) RegisterPinger(name string, p Pinger) {
	s.pingers[name] = p
}

// Snapshot evaluates every registered check. The service itself is always
// reported up; unavailable dependencies are listed as degraded because the
// pipeline keeps serving without them.
func (s *Service) Snapshot(ctx context.Context) Status {
	st := Status{
		Status:     "ok",
		Version:    s.version,
		Components: make(map[string]bool, len(s.checks)+len(s.pingers)),
	}

	for name, fn := range s.checks {
		st.Components[name] = fn()
	}

	for name, p := range s.pingers {
		pctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		st.Components[name] = p.Ping(pctx) == nil
		cancel()
	}

	for name, up := range st.Components {
		if !up {
			st.Degraded = append(st.Degraded, name)
		}
	}
	sort.Strings(st.Degraded)
	return st
}
