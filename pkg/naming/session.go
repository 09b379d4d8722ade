package naming

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Negotiation errors.
var (
	// ErrNoProber is returned when a session is run without a prober.
	ErrNoProber = errors.New("no prober configured")

	// ErrAttemptsExhausted is returned when MaxAttempts renames did not
	// produce a free name.
	ErrAttemptsExhausted = errors.New("maximum rename attempts reached")
)

// SessionState represents the negotiation state of a session.
type SessionState uint8

const (
	// StateUnset - no candidate name has been derived yet.
	StateUnset SessionState = iota

	// StateProbing - a candidate name is being probed on the network.
	StateProbing

	// StateConfirmed - the candidate name is free and locked in.
	StateConfirmed
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateUnset:
		return "UNSET"
	case StateProbing:
		return "PROBING"
	case StateConfirmed:
		return "CONFIRMED"
	default:
		return "UNKNOWN"
	}
}

// Prober asks the local network whether a candidate name is already
// claimed by another device.
type Prober interface {
	// Probe reports whether name is free. Implementations issue one
	// outstanding probe at a time and must respect ctx cancellation.
	Probe(ctx context.Context, name string) (free bool, err error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, name string) (bool, error)

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, name string) (bool, error) {
	return f(ctx, name)
}

// SessionConfig configures a negotiation session.
type SessionConfig struct {
	// BaseName is the initial candidate. Empty means DefaultBaseName.
	BaseName string

	// Divider separates the base name from the numeric suffix.
	// Empty means DefaultDivider.
	Divider string

	// MaxAttempts caps the rename/re-probe loop. Zero means unlimited,
	// matching the historical behavior of unattended devices that keep
	// renaming until a probe succeeds.
	MaxAttempts int
}

// Session drives the probe/rename cycle for a single instance name.
// A session is used for one process run: once confirmed it stays
// confirmed and further probe results are ignored.
type Session struct {
	mu sync.Mutex

	config SessionConfig
	prober Prober

	state    SessionState
	name     string
	attempts int

	onConfirmed []func(name string)
	onConflict  []func(name string)
}

// NewSession creates a negotiation session.
func NewSession(config SessionConfig, prober Prober) *Session {
	return &Session{
		config: config,
		prober: prober,
		state:  StateUnset,
	}
}

// OnConfirmed registers a callback invoked exactly once, when the name
// is locked in. Callbacks registered after confirmation are not invoked.
func (s *Session) OnConfirmed(fn func(name string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConfirmed = append(s.onConfirmed, fn)
}

// OnConflict registers a callback invoked for every lost probe, with the
// name that was found to be in use.
func (s *Session) OnConflict(fn func(name string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConflict = append(s.onConflict, fn)
}

// State returns the current negotiation state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Name returns the current candidate (or confirmed) name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Confirmed reports whether the name has been locked in.
func (s *Session) Confirmed() bool {
	return s.State() == StateConfirmed
}

// Attempts returns the number of lost probes so far.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Run drives probing until a candidate name is confirmed, the attempt
// budget is exhausted, or ctx is canceled. It returns the confirmed name.
func (s *Session) Run(ctx context.Context) (string, error) {
	if s.prober == nil {
		return "", ErrNoProber
	}

	s.mu.Lock()
	if s.state == StateConfirmed {
		name := s.name
		s.mu.Unlock()
		return name, nil
	}
	if s.state == StateUnset {
		s.name = NextName("", s.config.Divider, s.config.BaseName)
		s.state = StateProbing
	}
	candidate := s.name
	s.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		free, err := s.prober.Probe(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("probe %q: %w", candidate, err)
		}

		if s.HandleProbeResult(candidate, free) {
			return candidate, nil
		}

		s.mu.Lock()
		if s.config.MaxAttempts > 0 && s.attempts >= s.config.MaxAttempts {
			s.mu.Unlock()
			return "", fmt.Errorf("%w (%d)", ErrAttemptsExhausted, s.config.MaxAttempts)
		}
		candidate = s.name
		s.mu.Unlock()
	}
}

// HandleProbeResult feeds a probe outcome into the session and reports
// whether the name is now confirmed. Results for names other than the
// current candidate, and any result after confirmation, are ignored so
// that confirmation side effects cannot fire twice.
func (s *Session) HandleProbeResult(name string, free bool) bool {
	s.mu.Lock()

	if s.state != StateProbing || name != s.name {
		confirmed := s.state == StateConfirmed
		s.mu.Unlock()
		return confirmed
	}

	if free {
		s.state = StateConfirmed
		confirmed := s.onConfirmed
		s.onConfirmed = nil
		s.mu.Unlock()

		for _, fn := range confirmed {
			fn(name)
		}
		return true
	}

	s.attempts++
	s.name = NextName(s.name, s.config.Divider, s.config.BaseName)
	conflict := append([]func(string){}, s.onConflict...)
	s.mu.Unlock()

	for _, fn := range conflict {
		fn(name)
	}
	return false
}
