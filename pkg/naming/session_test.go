package naming

import (
	"context"
	"errors"
	"testing"
	"time"
)

// scriptedProber reports the names in "taken" as used and everything
// else as free, recording every probed name.
type scriptedProber struct {
	taken  map[string]bool
	probed []string
	err    error
}

func (p *scriptedProber) Probe(_ context.Context, name string) (bool, error) {
	p.probed = append(p.probed, name)
	if p.err != nil {
		return false, p.err
	}
	return !p.taken[name], nil
}

func TestSessionFirstProbeFree(t *testing.T) {
	prober := &scriptedProber{taken: map[string]bool{}}
	s := NewSession(SessionConfig{BaseName: "beacon"}, prober)

	name, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if name != "beacon" {
		t.Errorf("Run() = %q, want %q", name, "beacon")
	}
	if !s.Confirmed() {
		t.Error("session not confirmed")
	}
	if s.Attempts() != 0 {
		t.Errorf("Attempts() = %d, want 0", s.Attempts())
	}
}

func TestSessionFiveConflicts(t *testing.T) {
	prober := &scriptedProber{taken: map[string]bool{
		"esp8266":   true,
		"esp8266-2": true,
		"esp8266-3": true,
		"esp8266-4": true,
		"esp8266-5": true,
	}}
	s := NewSession(SessionConfig{}, prober)

	var conflicts []string
	s.OnConflict(func(name string) { conflicts = append(conflicts, name) })

	name, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if name != "esp8266-6" {
		t.Errorf("Run() = %q, want %q", name, "esp8266-6")
	}

	wantProbed := []string{"esp8266", "esp8266-2", "esp8266-3", "esp8266-4", "esp8266-5", "esp8266-6"}
	if len(prober.probed) != len(wantProbed) {
		t.Fatalf("probed %v, want %v", prober.probed, wantProbed)
	}
	for i, want := range wantProbed {
		if prober.probed[i] != want {
			t.Errorf("probe %d = %q, want %q", i, prober.probed[i], want)
		}
	}

	if len(conflicts) != 5 {
		t.Errorf("got %d conflict callbacks, want 5", len(conflicts))
	}
	if s.Attempts() != 5 {
		t.Errorf("Attempts() = %d, want 5", s.Attempts())
	}
}

func TestSessionConfirmFiresOnce(t *testing.T) {
	prober := &scriptedProber{taken: map[string]bool{}}
	s := NewSession(SessionConfig{BaseName: "beacon"}, prober)

	confirmed := 0
	s.OnConfirmed(func(string) { confirmed++ })

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Late results for the confirmed name or any other name must not
	// re-trigger confirmation side effects.
	s.HandleProbeResult("beacon", true)
	s.HandleProbeResult("beacon", false)
	s.HandleProbeResult("other", true)

	if confirmed != 1 {
		t.Errorf("confirmation callback fired %d times, want 1", confirmed)
	}
	if got := s.Name(); got != "beacon" {
		t.Errorf("Name() = %q after stale results, want %q", got, "beacon")
	}
}

func TestSessionIgnoresStaleNames(t *testing.T) {
	s := NewSession(SessionConfig{BaseName: "beacon"}, nil)
	s.mu.Lock()
	s.name = "beacon"
	s.state = StateProbing
	s.mu.Unlock()

	// A result for a different name must not advance the state machine.
	if s.HandleProbeResult("someone-else", true) {
		t.Error("stale result confirmed the session")
	}
	if s.State() != StateProbing {
		t.Errorf("State() = %v, want PROBING", s.State())
	}
	if s.Name() != "beacon" {
		t.Errorf("Name() = %q, want %q", s.Name(), "beacon")
	}
}

func TestSessionMaxAttempts(t *testing.T) {
	prober := &scriptedProber{taken: map[string]bool{}}
	// Everything is taken.
	everything := ProberFunc(func(ctx context.Context, name string) (bool, error) {
		prober.probed = append(prober.probed, name)
		return false, nil
	})

	s := NewSession(SessionConfig{BaseName: "beacon", MaxAttempts: 3}, everything)
	_, err := s.Run(context.Background())
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("Run() error = %v, want ErrAttemptsExhausted", err)
	}
	if len(prober.probed) != 3 {
		t.Errorf("probed %d names, want 3: %v", len(prober.probed), prober.probed)
	}
}

func TestSessionNoProber(t *testing.T) {
	s := NewSession(SessionConfig{}, nil)
	if _, err := s.Run(context.Background()); !errors.Is(err, ErrNoProber) {
		t.Errorf("Run() error = %v, want ErrNoProber", err)
	}
}

func TestSessionProbeError(t *testing.T) {
	probeErr := errors.New("network down")
	s := NewSession(SessionConfig{BaseName: "beacon"}, &scriptedProber{err: probeErr})

	_, err := s.Run(context.Background())
	if !errors.Is(err, probeErr) {
		t.Fatalf("Run() error = %v, want wrapped %v", err, probeErr)
	}
	// The candidate is retained so a caller can retry.
	if s.Name() != "beacon" {
		t.Errorf("Name() = %q after probe error, want %q", s.Name(), "beacon")
	}
	if s.Confirmed() {
		t.Error("session confirmed despite probe error")
	}
}

func TestSessionContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// Unbounded conflict loop; cancel from the prober after a few rounds.
	rounds := 0
	prober := ProberFunc(func(ctx context.Context, name string) (bool, error) {
		rounds++
		if rounds == 4 {
			cancel()
		}
		return false, nil
	})

	s := NewSession(SessionConfig{BaseName: "beacon"}, prober)

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func TestSessionRunAfterConfirmed(t *testing.T) {
	prober := &scriptedProber{taken: map[string]bool{}}
	s := NewSession(SessionConfig{BaseName: "beacon"}, prober)

	first, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// A second Run returns the locked-in name without probing again.
	second, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second != first {
		t.Errorf("second Run() = %q, want %q", second, first)
	}
	if len(prober.probed) != 1 {
		t.Errorf("probed %d times, want 1", len(prober.probed))
	}
}

func TestSessionStateString(t *testing.T) {
	tests := []struct {
		state SessionState
		want  string
	}{
		{StateUnset, "UNSET"},
		{StateProbing, "PROBING"},
		{StateConfirmed, "CONFIRMED"},
		{SessionState(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
