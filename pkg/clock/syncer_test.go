package clock

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/beevik/ntp"
)

func TestSyncerAppliesOffset(t *testing.T) {
	s := NewSyncer(SyncerConfig{})
	s.queryFunc = func(string) (*ntp.Response, error) {
		return &ntp.Response{ClockOffset: 2 * time.Hour}, nil
	}

	if err := s.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	diff := s.Now().Sub(time.Now().Add(2 * time.Hour))
	if diff < -time.Second || diff > time.Second {
		t.Errorf("Now() not offset-corrected, diff = %v", diff)
	}
}

func TestSyncerPhases(t *testing.T) {
	s := NewSyncer(SyncerConfig{OffsetThreshold: 100 * time.Millisecond})

	if got := s.Status().Phase; got != PhaseUnchecked {
		t.Fatalf("initial phase = %v, want unchecked", got)
	}

	// Small offset: healthy.
	s.queryFunc = func(string) (*ntp.Response, error) {
		return &ntp.Response{ClockOffset: 10 * time.Millisecond}, nil
	}
	if err := s.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if got := s.Status().Phase; got != PhaseHealthy {
		t.Errorf("phase = %v, want healthy", got)
	}

	// Large offset: degraded.
	s.queryFunc = func(string) (*ntp.Response, error) {
		return &ntp.Response{ClockOffset: time.Second}, nil
	}
	_ = s.Sync()
	if got := s.Status().Phase; got != PhaseDegraded {
		t.Errorf("phase = %v, want degraded", got)
	}

	// Query failure: error phase, error string retained.
	s.queryFunc = func(string) (*ntp.Response, error) {
		return nil, errors.New("timeout")
	}
	if err := s.Sync(); err == nil {
		t.Error("Sync() error = nil, want timeout")
	}
	st := s.Status()
	if st.Phase != PhaseError {
		t.Errorf("phase = %v, want error", st.Phase)
	}
	if st.Error != "timeout" {
		t.Errorf("Error = %q, want %q", st.Error, "timeout")
	}

	// Recovery: healthy again, error cleared.
	s.queryFunc = func(string) (*ntp.Response, error) {
		return &ntp.Response{ClockOffset: 0}, nil
	}
	_ = s.Sync()
	st = s.Status()
	if st.Phase != PhaseHealthy {
		t.Errorf("phase after recovery = %v, want healthy", st.Phase)
	}
	if st.Error != "" {
		t.Errorf("Error = %q, want empty", st.Error)
	}
}

func TestPhaseTransitions(t *testing.T) {
	tests := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseUnchecked, PhaseHealthy, true},
		{PhaseUnchecked, PhaseDegraded, true},
		{PhaseUnchecked, PhaseError, true},
		{PhaseHealthy, PhaseDegraded, true},
		{PhaseHealthy, PhaseError, true},
		{PhaseHealthy, PhaseUnchecked, false},
		{PhaseDegraded, PhaseHealthy, true},
		{PhaseDegraded, PhaseError, true},
		{PhaseDegraded, PhaseUnchecked, false},
		{PhaseError, PhaseHealthy, true},
		{PhaseError, PhaseDegraded, true},
		{PhaseError, PhaseUnchecked, false},
	}

	for _, tt := range tests {
		if got := tt.from.canTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseUnchecked, "unchecked"},
		{PhaseHealthy, "healthy"},
		{PhaseDegraded, "degraded"},
		{PhaseError, "error"},
		{Phase(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestTimestampFormat(t *testing.T) {
	s := NewSyncer(SyncerConfig{})

	ts := s.Timestamp()
	if strings.ContainsAny(ts, "\r\n") {
		t.Errorf("Timestamp() = %q contains a line terminator", ts)
	}

	// The published format must round-trip through the declared layout.
	if _, err := time.Parse(ClockFormat, ts); err != nil {
		t.Errorf("Timestamp() %q does not match layout %q: %v", ts, ClockFormat, err)
	}
}

func TestNewSyncerDefaults(t *testing.T) {
	s := NewSyncer(SyncerConfig{})
	if s.pool != DefaultPool {
		t.Errorf("pool = %q, want %q", s.pool, DefaultPool)
	}
	if s.interval != DefaultSyncInterval {
		t.Errorf("interval = %v, want %v", s.interval, DefaultSyncInterval)
	}
	if s.threshold != DefaultOffsetThreshold {
		t.Errorf("threshold = %v, want %v", s.threshold, DefaultOffsetThreshold)
	}
}
