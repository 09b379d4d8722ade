package clock

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"
)

// Defaults for NTP synchronization.
const (
	// DefaultPool is the NTP pool queried when none is configured.
	DefaultPool = "pool.ntp.org"

	// DefaultSyncInterval is how often the clock is re-synchronized.
	DefaultSyncInterval = 15 * time.Minute

	// DefaultOffsetThreshold is the offset above which the clock is
	// considered degraded.
	DefaultOffsetThreshold = 500 * time.Millisecond
)

// ClockFormat is the fixed-width layout of the published clock value.
// It matches the classic ctime(3) rendering without the trailing newline.
const ClockFormat = time.ANSIC

// Phase describes the health of the synchronized clock.
type Phase uint8

const (
	// PhaseUnchecked - no NTP query has completed yet.
	PhaseUnchecked Phase = iota + 1

	// PhaseHealthy - last query succeeded with a small offset.
	PhaseHealthy

	// PhaseDegraded - last query succeeded but the offset exceeds the
	// threshold.
	PhaseDegraded

	// PhaseError - last query failed.
	PhaseError
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUnchecked:
		return "unchecked"
	case PhaseHealthy:
		return "healthy"
	case PhaseDegraded:
		return "degraded"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// canTransition reports whether a phase change is legal. Unchecked is an
// initial state only.
func (p Phase) canTransition(to Phase) bool {
	if to == PhaseUnchecked {
		return false
	}
	switch p {
	case PhaseUnchecked, PhaseError:
		return true
	case PhaseHealthy:
		return to == PhaseDegraded || to == PhaseError
	case PhaseDegraded:
		return to == PhaseHealthy || to == PhaseError
	default:
		return false
	}
}

// Status is a snapshot of the syncer state.
type Status struct {
	// Offset is the measured clock offset from the NTP server.
	Offset time.Duration

	// Phase is the current health phase.
	Phase Phase

	// Error holds the last query error, if Phase is PhaseError.
	Error string

	// SyncedAt is when the last query completed.
	SyncedAt time.Time
}

// SyncerConfig configures a Syncer.
type SyncerConfig struct {
	// Pool is the NTP pool or server to query. Empty means DefaultPool.
	Pool string

	// Interval between re-synchronizations. Zero means
	// DefaultSyncInterval.
	Interval time.Duration

	// OffsetThreshold above which the clock counts as degraded.
	// Zero means DefaultOffsetThreshold.
	OffsetThreshold time.Duration
}

// Syncer keeps wall-clock time aligned with an NTP pool.
type Syncer struct {
	mu sync.RWMutex

	pool      string
	interval  time.Duration
	threshold time.Duration
	status    Status
	offset    time.Duration

	// queryFunc overrides the NTP query, for tests.
	queryFunc func(pool string) (*ntp.Response, error)
}

// NewSyncer creates a syncer from config, applying defaults.
func NewSyncer(config SyncerConfig) *Syncer {
	if config.Pool == "" {
		config.Pool = DefaultPool
	}
	if config.Interval <= 0 {
		config.Interval = DefaultSyncInterval
	}
	if config.OffsetThreshold <= 0 {
		config.OffsetThreshold = DefaultOffsetThreshold
	}
	return &Syncer{
		pool:      config.Pool,
		interval:  config.Interval,
		threshold: config.OffsetThreshold,
		status:    Status{Phase: PhaseUnchecked},
	}
}

// Sync performs one NTP query and updates the stored offset and status.
func (s *Syncer) Sync() error {
	query := s.queryFunc
	if query == nil {
		query = ntp.Query
	}

	resp, err := query(s.pool)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if err != nil {
		s.setPhase(PhaseError)
		s.status.Error = err.Error()
		s.status.SyncedAt = now
		return err
	}

	phase := PhaseHealthy
	if resp.ClockOffset.Abs() >= s.threshold {
		phase = PhaseDegraded
	}

	s.offset = resp.ClockOffset
	s.setPhase(phase)
	s.status.Offset = resp.ClockOffset
	s.status.Error = ""
	s.status.SyncedAt = now
	return nil
}

// setPhase applies a phase change, keeping the current phase if the
// transition would be illegal. Callers must hold s.mu.
func (s *Syncer) setPhase(to Phase) {
	if !s.status.Phase.canTransition(to) && s.status.Phase != to {
		return
	}
	s.status.Phase = to
}

// Run re-synchronizes periodically until ctx is canceled. An initial
// sync is attempted immediately; failures are reflected in Status and
// retried on the next tick.
func (s *Syncer) Run(ctx context.Context) {
	_ = s.Sync()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Sync()
		}
	}
}

// Now returns the offset-corrected wall-clock time.
func (s *Syncer) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Now().Add(s.offset)
}

// Timestamp returns the clock value in the fixed-width published format.
// The result never carries a trailing line terminator.
func (s *Syncer) Timestamp() string {
	return s.Now().Format(ClockFormat)
}

// Status returns a snapshot of the syncer state.
func (s *Syncer) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
