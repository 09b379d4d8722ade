package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/timebeacon/timebeacon-go/pkg/clock"
	"github.com/timebeacon/timebeacon-go/pkg/discovery"
	"github.com/timebeacon/timebeacon-go/pkg/eventlog"
	"github.com/timebeacon/timebeacon-go/pkg/naming"
	"github.com/timebeacon/timebeacon-go/pkg/netwait"
	"github.com/timebeacon/timebeacon-go/pkg/version"
	"github.com/timebeacon/timebeacon-go/pkg/web"
)

// Service errors.
var (
	ErrAlreadyStarted = errors.New("service already started")
	ErrNotStarted     = errors.New("service not started")
)

// ServiceState represents the device lifecycle state.
type ServiceState uint8

const (
	// StateIdle - created but not started.
	StateIdle ServiceState = iota

	// StateWaitingNetwork - waiting for a usable network address.
	StateWaitingNetwork

	// StateNegotiating - probing candidate instance names.
	StateNegotiating

	// StateRunning - name confirmed, advertising and serving.
	StateRunning

	// StateStopped - shut down.
	StateStopped
)

// String returns the state name.
func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateWaitingNetwork:
		return "WAITING_NETWORK"
	case StateNegotiating:
		return "NEGOTIATING"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// EventType classifies service events delivered to OnEvent handlers.
type EventType uint8

const (
	// EventNetworkUp - a usable network address appeared.
	EventNetworkUp EventType = iota

	// EventTimeSynced - an NTP synchronization completed.
	EventTimeSynced

	// EventNameConflict - a probed name was already in use.
	EventNameConflict

	// EventNameConfirmed - the instance name was locked in.
	EventNameConfirmed

	// EventAnnounce - the service was re-announced with a fresh clock.
	EventAnnounce

	// EventStopped - the service shut down.
	EventStopped
)

// Event is delivered to registered event handlers.
type Event struct {
	Type   EventType
	Name   string
	Detail string
}

// EventHandler receives service events.
type EventHandler func(Event)

// TimeSource provides synchronized wall-clock time. *clock.Syncer is
// the production implementation.
type TimeSource interface {
	Sync() error
	Run(ctx context.Context)
	Now() time.Time
	Timestamp() string
	Status() clock.Status
}

// networkWaiter matches netwait.Wait, for tests.
type networkWaiter func(ctx context.Context, config netwait.Config) (net.IP, error)

// DeviceService orchestrates a timebeacon device.
type DeviceService struct {
	mu sync.RWMutex

	config DeviceConfig
	state  ServiceState

	// Per-process run identity
	runID string

	// Negotiated instance name (empty until confirmed)
	name string

	// Device address resolved during the network wait
	ip net.IP

	// Collaborators
	session    *naming.Session
	prober     naming.Prober
	advertiser discovery.Advertiser
	timeSource TimeSource
	webServer  *web.Server

	// advertised guards the one-time activation of the service
	// advertisement after confirmation.
	advertised bool

	// Event delivery
	handlers []EventHandler
	eventLog eventlog.Logger
	logClose func() error

	// Logger for debug output (optional)
	logger *slog.Logger

	waitForNetwork networkWaiter

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDeviceService creates a device service with production
// collaborators (mDNS prober/advertiser, NTP syncer, HTTP server).
func NewDeviceService(config DeviceConfig) (*DeviceService, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	prober, err := discovery.NewMDNSProber(discovery.BrowserConfig{
		Interface:   config.Interface,
		ProbeWindow: config.ProbeWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("create prober: %w", err)
	}

	advCfg := discovery.DefaultAdvertiserConfig()
	advCfg.Interface = config.Interface
	advertiser, err := discovery.NewMDNSAdvertiser(advCfg)
	if err != nil {
		return nil, fmt.Errorf("create advertiser: %w", err)
	}

	var sinks []eventlog.Logger
	var logClose func() error
	if config.EventLogPath != "" {
		fl, err := eventlog.NewFileLogger(config.EventLogPath)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		sinks = append(sinks, fl)
		logClose = fl.Close
	}
	if config.EventLogger != nil {
		sinks = append(sinks, config.EventLogger)
	}

	var eventLog eventlog.Logger
	switch len(sinks) {
	case 0:
		eventLog = eventlog.NoopLogger{}
	case 1:
		eventLog = sinks[0]
	default:
		eventLog = eventlog.NewMultiLogger(sinks...)
	}

	s := &DeviceService{
		config:     config,
		state:      StateIdle,
		runID:      uuid.New().String(),
		prober:     prober,
		advertiser: advertiser,
		timeSource: clock.NewSyncer(clock.SyncerConfig{
			Pool:     config.NTPPool,
			Interval: config.SyncInterval,
		}),
		eventLog:       eventLog,
		logClose:       logClose,
		logger:         slog.Default(),
		waitForNetwork: netwait.Wait,
	}

	s.webServer = web.NewServer(web.ServerConfig{
		Addr: fmt.Sprintf(":%d", config.Port),
	}, s.webStatus, eventLog)
	s.webServer.SetRunID(s.runID)

	s.session = naming.NewSession(naming.SessionConfig{
		BaseName:    config.BaseName,
		Divider:     config.Divider,
		MaxAttempts: config.MaxRenameAttempts,
	}, s.probeLogged())

	return s, nil
}

// OnEvent registers an event handler. Handlers are invoked from the
// service goroutines and must not block.
func (s *DeviceService) OnEvent(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// SetLogger sets the debug logger.
func (s *DeviceService) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if logger != nil {
		s.logger = logger
	}
}

// State returns the current lifecycle state.
func (s *DeviceService) State() ServiceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// RunID returns the per-process run identifier.
func (s *DeviceService) RunID() string {
	return s.runID
}

// Name returns the negotiated instance name, empty until confirmed.
func (s *DeviceService) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// IP returns the device address resolved during startup.
func (s *DeviceService) IP() net.IP {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ip
}

// TimeStatus returns the clock synchronization status.
func (s *DeviceService) TimeStatus() clock.Status {
	return s.timeSource.Status()
}

// Timestamp returns the current clock value in the published format.
func (s *DeviceService) Timestamp() string {
	return s.timeSource.Timestamp()
}

// Start brings the device up: it waits for the network, synchronizes
// the clock, negotiates the instance name, advertises the service, and
// starts the HTTP status page. It blocks through name negotiation (an
// unbounded loop unless MaxRenameAttempts is set) and returns with the
// background announcement loop running.
func (s *DeviceService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.state = StateWaitingNetwork
	s.mu.Unlock()

	// Wait-forever policy: an unattended device has nobody to report
	// startup failures to, so it retries until the network appears.
	ip, err := s.waitForNetwork(ctx, netwait.Config{
		Interface:    s.config.Interface,
		PollInterval: s.config.NetworkPollInterval,
	})
	if err != nil {
		return fmt.Errorf("wait for network: %w", err)
	}

	s.mu.Lock()
	s.ip = ip
	s.mu.Unlock()

	s.logEvent(eventlog.CategoryNetworkUp, "", ip.String(), "")
	s.emit(Event{Type: EventNetworkUp, Detail: ip.String()})

	// Initial time sync. Failure is tolerated: the clock reports a
	// degraded status and the periodic loop keeps retrying.
	if err := s.timeSource.Sync(); err != nil {
		s.logger.Warn("initial time sync failed", "error", err)
		s.logEvent(eventlog.CategoryError, "", "initial time sync", err.Error())
	} else {
		s.logEvent(eventlog.CategoryTimeSync, "", s.timeSource.Timestamp(), "")
		s.emit(Event{Type: EventTimeSynced, Detail: s.timeSource.Timestamp()})
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.timeSource.Run(ctx)
	}()

	// Negotiate the instance name.
	s.mu.Lock()
	s.state = StateNegotiating
	s.mu.Unlock()

	s.session.OnConflict(func(name string) {
		s.logEvent(eventlog.CategoryConflict, name, "", "")
		s.emit(Event{Type: EventNameConflict, Name: name})
	})

	name, err := s.session.Run(ctx)
	if err != nil {
		return fmt.Errorf("negotiate name: %w", err)
	}

	s.mu.Lock()
	s.name = name
	s.mu.Unlock()

	s.logEvent(eventlog.CategoryConfirmed, name, "", "")
	s.emit(Event{Type: EventNameConfirmed, Name: name})

	// Activate the advertisement exactly once per confirmed name.
	if err := s.advertiseOnce(ctx); err != nil {
		return fmt.Errorf("advertise service: %w", err)
	}

	// HTTP status page.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.webServer.ListenAndServe(); err != nil {
			s.logger.Error("http server failed", "error", err)
			s.logEvent(eventlog.CategoryError, "", "http server", err.Error())
		}
	}()

	// Periodic re-announcement with a fresh clock value.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.announceLoop(ctx)
	}()

	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()

	return nil
}

// Announce republishes the TXT records with the current clock value.
// It is also called by the periodic announcement loop.
func (s *DeviceService) Announce() error {
	s.mu.RLock()
	advertised := s.advertised
	s.mu.RUnlock()

	if !advertised {
		return ErrNotStarted
	}

	info := s.beaconInfo()
	if err := s.advertiser.Update(&info); err != nil {
		return fmt.Errorf("update advertisement: %w", err)
	}

	s.logEvent(eventlog.CategoryAnnounce, info.InstanceName, info.Clock, "")
	s.emit(Event{Type: EventAnnounce, Name: info.InstanceName, Detail: info.Clock})
	return nil
}

// Stop shuts the device down: the advertisement is withdrawn, the HTTP
// server drains, and background loops exit.
func (s *DeviceService) Stop() error {
	s.mu.Lock()
	if s.state == StateIdle || s.state == StateStopped {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.state = StateStopped
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	s.advertiser.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := s.webServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http shutdown", "error", err)
	}

	s.wg.Wait()

	s.emit(Event{Type: EventStopped})

	if s.logClose != nil {
		return s.logClose()
	}
	return nil
}

// advertiseOnce registers the service under the confirmed name. The
// guard keeps a repeated confirmation callback from re-registering.
func (s *DeviceService) advertiseOnce(ctx context.Context) error {
	s.mu.Lock()
	if s.advertised {
		s.mu.Unlock()
		return nil
	}
	s.advertised = true
	s.mu.Unlock()

	info := s.beaconInfo()
	if err := s.advertiser.Advertise(ctx, &info); err != nil {
		s.mu.Lock()
		s.advertised = false
		s.mu.Unlock()
		return err
	}

	s.logEvent(eventlog.CategoryAnnounce, info.InstanceName, info.Clock, "")
	s.emit(Event{Type: EventAnnounce, Name: info.InstanceName, Detail: info.Clock})
	return nil
}

// announceLoop re-announces on a fixed interval until ctx is canceled.
func (s *DeviceService) announceLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.AnnounceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Announce(); err != nil {
				s.logger.Warn("re-announce failed", "error", err)
			}
		}
	}
}

// beaconInfo builds the advertisement payload with a fresh clock value.
func (s *DeviceService) beaconInfo() discovery.BeaconInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return discovery.BeaconInfo{
		InstanceName: s.name,
		RunID:        s.runID,
		Clock:        s.timeSource.Timestamp(),
		Version:      version.Current,
		Model:        s.config.Model,
		DeviceName:   s.config.DeviceName,
		Port:         uint16(s.config.Port),
	}
}

// webStatus produces the live status for each HTTP request.
func (s *DeviceService) webStatus() web.Status {
	s.mu.RLock()
	name := s.name
	ip := s.ip
	s.mu.RUnlock()

	ipStr := ""
	if ip != nil {
		ipStr = ip.String()
	}

	return web.Status{
		Name:    name,
		IP:      ipStr,
		Time:    s.timeSource.Timestamp(),
		Version: version.Current,
	}
}

// probeLogged wraps the prober so every probe lands in the event log.
func (s *DeviceService) probeLogged() naming.Prober {
	return naming.ProberFunc(func(ctx context.Context, name string) (bool, error) {
		s.logEvent(eventlog.CategoryProbe, name, "", "")
		return s.prober.Probe(ctx, name)
	})
}

// emit delivers an event to all registered handlers.
func (s *DeviceService) emit(event Event) {
	s.mu.RLock()
	handlers := append([]EventHandler{}, s.handlers...)
	s.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// logEvent writes a structured record to the event log.
func (s *DeviceService) logEvent(category eventlog.Category, name, detail, errMsg string) {
	s.eventLog.Log(eventlog.Event{
		Timestamp: time.Now(),
		RunID:     s.runID,
		Category:  category,
		Name:      name,
		Detail:    detail,
		Error:     errMsg,
	})
}
