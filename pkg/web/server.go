package web

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/timebeacon/timebeacon-go/pkg/eventlog"
)

// Status is a snapshot of what the page displays.
type Status struct {
	// Name is the confirmed instance name.
	Name string

	// IP is the device address the page is reachable on.
	IP string

	// Time is the current clock value in the published format.
	Time string

	// Version is the firmware version.
	Version string
}

// StatusFunc produces the current status for each request.
type StatusFunc func() Status

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8266").
	Addr string

	// ReadTimeout bounds how long a slow client may take to send its
	// request. Zero means DefaultReadTimeout.
	ReadTimeout time.Duration
}

// DefaultReadTimeout bounds slow clients so a stuck connection cannot
// pin the device.
const DefaultReadTimeout = 10 * time.Second

var pageTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Name}}</title></head>
<body>
<h1>{{.Name}}</h1>
<p>Address: {{.IP}}</p>
<p>Time: {{.Time}}</p>
<p>Firmware: {{.Version}}</p>
</body>
</html>
`))

// Server is the device's HTTP status server.
type Server struct {
	config   ServerConfig
	mux      *http.ServeMux
	server   *http.Server
	status   StatusFunc
	eventLog eventlog.Logger
	runID    string
}

// NewServer creates a new server. status must not be nil; eventLog may
// be nil to disable event capture.
func NewServer(config ServerConfig, status StatusFunc, eventLog eventlog.Logger) *Server {
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = DefaultReadTimeout
	}
	if eventLog == nil {
		eventLog = eventlog.NoopLogger{}
	}

	s := &Server{
		config:   config,
		mux:      http.NewServeMux(),
		status:   status,
		eventLog: eventLog,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:        config.Addr,
		Handler:     s.mux,
		ReadTimeout: config.ReadTimeout,
	}

	return s
}

// SetRunID attaches a run ID to logged HTTP events.
func (s *Server) SetRunID(runID string) {
	s.runID = runID
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/", s.handleRoot)
}

// handleRoot serves the status page on "/" and 404s everything else.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.eventLog.Log(eventlog.Event{
		Timestamp:  time.Now(),
		RunID:      s.runID,
		Category:   eventlog.CategoryHTTP,
		Detail:     r.Method + " " + r.URL.Path,
		RemoteAddr: r.RemoteAddr,
	})

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := s.status()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = pageTemplate.Execute(w, st)
}

// Serve accepts connections on l until the server is shut down.
func (s *Server) Serve(l net.Listener) error {
	err := s.server.Serve(l)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// ListenAndServe listens on the configured address and serves until the
// server is shut down.
func (s *Server) ListenAndServe() error {
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Handler exposes the route table, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}
