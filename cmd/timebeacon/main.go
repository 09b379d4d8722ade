// Command timebeacon runs a network clock beacon.
//
// The beacon waits for a usable network address, synchronizes its clock
// over NTP, negotiates a unique mDNS instance name (appending a numeric
// suffix on conflicts), advertises a _timebeacon._tcp service whose TXT
// records carry the current time, and serves a one-page HTTP status
// site.
//
// Usage:
//
//	timebeacon [flags]
//
// Flags:
//
//	-config string      Configuration file path (YAML)
//	-name string        Base instance name (default negotiator fallback)
//	-friendly string    User-friendly device name published in TXT
//	-model string       Model name published in TXT
//	-port int           HTTP and advertised service port (default 8266)
//	-iface string       Restrict mDNS and network wait to one interface
//	-ntp-pool string    NTP pool or server to query (default pool.ntp.org)
//	-announce duration  Interval between TXT re-announcements (default 30s)
//	-max-renames int    Cap on rename attempts, 0 means unlimited
//	-event-log string   CBOR event log path (disabled if empty)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-interactive        Enable the interactive command console
//
// Examples:
//
//	# Start with defaults
//	timebeacon
//
//	# Start with a custom name and config file
//	timebeacon -name kitchen-clock -config /etc/timebeacon.yaml
//
//	# Start with the interactive console
//	timebeacon -interactive -log-level debug
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timebeacon/timebeacon-go/cmd/timebeacon/interactive"
	"github.com/timebeacon/timebeacon-go/pkg/device"
	"github.com/timebeacon/timebeacon-go/pkg/eventlog"
)

var (
	configFile  string
	baseName    string
	friendly    string
	model       string
	port        int
	iface       string
	ntpPool     string
	announce    time.Duration
	maxRenames  int
	eventLog    string
	logLevel    string
	interactMod bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&baseName, "name", "", "Base instance name")
	flag.StringVar(&friendly, "friendly", "", "User-friendly device name published in TXT")
	flag.StringVar(&model, "model", "", "Model name published in TXT")
	flag.IntVar(&port, "port", 0, "HTTP and advertised service port")
	flag.StringVar(&iface, "iface", "", "Restrict mDNS and network wait to one interface")
	flag.StringVar(&ntpPool, "ntp-pool", "", "NTP pool or server to query")
	flag.DurationVar(&announce, "announce", 0, "Interval between TXT re-announcements")
	flag.IntVar(&maxRenames, "max-renames", 0, "Cap on rename attempts, 0 means unlimited")
	flag.StringVar(&eventLog, "event-log", "", "CBOR event log path")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&interactMod, "interactive", false, "Enable the interactive command console")
}

func main() {
	flag.Parse()

	setupLogging(logLevel)

	config, err := buildConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slogFor(logLevel)
	if logLevel == "debug" {
		// Mirror device events to the structured logger alongside the
		// CBOR file log.
		config.EventLogger = eventlog.NewSlogAdapter(logger)
	}

	log.Println("Time Beacon")
	log.Println("===========")
	if config.BaseName != "" {
		log.Printf("Base name: %s", config.BaseName)
	}
	log.Printf("Port: %d", config.Port)
	log.Printf("NTP pool: %s", poolOrDefault(config.NTPPool))

	svc, err := device.NewDeviceService(config)
	if err != nil {
		log.Fatalf("Failed to create device service: %v", err)
	}
	svc.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var console *interactive.Console
	if interactMod {
		console, err = interactive.New(svc)
		if err != nil {
			log.Fatalf("Failed to create console: %v", err)
		}
		log.SetOutput(console.Stdout())
	} else {
		svc.OnEvent(handleEvent)
	}

	if err := svc.Start(ctx); err != nil {
		log.Fatalf("Failed to start service: %v", err)
	}
	log.Printf("Service started (state: %s)", svc.State())
	log.Printf("Instance name: %s", svc.Name())
	log.Printf("Status page: http://%s:%d/", svc.IP(), config.Port)

	if console != nil {
		go console.Run(ctx, cancel)
	}

	// Wait for shutdown signal or console exit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	if err := svc.Stop(); err != nil {
		log.Printf("Error stopping service: %v", err)
	}

	log.Println("Goodbye!")
}

// buildConfig loads the config file (if any) and applies explicitly set
// flags on top.
func buildConfig() (device.DeviceConfig, error) {
	config := device.DefaultDeviceConfig()

	if configFile != "" {
		loaded, err := device.LoadConfigFile(configFile)
		if err != nil {
			return config, err
		}
		config = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			config.BaseName = baseName
		case "friendly":
			config.DeviceName = friendly
		case "model":
			config.Model = model
		case "port":
			config.Port = port
		case "iface":
			config.Interface = iface
		case "ntp-pool":
			config.NTPPool = ntpPool
		case "announce":
			config.AnnounceInterval = announce
		case "max-renames":
			config.MaxRenameAttempts = maxRenames
		case "event-log":
			config.EventLogPath = eventLog
		}
	})

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

// slogFor maps the -log-level flag to a structured logger for the
// service internals.
func slogFor(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func poolOrDefault(pool string) string {
	if pool == "" {
		return "pool.ntp.org"
	}
	return pool
}

func handleEvent(event device.Event) {
	switch event.Type {
	case device.EventNetworkUp:
		log.Printf("[EVENT] Network up: %s", event.Detail)
	case device.EventTimeSynced:
		log.Printf("[EVENT] Time synced: %s", event.Detail)
	case device.EventNameConflict:
		log.Printf("[EVENT] Name conflict: %s is taken, renaming", event.Name)
	case device.EventNameConfirmed:
		log.Printf("[EVENT] Name confirmed: %s", event.Name)
	case device.EventAnnounce:
		log.Printf("[EVENT] Announced %s (time: %s)", event.Name, event.Detail)
	case device.EventStopped:
		log.Println("[EVENT] Service stopped")
	}
}
