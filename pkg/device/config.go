package device

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/timebeacon/timebeacon-go/pkg/discovery"
	"github.com/timebeacon/timebeacon-go/pkg/eventlog"
	"github.com/timebeacon/timebeacon-go/pkg/naming"
)

// Defaults for device configuration.
const (
	// DefaultAnnounceInterval is how often the service is re-announced
	// with a fresh clock value.
	DefaultAnnounceInterval = 30 * time.Second

	// DefaultNetworkPollInterval is how often network readiness is
	// re-checked during startup.
	DefaultNetworkPollInterval = 2 * time.Second
)

// DeviceConfig holds the device configuration.
type DeviceConfig struct {
	// BaseName is the initial instance name candidate. Empty means the
	// negotiator default.
	BaseName string `yaml:"base_name"`

	// Divider separates the base name from the numeric suffix appended
	// on conflicts. Empty means "-".
	Divider string `yaml:"divider"`

	// DeviceName is an optional user-friendly name published in TXT.
	DeviceName string `yaml:"device_name"`

	// Model is an optional model name published in TXT.
	Model string `yaml:"model"`

	// Port is the HTTP and advertised service port.
	Port int `yaml:"port"`

	// Interface restricts mDNS and the network wait to one interface.
	// Empty means all interfaces.
	Interface string `yaml:"interface"`

	// NTPPool is the NTP pool or server to query.
	NTPPool string `yaml:"ntp_pool"`

	// SyncInterval between NTP re-synchronizations.
	SyncInterval time.Duration `yaml:"sync_interval"`

	// AnnounceInterval between TXT re-announcements.
	AnnounceInterval time.Duration `yaml:"announce_interval"`

	// NetworkPollInterval between network readiness checks.
	NetworkPollInterval time.Duration `yaml:"network_poll_interval"`

	// ProbeWindow is how long a name probe listens before declaring the
	// candidate free.
	ProbeWindow time.Duration `yaml:"probe_window"`

	// MaxRenameAttempts caps the rename/re-probe loop. Zero means
	// unlimited.
	MaxRenameAttempts int `yaml:"max_rename_attempts"`

	// EventLogPath enables CBOR event capture when non-empty.
	EventLogPath string `yaml:"event_log"`

	// EventLogger receives events in addition to the file log, e.g. an
	// eventlog.SlogAdapter mirroring them to the console. Set
	// programmatically; not read from the config file.
	EventLogger eventlog.Logger `yaml:"-"`
}

// DefaultDeviceConfig returns the default device configuration.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		Divider:             naming.DefaultDivider,
		Port:                discovery.DefaultPort,
		AnnounceInterval:    DefaultAnnounceInterval,
		NetworkPollInterval: DefaultNetworkPollInterval,
		ProbeWindow:         discovery.ProbeWindow,
	}
}

// LoadConfigFile reads a YAML config file over the defaults. Fields not
// present in the file keep their default values.
func LoadConfigFile(path string) (DeviceConfig, error) {
	config := DefaultDeviceConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return config, nil
}

// Validate checks the configuration.
func (c *DeviceConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", c.Port)
	}
	if c.BaseName != "" {
		if err := discovery.ValidateInstanceName(c.BaseName); err != nil {
			return fmt.Errorf("base name: %w", err)
		}
	}
	if c.AnnounceInterval <= 0 {
		return fmt.Errorf("announce interval must be positive, got %v", c.AnnounceInterval)
	}
	if c.MaxRenameAttempts < 0 {
		return fmt.Errorf("max rename attempts must be >= 0, got %d", c.MaxRenameAttempts)
	}
	return nil
}
