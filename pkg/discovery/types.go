package discovery

import (
	"errors"
	"fmt"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceTypeBeacon is the DNS-SD service type for timebeacon devices.
	ServiceTypeBeacon = "_timebeacon._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default timebeacon HTTP port.
	DefaultPort = 8266
)

// TXT record key constants.
const (
	TXTKeyRunID      = "id"    // Per-process run ID (UUID)
	TXTKeyClock      = "time"  // Current clock value, refreshed per announcement
	TXTKeyVersion    = "ver"   // Firmware version
	TXTKeyModel      = "model" // Model name (optional)
	TXTKeyDeviceName = "dn"    // User-configurable device name (optional)
)

// Timing constants.
const (
	// ProbeWindow is how long a probe listens for a competing claim
	// before declaring a candidate name free.
	ProbeWindow = 2 * time.Second

	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxTXTRecordSize is the maximum total TXT record size.
	MaxTXTRecordSize = 400
)

// Discovery errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrEmptyInstanceName   = errors.New("empty instance name")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotAdvertising      = errors.New("service is not being advertised")
)

// BeaconInfo contains the information a device advertises.
type BeaconInfo struct {
	// InstanceName is the negotiated, network-unique instance name.
	InstanceName string

	// RunID identifies this process run (UUID).
	RunID string

	// Clock is the current wall-clock value, republished on every
	// re-announcement.
	Clock string

	// Version is the firmware version.
	Version string

	// Model is an optional model name.
	Model string

	// DeviceName is an optional user-configurable name.
	DeviceName string

	// Port is the HTTP service port.
	Port uint16

	// Host is the hostname to advertise. Empty means the OS hostname.
	Host string
}

// Validate checks that the info can be advertised.
func (b *BeaconInfo) Validate() error {
	if err := ValidateInstanceName(b.InstanceName); err != nil {
		return err
	}
	if b.RunID == "" {
		return ErrMissingRequired
	}
	if size := TXTSize(EncodeBeaconTXT(b)); size > MaxTXTRecordSize {
		return fmt.Errorf("%w: TXT records are %d bytes, limit %d", ErrInvalidTXTRecord, size, MaxTXTRecordSize)
	}
	return nil
}

// BeaconService represents a timebeacon device found via mDNS.
type BeaconService struct {
	// InstanceName is the mDNS instance name (e.g. "beacon-2").
	InstanceName string

	// Host is the hostname (e.g. "beacon-2.local").
	Host string

	// Port is the HTTP service port.
	Port uint16

	// Addresses contains resolved IP addresses, aggregated across
	// interfaces.
	Addresses []string

	// RunID is the advertised run ID (from TXT "id").
	RunID string

	// Clock is the advertised clock value (from TXT "time").
	Clock string

	// Version is the firmware version (from TXT "ver").
	Version string

	// Model is the optional model name (from TXT "model").
	Model string

	// DeviceName is the optional user-configurable name (from TXT "dn").
	DeviceName string
}
