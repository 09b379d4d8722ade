package discovery

import (
	"context"
	"time"
)

// Advertiser provides mDNS service advertising capabilities.
type Advertiser interface {
	// Advertise starts advertising the beacon service. Calling it again
	// replaces the previous advertisement.
	Advertise(ctx context.Context, info *BeaconInfo) error

	// Update republishes TXT records for the advertised service without
	// re-registering it. This is the refresh hook for dynamic attribute
	// values such as the live clock.
	Update(info *BeaconInfo) error

	// Stop withdraws the advertisement.
	Stop()
}

// Prober asks the network whether an instance name is already claimed.
// It mirrors naming.Prober so the mDNS implementation can be plugged
// into a negotiation session directly.
type Prober interface {
	Probe(ctx context.Context, name string) (free bool, err error)
}

// Browser finds timebeacon devices on the local network.
type Browser interface {
	// Browse emits discovered services until ctx is canceled. Services
	// are aggregated by instance name.
	Browse(ctx context.Context) (<-chan *BeaconService, error)
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		TTL:       120 * time.Second,
	}
}

// BrowserConfig configures browser and prober behavior.
type BrowserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// ProbeWindow is how long a probe listens before declaring a name
	// free. Default: ProbeWindow.
	ProbeWindow time.Duration
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Interface:   "",
		ProbeWindow: ProbeWindow,
	}
}
