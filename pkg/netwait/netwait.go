package netwait

import (
	"context"
	"net"
	"time"
)

// DefaultPollInterval is how often the address tables are re-read while
// waiting.
const DefaultPollInterval = 2 * time.Second

// Config configures the wait.
type Config struct {
	// Interface restricts the wait to one interface by name.
	// Empty string means any interface.
	Interface string

	// PollInterval between address table reads. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration
}

// Wait blocks until a global unicast address is available and returns
// it. It polls indefinitely; cancel ctx to bound the wait.
func Wait(ctx context.Context, config Config) (net.IP, error) {
	interval := config.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	if ip, err := primaryAddr(config.Interface); err == nil && ip != nil {
		return ip, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if ip, err := primaryAddr(config.Interface); err == nil && ip != nil {
				return ip, nil
			}
		}
	}
}

// PrimaryAddr returns the current global unicast address, or nil if the
// host has none yet.
func PrimaryAddr(ifaceName string) net.IP {
	ip, err := primaryAddr(ifaceName)
	if err != nil {
		return nil
	}
	return ip
}

// usable reports whether ip is a routable device address. Loopback and
// link-local addresses do not count: mDNS peers cannot reach them, and
// an HTTP status page bound to one would be pointless.
func usable(ip net.IP) bool {
	return ip != nil && ip.IsGlobalUnicast()
}

// preferIPv4 picks an IPv4 address when both families are present, since
// the status page URL is printed for humans.
func preferIPv4(candidates []net.IP) net.IP {
	if len(candidates) == 0 {
		return nil
	}
	for _, ip := range candidates {
		if ip.To4() != nil {
			return ip
		}
	}
	return candidates[0]
}
