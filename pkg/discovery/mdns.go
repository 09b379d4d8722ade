package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	return &MDNSAdvertiser{
		config: config,
	}, nil
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Advertise starts advertising the beacon service.
func (a *MDNSAdvertiser) Advertise(ctx context.Context, info *BeaconInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Stop existing if any
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	// Build TXT records
	txtRecords := EncodeBeaconTXT(info)
	txtStrings := TXTRecordsToStrings(txtRecords)

	// Determine port
	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	// Register service
	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	// Get interfaces (nil means all interfaces)
	ifaces := a.getInterfaces()

	server, err := zeroconf.Register(
		info.InstanceName,
		ServiceTypeBeacon,
		Domain,
		port,
		txtStrings,
		ifaces,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register beacon service: %w", err)
	}

	a.server = server
	return nil
}

// Update republishes TXT records for the advertised service.
func (a *MDNSAdvertiser) Update(info *BeaconInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotAdvertising
	}

	txtRecords := EncodeBeaconTXT(info)
	txtStrings := TXTRecordsToStrings(txtRecords)
	a.server.SetText(txtStrings)

	return nil
}

// Stop withdraws the advertisement.
func (a *MDNSAdvertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// browseFunc matches zeroconf.Browse and allows test substitution.
type browseFunc func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry, removed chan<- *zeroconf.ServiceEntry, opts ...zeroconf.ClientOption) error

// MDNSProber probes candidate instance names by browsing the beacon
// service type for a bounded window.
type MDNSProber struct {
	config BrowserConfig
	browse browseFunc
}

// NewMDNSProber creates a new mDNS prober.
func NewMDNSProber(config BrowserConfig) (*MDNSProber, error) {
	return &MDNSProber{
		config: config,
		browse: zeroconf.Browse,
	}, nil
}

// Probe reports whether name is free on the local network. It browses
// for ProbeWindow; if another device answers with the same instance
// name within the window, the name is used. The window elapsing without
// a competing claim means the name is free.
func (p *MDNSProber) Probe(ctx context.Context, name string) (bool, error) {
	if err := ValidateInstanceName(name); err != nil {
		return false, err
	}

	window := p.config.ProbeWindow
	if window <= 0 {
		window = ProbeWindow
	}

	probeCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := browserOptions(p.config.Interface)

	// A synchronous browse failure (no multicast socket) must not read
	// as a free name, so the error comes back through a channel.
	browseErr := make(chan error, 1)
	go func() {
		browseErr <- p.browse(probeCtx, ServiceTypeBeacon, Domain, entries, removed, opts...)
	}()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return true, ctx.Err()
			}
			if entry != nil && entry.Instance == name {
				// Someone already answers under this name.
				return false, nil
			}

		case <-removed:
			// A withdrawal does not affect the probe outcome.

		case err := <-browseErr:
			if err != nil && probeCtx.Err() == nil {
				return false, fmt.Errorf("probe browse failed: %w", err)
			}
			// Browsing started fine; keep watching the channels.
			browseErr = nil

		case <-probeCtx.Done():
			// The window elapsed without a competing claim, unless the
			// parent context was canceled first.
			if err := ctx.Err(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
}

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) (*MDNSBrowser, error) {
	return &MDNSBrowser{
		config: config,
	}, nil
}

// Browse searches for timebeacon devices. Services are aggregated by
// instance name - addresses from multiple interfaces are combined into a
// single entry. Removals are handled when interfaces disappear.
func (b *MDNSBrowser) Browse(ctx context.Context) (<-chan *BeaconService, error) {
	out := make(chan *BeaconService)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := browserOptions(b.config.Interface)

	// Process entries with aggregation
	go func() {
		defer close(out)

		// Track services by instance name, aggregating addresses
		services := make(map[string]*BeaconService)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToBeacon(entry)
				if svc == nil {
					continue
				}

				existing, found := services[svc.InstanceName]
				if found {
					// Merge addresses into existing entry
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
				} else {
					// New service - store and emit
					services[svc.InstanceName] = svc
					select {
					case out <- svc:
					case <-ctx.Done():
						return
					}
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				// Remove addresses that came from this interface
				if existing, found := services[entry.Instance]; found {
					existing.Addresses = removeAddresses(existing.Addresses, entry)
					// If no addresses remain, remove the service
					if len(existing.Addresses) == 0 {
						delete(services, entry.Instance)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// Start browsing in background
	go func() {
		_ = zeroconf.Browse(ctx, ServiceTypeBeacon, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// browserOptions returns zeroconf client options for an interface name.
func browserOptions(ifaceName string) []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if ifaceName != "" {
		iface, err := net.InterfaceByName(ifaceName)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToBeacon converts a zeroconf entry to a BeaconService.
func entryToBeacon(entry *zeroconf.ServiceEntry) *BeaconService {
	txt := StringsToTXTRecords(entry.Text)
	info, err := DecodeBeaconTXT(txt)
	if err != nil {
		return nil
	}

	// Collect addresses
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &BeaconService{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    addrs,
		RunID:        info.RunID,
		Clock:        info.Clock,
		Version:      info.Version,
		Model:        info.Model,
		DeviceName:   info.DeviceName,
	}
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, new []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range new {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes addresses from a zeroconf entry from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	// Build set of addresses to remove
	toRemove := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		toRemove[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		toRemove[ip.String()] = true
	}

	// Filter out removed addresses
	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}

// Ensure MDNSAdvertiser implements Advertiser interface.
var _ Advertiser = (*MDNSAdvertiser)(nil)

// Ensure MDNSProber implements Prober interface.
var _ Prober = (*MDNSProber)(nil)

// Ensure MDNSBrowser implements Browser interface.
var _ Browser = (*MDNSBrowser)(nil)
