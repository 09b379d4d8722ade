//go:build linux

package netwait

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

// primaryAddr reads the kernel address tables via netlink and returns a
// usable global unicast address, or nil if none exists yet.
func primaryAddr(ifaceName string) (net.IP, error) {
	var link netlink.Link
	if ifaceName != "" {
		l, err := netlink.LinkByName(ifaceName)
		if err != nil {
			// The interface may not exist yet (USB NIC, WiFi driver
			// still coming up); treat it as "no address".
			return nil, nil
		}
		link = l
	}

	addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}

	var candidates []net.IP
	for _, addr := range addrs {
		if addr.IPNet == nil {
			continue
		}
		if usable(addr.IPNet.IP) {
			candidates = append(candidates, addr.IPNet.IP)
		}
	}

	return preferIPv4(candidates), nil
}
