//go:build !linux

package netwait

import (
	"fmt"
	"net"
)

// primaryAddr walks the interface list and returns a usable global
// unicast address, or nil if none exists yet.
func primaryAddr(ifaceName string) (net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		if ifaceName != "" && iface.Name != ifaceName {
			continue
		}
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if usable(ipNet.IP) {
				candidates = append(candidates, ipNet.IP)
			}
		}
	}

	return preferIPv4(candidates), nil
}
