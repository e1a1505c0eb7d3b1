//go:build !linux

package route

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/jackpal/gateway"
)

// discoverInterfaceIP finds the local address facing the default
// gateway. Variable for mocking in tests.
var discoverInterfaceIP = gateway.DiscoverInterface

// get falls back to default-gateway discovery on platforms without a
// routing table query: the source address is the one facing the default
// gateway, which is correct for any destination past the first hop.
func get(ip netip.Addr) (Route, error) {
	if !ip.Is4() {
		return Route{}, fmt.Errorf("not an IPv4 address: %s", ip)
	}

	srcIP, err := discoverInterfaceIP()
	if err != nil {
		return Route{}, fmt.Errorf("failed to discover outbound interface: %w", err)
	}
	src, ok := netip.AddrFromSlice(srcIP.To4())
	if !ok {
		return Route{}, fmt.Errorf("failed to parse source address: %v", srcIP)
	}

	intf, err := interfaceByAddr(src)
	if err != nil {
		return Route{}, err
	}

	return Route{
		Destination: ip,
		Source:      src,
		Interface:   intf,
	}, nil
}

// interfaceByAddr returns the up interface holding the given address.
func interfaceByAddr(ip netip.Addr) (*net.Interface, error) {
	intfs, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for _, intf := range intfs {
		if intf.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := intf.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if a, ok := netip.AddrFromSlice(ipNet.IP.To4()); ok && a == ip {
				i := intf
				return &i, nil
			}
		}
	}
	return nil, fmt.Errorf("no interface found for address %s", ip)
}
