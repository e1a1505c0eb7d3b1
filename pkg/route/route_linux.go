//go:build linux

package route

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/jsimonetti/rtnetlink"
	"golang.org/x/sys/unix"
)

// fetchRouteForIP asks the kernel for the route toward the given IP.
// Variable for mocking in tests.
var fetchRouteForIP = func(ip netip.Addr) ([]rtnetlink.RouteMessage, error) {
	c, err := rtnetlink.Dial(nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	tx := &rtnetlink.RouteMessage{
		Family: unix.AF_INET,
		Table:  unix.RT_TABLE_MAIN,
		Attributes: rtnetlink.RouteAttributes{
			Dst: ip.AsSlice(),
		},
	}

	return c.Route.Get(tx)
}

// routeFromMessages extracts the source address and egress interface
// from a kernel route reply.
func routeFromMessages(ip netip.Addr, msgs []rtnetlink.RouteMessage) (Route, error) {
	if len(msgs) == 0 {
		return Route{}, fmt.Errorf("no route found for %s", ip)
	}
	if len(msgs) > 1 {
		// RTM_GETROUTE returns the single most specific route
		return Route{}, fmt.Errorf("multiple routes found for %s", ip)
	}
	m := msgs[0]

	src, ok := netip.AddrFromSlice(m.Attributes.Src)
	if !ok || !src.Is4() {
		return Route{}, fmt.Errorf("failed to parse source address: %v", m.Attributes.Src)
	}
	gw := netip.Addr{}
	if g, ok := netip.AddrFromSlice(m.Attributes.Gateway); ok {
		gw = g
	}
	intf, err := net.InterfaceByIndex(int(m.Attributes.OutIface))
	if err != nil {
		return Route{}, fmt.Errorf("failed to get interface by index %d: %v", m.Attributes.OutIface, err)
	}
	if intf.Flags&net.FlagUp == 0 {
		return Route{}, fmt.Errorf("interface %s is down", intf.Name)
	}

	return Route{
		Destination: ip,
		Gateway:     gw,
		Source:      src,
		Interface:   intf,
	}, nil
}

func get(ip netip.Addr) (Route, error) {
	if !ip.Is4() {
		return Route{}, fmt.Errorf("not an IPv4 address: %s", ip)
	}
	msgs, err := fetchRouteForIP(ip)
	if err != nil {
		return Route{}, err
	}
	return routeFromMessages(ip, msgs)
}
