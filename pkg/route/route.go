// Package route selects the local source address and interface used to
// bind probe sockets toward a destination.
package route

import (
	"net"
	"net/netip"
)

// Route describes the outbound path toward a destination: the kernel's
// chosen source address, the next-hop gateway (invalid for directly
// connected destinations), and the egress interface.
type Route struct {
	Destination netip.Addr
	Gateway     netip.Addr
	Source      netip.Addr
	Interface   *net.Interface
}

// Get returns the route the kernel would use to reach the given IPv4
// address. The platform-specific implementation queries the routing
// table on Linux and falls back to default-gateway discovery elsewhere.
func Get(ip netip.Addr) (Route, error) {
	return get(ip)
}
