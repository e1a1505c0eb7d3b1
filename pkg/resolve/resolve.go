// Package resolve performs forward and reverse DNS lookups for the
// probe destination, caching results with a TTL.
package resolve

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Lookup functions, variables for mocking in tests.
var (
	lookupHost = net.LookupHost
	lookupAddr = net.LookupAddr
)

// Resolver caches DNS results. All methods are safe for concurrent use.
type Resolver struct {
	cache *ttlcache.Cache[string, string]
}

// New creates a Resolver whose cached entries expire after ttl.
func New(ttl time.Duration) *Resolver {
	return &Resolver{
		cache: ttlcache.New(ttlcache.WithTTL[string, string](ttl)),
	}
}

// Destination resolves a destination argument, either an IPv4 literal
// or a hostname, to an IPv4 address.
func (r *Resolver) Destination(dest string) (netip.Addr, error) {
	if ip, err := netip.ParseAddr(dest); err == nil {
		if !ip.Is4() {
			return netip.Addr{}, fmt.Errorf("not an IPv4 address: %s", dest)
		}
		return ip, nil
	}

	if item := r.cache.Get("host:" + dest); item != nil && item.Value() != "" {
		if ip, err := netip.ParseAddr(item.Value()); err == nil {
			return ip, nil
		}
	}

	records, err := lookupHost(dest)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("could not resolve destination %s: %w", dest, err)
	}
	for _, record := range records {
		ip, err := netip.ParseAddr(record)
		if err != nil || !ip.Is4() {
			continue
		}
		r.cache.Set("host:"+dest, ip.String(), ttlcache.DefaultTTL)
		return ip, nil
	}
	return netip.Addr{}, fmt.Errorf("no IPv4 address found for %s", dest)
}

// RequestPTR performs a reverse lookup for the given IP address if not
// already cached. It retries a few times and is meant to run in its own
// goroutine; the result is read later with GetPTR.
func (r *Resolver) RequestPTR(ip string) {
	if item := r.cache.Get("ptr:" + ip); item != nil {
		return
	}
	r.cache.Set("ptr:"+ip, "", ttlcache.DefaultTTL) // mark in progress to avoid duplicate lookups
	attempts := 3
	for i := 0; i < attempts; i++ {
		names, err := lookupAddr(ip)
		if err == nil && len(names) > 0 {
			r.cache.Set("ptr:"+ip, strings.TrimSuffix(names[0], "."), ttlcache.DefaultTTL)
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// GetPTR returns the cached PTR record for the given IP address and
// whether a result is available. It never blocks on DNS.
func (r *Resolver) GetPTR(ip string) (string, bool) {
	item := r.cache.Get("ptr:" + ip)
	if item == nil || item.Value() == "" {
		return "", false
	}
	return item.Value(), true
}
