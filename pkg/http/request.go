package http

import (
	"net"
	"net/http"
	"strings"
)

// ClientIPResolver extracts the caller's address. Forwarding headers are
// honoured only when the direct peer is inside a trusted proxy range.
type ClientIPResolver struct {
	trusted []*net.IPNet
}

// NewClientIPResolver parses trusted proxy CIDRs. Invalid ranges are skipped.
func NewClientIPResolver(trustedProxies []string) *ClientIPResolver {
	r := &ClientIPResolver{}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			continue
		}
		r.trusted = append(r.trusted, ipNet)
	}
	return r
}

// ClientIP returns the first valid X-Forwarded-For address, then X-Real-IP,
// then the peer address.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	peer := remoteHost(r)
	if c == nil || !c.isTrusted(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, ip := range strings.Split(xff, ",") {
			ip = strings.TrimSpace(ip)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	return peer
}

func (c *ClientIPResolver) isTrusted(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, ipNet := range c.trusted {
		if ipNet.Contains(parsed) {
			return true
		}
	}
	return false
}

func remoteHost(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
