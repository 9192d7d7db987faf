package http

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
)

// securityMetrics tracks security-related events.
type securityMetrics struct {
	rateLimitHits      int64
	suspiciousRequests int64
}

// trustedProxyNets are the networks allowed to set forwarding headers:
// loopback plus the RFC 1918 private ranges.
var trustedProxyNets = mustCIDRs(
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
)

func mustCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("bad trusted proxy CIDR %s: %v", cidr, err))
		}
		nets = append(nets, network)
	}
	return nets
}

func fromTrustedProxy(ip net.IP) bool {
	for _, network := range trustedProxyNets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// extractClientIP resolves the client address for logging and rate
// limiting. Forwarding headers are honored only when the direct peer is
// a trusted proxy; anything else could spoof them.
func extractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	peer := net.ParseIP(directIP)
	if peer == nil || !fromTrustedProxy(peer) {
		return directIP
	}

	if forwarded := forwardedClientIP(r); forwarded != "" {
		return forwarded
	}
	return directIP
}

// forwardedClientIP returns the first valid IP from the forwarding
// headers, X-Forwarded-For taking precedence over X-Real-IP.
func forwardedClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}
	return ""
}

// probePatterns are path/query fragments typical of automated scanners.
var probePatterns = []string{
	"../", "..\\", ".env", "wp-admin", "phpmyadmin",
	"admin.php", "config.php", ".git", ".ssh",
	"eval(", "javascript:", "<script", "union select",
	"etc/passwd", "cmd.exe",
}

var unusualMethods = map[string]bool{
	"TRACE":   true,
	"TRACK":   true,
	"DEBUG":   true,
	"CONNECT": true,
}

func looksLikeProbe(s string) bool {
	s = strings.ToLower(s)
	for _, pattern := range probePatterns {
		if strings.Contains(s, pattern) {
			return true
		}
	}
	return false
}

// detectSuspiciousRequest flags requests that look like scanner probes.
// Matches are counted and logged upstream, never blocked outright: an API
// token is still required before anything sensitive is reachable.
func detectSuspiciousRequest(r *http.Request, metrics *securityMetrics) bool {
	suspicious := looksLikeProbe(r.URL.Path) ||
		looksLikeProbe(r.URL.RawQuery) ||
		unusualMethods[r.Method] ||
		len(r.URL.String()) > 2048 ||
		strings.Count(r.Header.Get("X-Forwarded-For"), ",") > 5

	if suspicious && metrics != nil {
		atomic.AddInt64(&metrics.suspiciousRequests, 1)
	}
	return suspicious
}
