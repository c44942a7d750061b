// Package netutil extracts client details from requests for logging and
// rate limiting.
package netutil

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"unicode/utf8"
)

const MaxUserAgentLength = 256

// NormalizeIP returns the canonical IP of raw, which may be a bare address
// or host:port. Zones are dropped. ok is false when raw holds no IP.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().WithZone("").Unmap().String(), true
	}
	if addr, err := netip.ParseAddr(raw); err == nil {
		return addr.WithZone("").Unmap().String(), true
	}
	host := raw
	if strings.HasPrefix(host, "[") {
		if end := strings.LastIndex(host, "]"); end > 0 {
			host = host[1:end]
		}
	} else if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.WithZone("").Unmap().String(), true
	}
	return raw, false
}

// ParsePrefixes parses CIDRs. A bare address becomes a single-host prefix.
func ParsePrefixes(raw []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if p, err := netip.ParsePrefix(item); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("netutil: invalid proxy address %q", item)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func trusted(prefixes []netip.Prefix, raw string) bool {
	ip, ok := NormalizeIP(raw)
	if !ok {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// RealIP replaces RemoteAddr with the client address from X-Forwarded-For
// or X-Real-IP, but only when the direct peer is one of the trusted proxies.
// X-Forwarded-For is walked right to left and the first hop outside the
// trusted set wins. With no trusted proxies the headers are ignored.
func RealIP(proxies []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(proxies) > 0 && trusted(proxies, r.RemoteAddr) {
				if ip := forwardedClient(r, proxies); ip != "" {
					r.RemoteAddr = ip
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forwardedClient(r *http.Request, proxies []netip.Prefix) string {
	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		for _, h := range strings.Split(v, ",") {
			if ip, ok := NormalizeIP(h); ok {
				hops = append(hops, ip)
			}
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		if !trusted(proxies, hops[i]) {
			return hops[i]
		}
	}
	if len(hops) > 0 {
		return hops[0]
	}
	if ip, ok := NormalizeIP(r.Header.Get("X-Real-IP")); ok {
		return ip
	}
	return ""
}

// ClientIP is the caller address as seen after proxy headers were applied
// to RemoteAddr. Unparseable addresses come back unchanged.
func ClientIP(r *http.Request) string {
	ip, _ := NormalizeIP(r.RemoteAddr)
	return ip
}

// TruncateUserAgent caps ua at MaxUserAgentLength runes.
func TruncateUserAgent(ua string) string {
	if utf8.RuneCountInString(ua) <= MaxUserAgentLength {
		return ua
	}
	n := 0
	for i := range ua {
		if n == MaxUserAgentLength {
			return ua[:i]
		}
		n++
	}
	return ua
}
