package server

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// proxyMatcher reports whether a peer is a trusted reverse proxy.
type proxyMatcher struct {
	ips  map[string]struct{}
	nets []*net.IPNet
}

// newProxyMatcher builds a matcher from IP and CIDR entries. Invalid entries
// are logged and skipped. It returns nil when nothing is trusted.
func newProxyMatcher(entries []string, logger *slog.Logger) *proxyMatcher {
	if len(entries) == 0 {
		return nil
	}

	ips := make(map[string]struct{})
	var nets []*net.IPNet

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			_, network, err := net.ParseCIDR(entry)
			if err != nil {
				if logger != nil {
					logger.Warn("invalid trusted proxy CIDR", "entry", entry, "error", err)
				}
				continue
			}
			nets = append(nets, network)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			if logger != nil {
				logger.Warn("invalid trusted proxy IP", "entry", entry)
			}
			continue
		}
		ips[ip.String()] = struct{}{}
	}

	if len(ips) == 0 && len(nets) == 0 {
		return nil
	}
	return &proxyMatcher{ips: ips, nets: nets}
}

func (m *proxyMatcher) IsTrusted(ip net.IP) bool {
	if m == nil || ip == nil {
		return false
	}
	if _, ok := m.ips[ip.String()]; ok {
		return true
	}
	for _, network := range m.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// fromTrustedProxy reports whether r arrived directly from a trusted proxy.
func (m *proxyMatcher) fromTrustedProxy(r *http.Request) bool {
	return m.IsTrusted(remoteIPFromRequest(r))
}

func remoteIPFromRequest(r *http.Request) net.IP {
	if r == nil {
		return nil
	}
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return nil
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if zone := strings.Index(host, "%"); zone != -1 {
		host = host[:zone]
	}
	return net.ParseIP(host)
}

// clientIPFromRequest walks the forwarding chain right to left and returns
// the first hop not operated by a trusted proxy.
func clientIPFromRequest(r *http.Request, trusted *proxyMatcher) net.IP {
	remoteIP := remoteIPFromRequest(r)
	if remoteIP == nil {
		return nil
	}
	if !trusted.IsTrusted(remoteIP) {
		return remoteIP
	}

	chain := forwardedParam(r.Header.Get("Forwarded"), "for")
	if len(chain) == 0 {
		chain = splitList(r.Header.Get("X-Forwarded-For"))
	}

	var hops []net.IP
	for _, v := range chain {
		if ip := parseForwardedIP(v); ip != nil {
			hops = append(hops, ip)
		}
	}
	if len(hops) == 0 {
		return remoteIP
	}

	for i := len(hops) - 1; i >= 0; i-- {
		if !trusted.IsTrusted(hops[i]) {
			return hops[i]
		}
	}
	return hops[0]
}

// requestURL returns the absolute URL the client asked for. Scheme and
// host come from forwarding headers only when a trusted proxy sent them.
func requestURL(r *http.Request, trusted *proxyMatcher) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if trusted.fromTrustedProxy(r) {
		fwd := r.Header.Get("Forwarded")
		if v := firstOf(forwardedParam(fwd, "proto"), splitList(r.Header.Get("X-Forwarded-Proto"))); v != "" {
			scheme = strings.ToLower(v)
		}
		if v := firstOf(forwardedParam(fwd, "host"), splitList(r.Header.Get("X-Forwarded-Host"))); v != "" {
			host = v
		}
	}

	return scheme + "://" + host + r.URL.RequestURI()
}

// forwardedParam collects one parameter from every element of an RFC 7239
// Forwarded header, in order.
func forwardedParam(header, name string) []string {
	if header == "" {
		return nil
	}

	var out []string
	for _, element := range strings.Split(header, ",") {
		for _, pair := range strings.Split(element, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(k), name) {
				continue
			}
			if v = strings.Trim(strings.TrimSpace(v), "\""); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func splitList(header string) []string {
	if header == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(header, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstOf(lists ...[]string) string {
	for _, l := range lists {
		if len(l) > 0 {
			return l[0]
		}
	}
	return ""
}

func parseForwardedIP(value string) net.IP {
	value = strings.Trim(strings.TrimSpace(value), "\"")
	if value == "" || strings.EqualFold(value, "unknown") {
		return nil
	}

	host := value
	if strings.HasPrefix(host, "[") {
		if end := strings.Index(host, "]"); end != -1 {
			host = host[1:end]
		}
	} else if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if zone := strings.Index(host, "%"); zone != -1 {
		host = host[:zone]
	}
	return net.ParseIP(host)
}
