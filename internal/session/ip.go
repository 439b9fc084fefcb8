package session

import (
	"net"
	"net/http"
	"strings"
)

// RequestIP returns the best-effort address of whoever sent r: the Client-Ip
// header, then X-Forwarded-For, then the host part of RemoteAddr. The value
// is advisory metadata for the API and is not validated.
func RequestIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ip := strings.TrimSpace(r.Header.Get("Client-Ip")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip
	}
	if r.RemoteAddr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// StaticIP returns a resolver that always reports ip.
func StaticIP(ip string) func() string {
	return func() string { return ip }
}

// FromRequest returns a resolver bound to r.
func FromRequest(r *http.Request) func() string {
	return func() string { return RequestIP(r) }
}
