// Package middleware holds the HTTP middleware of the API server: client IP, session auth and telemetry.
package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP stores the caller's IP in the request context (see GetClientIP).
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithClientIP(r.Context(), RequestIP(r))))
	})
}

// RequestIP returns the client IP from X-Forwarded-For (first entry), X-Real-IP, or the remote address.
func RequestIP(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); v != "" {
		if i := strings.Index(v, ","); i > 0 {
			v = strings.TrimSpace(v[:i])
		}
		return v
	}
	if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
		return v
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
