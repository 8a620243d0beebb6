package http

import (
	"net"
	"net/http"
	"strings"
)

// ForwardedFor returns the originating client address from X-Forwarded-For,
// or "" when the header is absent or holds no valid IP. The value is
// recorded for audit only and never used for access decisions.
func ForwardedFor(r *http.Request) string {
	for _, candidate := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		candidate = strings.TrimSpace(candidate)
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}
	return ""
}

// UserAgent returns the trimmed User-Agent header
func UserAgent(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("User-Agent"))
}
