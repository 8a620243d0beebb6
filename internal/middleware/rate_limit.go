package middleware

import (
	"net/http"
	"time"

	"github.com/BradenHooton/loginwatch/internal/auth"
	pkghttp "github.com/BradenHooton/loginwatch/pkg/http"
	"github.com/go-chi/httprate"
)

func limitExceeded(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteTooManyRequests(w, "Rate limit exceeded")
}

// RateLimitByIP limits unauthenticated endpoints such as login by client IP
func RateLimitByIP(requestsPerMinute int) func(next http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(limitExceeded),
	)
}

// RateLimitByAccount limits authenticated endpoints per account, falling
// back to the client IP when no session has been resolved
func RateLimitByAccount(requests int, window time.Duration) func(next http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(accountKey),
		httprate.WithLimitHandler(limitExceeded),
	)
}

func accountKey(r *http.Request) (string, error) {
	if id := auth.FromContext(r.Context()).UserID(); id != "" {
		return "account:" + id, nil
	}
	ip, err := httprate.KeyByRealIP(r)
	return "ip:" + ip, err
}
