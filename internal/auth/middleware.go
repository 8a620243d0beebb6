package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/loginwatch/internal/models"
	pkghttp "github.com/BradenHooton/loginwatch/pkg/http"
)

// SessionResolver turns a raw session token into the caller's AuthContext
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*AuthContext, error)
}

// RequireSession rejects requests without a valid, unrevoked session and
// stores the resolved AuthContext in the request context
func RequireSession(resolver SessionResolver, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionTokenFromRequest(r)
			if token == "" {
				pkghttp.WriteUnauthorized(w, "authentication required")
				return
			}

			ac, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, models.ErrUnauthorized) || errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteUnauthorized(w, "invalid or expired session")
					return
				}
				logger.Error("session resolution failed", slog.String("error", err.Error()))
				pkghttp.WriteError(w, http.StatusServiceUnavailable, "session_unavailable", "unable to verify session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), ac)))
		})
	}
}

// RequireRole enforces the role of the account resolved by RequireSession.
// The account is re-read on every request, so role changes apply immediately.
func RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := FromContext(r.Context())
			if ac == nil || ac.Account == nil {
				pkghttp.WriteUnauthorized(w, "authentication required")
				return
			}

			if ac.Account.Role != role {
				pkghttp.WriteForbidden(w, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
