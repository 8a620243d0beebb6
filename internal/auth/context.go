package auth

import (
	"context"
	"time"

	"github.com/BradenHooton/loginwatch/internal/models"
)

// AuthContext is the resolved identity of the current request.
// It is built per request and never shared between requests.
type AuthContext struct {
	Account   *models.Account
	SessionID string
	ExpiresAt time.Time
}

func (a *AuthContext) UserID() string {
	if a == nil || a.Account == nil {
		return ""
	}
	return a.Account.ID
}

func (a *AuthContext) IsAdmin() bool {
	return a != nil && a.Account != nil && a.Account.IsAdmin()
}

type contextKey string

const authContextKey contextKey = "auth"

func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// FromContext returns the request's AuthContext, or nil for anonymous requests
func FromContext(ctx context.Context) *AuthContext {
	ac, _ := ctx.Value(authContextKey).(*AuthContext)
	return ac
}
