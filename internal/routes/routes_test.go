package routes_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/loginwatch/internal/auth"
	"github.com/BradenHooton/loginwatch/internal/handlers"
	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/BradenHooton/loginwatch/internal/routes"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// tokenResolver maps bearer tokens straight to accounts
type tokenResolver map[string]*models.Account

func (r tokenResolver) Resolve(ctx context.Context, token string) (*auth.AuthContext, error) {
	account, ok := r[token]
	if !ok {
		return nil, models.ErrUnauthorized
	}
	return &auth.AuthContext{Account: account, SessionID: token}, nil
}

func newTestRouter() http.Handler {
	accounts := &handlers.MockAccountService{
		GetAccountFunc: func(ctx context.Context, id string) (*models.Account, error) {
			return &models.Account{ID: id}, nil
		},
	}
	activity := &handlers.MockActivityService{
		GetActivityFunc: func(ctx context.Context, accountID string) (*models.ActivitySummary, error) {
			return &models.ActivitySummary{}, nil
		},
	}

	router := chi.NewRouter()
	routes.RegisterRoutes(router, routes.Handlers{
		Auth:     handlers.NewAuthHandler(&handlers.MockAuthService{}, auth.CookieConfig{}),
		Account:  handlers.NewAccountHandler(accounts, activity),
		Activity: handlers.NewActivityHandler(activity),
		Users:    handlers.NewUserHandler(accounts, activity),
		Health:   handlers.Health(&handlers.MockHealthChecker{}),
	}, tokenResolver{
		"admin-token": {ID: "admin-1", Role: models.RoleAdmin},
		"user-token":  {ID: "user-1", Role: models.RoleUser},
	}, routes.Limits{LoginPerMinute: 5, PingPerMinute: 60}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return router
}

func TestRegisterRoutes_AccessControl(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"health is public", "GET", "/health", "", http.StatusOK},
		{"account needs session", "GET", "/account", "", http.StatusUnauthorized},
		{"account with session", "GET", "/account", "user-token", http.StatusOK},
		{"ping with session", "POST", "/api/ping", "user-token", http.StatusNoContent},
		{"ping without session", "POST", "/api/ping", "", http.StatusUnauthorized},
		{"activity forbidden for users", "GET", "/activity/user-1", "user-token", http.StatusForbidden},
		{"activity for admins", "GET", "/activity/user-1", "admin-token", http.StatusOK},
		{"users forbidden for users", "GET", "/users", "user-token", http.StatusForbidden},
		{"users for admins", "GET", "/users", "admin-token", http.StatusOK},
		{"promote forbidden for users", "POST", "/users/user-1/promote", "user-token", http.StatusForbidden},
		{"delete without session", "DELETE", "/users/user-1", "", http.StatusUnauthorized},
		{"unknown token", "GET", "/account", "stolen", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRegisterRoutes_LoginIsRateLimited(t *testing.T) {
	router := newTestRouter()

	var last int
	for range 6 {
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = "198.51.100.9:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		last = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}
