package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/loginwatch/internal/auth"
	"github.com/BradenHooton/loginwatch/internal/handlers"
	"github.com/BradenHooton/loginwatch/internal/middleware"
	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/go-chi/chi/v5"
)

// Handlers groups everything RegisterRoutes mounts
type Handlers struct {
	Auth     *handlers.AuthHandler
	Account  *handlers.AccountHandler
	Activity *handlers.ActivityHandler
	Users    *handlers.UserHandler
	Health   http.HandlerFunc
	Metrics  http.Handler
}

// Limits configures per-route rate limiting
type Limits struct {
	LoginPerMinute int
	PingPerMinute  int
}

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	h Handlers,
	sessions auth.SessionResolver,
	limits Limits,
	logger *slog.Logger,
) {
	router.Get("/health", h.Health)
	if h.Metrics != nil {
		router.Handle("/metrics", h.Metrics)
	}

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(limits.LoginPerMinute)).Post("/auth/login", h.Auth.Login)

	// Protected routes - session required
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(sessions, logger))

		r.Post("/auth/logout", h.Auth.Logout)
		r.Get("/account", h.Account.Me)
		r.With(middleware.RateLimitByAccount(limits.PingPerMinute, time.Minute)).Post("/api/ping", h.Account.Ping)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Get("/activity/{id}", h.Activity.GetActivity)
			h.Users.RegisterRoutes(r)
		})
	})
}
