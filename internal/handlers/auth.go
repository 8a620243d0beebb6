package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BradenHooton/loginwatch/internal/auth"
	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/BradenHooton/loginwatch/internal/services"
	pkghttp "github.com/BradenHooton/loginwatch/pkg/http"
)

// AuthService defines the authentication operations the handler needs
type AuthService interface {
	Login(ctx context.Context, email, password string, reqCtx services.RequestContext) (*services.Session, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles login and logout
type AuthHandler struct {
	service AuthService
	cookies auth.CookieConfig
}

func NewAuthHandler(service AuthService, cookies auth.CookieConfig) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// requestContext captures the login metadata recorded with the event
func requestContext(r *http.Request) services.RequestContext {
	return services.RequestContext{
		UserAgent:    pkghttp.UserAgent(r),
		ForwardedFor: pkghttp.ForwardedFor(r),
	}
}

// Login verifies credentials and sets the session cookie
//
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password, requestContext(r))
	if err != nil {
		switch {
		// Unverified accounts get the same answer as bad credentials
		case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrEmailNotVerified):
			pkghttp.WriteUnauthorized(w, "Authentication failed")
		default:
			writeServiceError(w, err, "")
		}
		return
	}

	auth.SetSessionCookie(w, session.Token, session.ExpiresAt, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Account:   accountToResponse(session.Account),
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout revokes the current session and clears the cookie
//
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.SessionTokenFromRequest(r)
	if token == "" {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		writeServiceError(w, err, "")
		return
	}

	auth.ClearSessionCookie(w, h.cookies)
	w.WriteHeader(http.StatusNoContent)
}
