package handlers

import (
	"net/http"

	"github.com/BradenHooton/loginwatch/internal/auth"
	pkghttp "github.com/BradenHooton/loginwatch/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles admin user management
type UserHandler struct {
	accounts AccountService
	activity ActivityService
}

func NewUserHandler(accounts AccountService, activity ActivityService) *UserHandler {
	return &UserHandler{accounts: accounts, activity: activity}
}

// RegisterRoutes mounts the admin user routes; callers apply session and role middleware
func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Delete("/{id}", h.DeleteUser)
		r.Post("/{id}/promote", h.PromoteUser)
	})
}

// ListUsers returns every account with login history, suspicion flag and presence
//
// GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.activity.ListAccountsWithActivity(r.Context())
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	resp := ListUsersResponse{Users: make([]*UserActivityResponse, 0, len(rows))}
	for _, row := range rows {
		u := accountActivityToResponse(row)
		if u.Suspicious {
			resp.SuspiciousCount++
		}
		resp.Users = append(resp.Users, u)
	}
	resp.Total = len(resp.Users)

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// GetUser returns a single account
//
// GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, accountToResponse(account))
}

// DeleteUser removes an account and its login history
//
// DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := auth.FromContext(r.Context())

	if err := h.accounts.DeleteAccount(r.Context(), actor.UserID(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PromoteUser grants the Admin role and returns the reloaded account
//
// POST /users/{id}/promote
func (h *UserHandler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	actor := auth.FromContext(r.Context())

	account, err := h.accounts.PromoteToAdmin(r.Context(), actor.UserID(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, accountToResponse(account))
}
