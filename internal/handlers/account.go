package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/loginwatch/internal/auth"
	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/BradenHooton/loginwatch/internal/services"
	pkghttp "github.com/BradenHooton/loginwatch/pkg/http"
)

// AccountService defines the account operations the handlers need
type AccountService interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	DeleteAccount(ctx context.Context, actorID, targetID string) error
	PromoteToAdmin(ctx context.Context, actorID, targetID string) (*models.Account, error)
	Ping(ctx context.Context, id string) error
}

// ActivityService defines the activity queries the handlers need
type ActivityService interface {
	GetActivity(ctx context.Context, accountID string) (*models.ActivitySummary, error)
	ListAccountsWithActivity(ctx context.Context) ([]*services.AccountActivity, error)
}

// AccountHandler serves the signed-in account's own views
type AccountHandler struct {
	accounts AccountService
	activity ActivityService
}

func NewAccountHandler(accounts AccountService, activity ActivityService) *AccountHandler {
	return &AccountHandler{accounts: accounts, activity: activity}
}

// Me returns the caller's profile and login activity
//
// GET /account
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())
	if ac == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	summary, err := h.activity.GetActivity(r.Context(), ac.UserID())
	if err != nil {
		writeServiceError(w, err, "Account not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MeResponse{
		Account:  accountToResponse(ac.Account),
		Activity: summaryToResponse(summary),
	})
}

// Ping refreshes the caller's presence
//
// POST /api/ping
func (h *AccountHandler) Ping(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())
	if ac == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.accounts.Ping(r.Context(), ac.UserID()); err != nil {
		writeServiceError(w, err, "Account not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
