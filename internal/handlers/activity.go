package handlers

import (
	"net/http"

	pkghttp "github.com/BradenHooton/loginwatch/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ActivityHandler serves per-account activity to admins
type ActivityHandler struct {
	activity ActivityService
}

func NewActivityHandler(activity ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// GetActivity returns login counts and history for one account
//
// GET /activity/{id}
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		pkghttp.WriteBadRequest(w, "Account ID is required")
		return
	}

	summary, err := h.activity.GetActivity(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, summaryToResponse(summary))
}
