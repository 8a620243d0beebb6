package handlers

import (
	"time"

	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/BradenHooton/loginwatch/internal/services"
)

// AccountResponse represents an account in HTTP responses
type AccountResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	EmailVerified bool       `json:"emailVerified"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	LastActiveAt  *time.Time `json:"lastActiveAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ActivityResponse is the per-account activity payload
type ActivityResponse struct {
	LoginsLast30Days int                  `json:"loginsLast30Days"`
	LoginsLast3Days  int                  `json:"loginsLast3Days"`
	LastActive       *time.Time           `json:"lastActive"`
	History          []*models.LoginEvent `json:"history"`
}

// UserActivityResponse is one row of the admin users listing
type UserActivityResponse struct {
	AccountResponse
	LoginHistory     []*models.LoginEvent `json:"loginHistory"`
	LoginsLast3Days  int                  `json:"loginsLast3Days"`
	LoginsLast30Days int                  `json:"loginsLast30Days"`
	Suspicious       bool                 `json:"suspicious"`
}

type ListUsersResponse struct {
	Users           []*UserActivityResponse `json:"users"`
	Total           int                     `json:"total"`
	SuspiciousCount int                     `json:"suspiciousCount"`
}

// MeResponse is the signed-in account with its own activity
type MeResponse struct {
	Account  *AccountResponse  `json:"account"`
	Activity *ActivityResponse `json:"activity"`
}

type LoginResponse struct {
	Account   *AccountResponse `json:"account"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

func accountToResponse(a *models.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		Email:         a.Email,
		Name:          a.Name,
		EmailVerified: a.Verified,
		Role:          a.Role,
		Status:        a.Status,
		LastActiveAt:  a.LastActiveAt,
		CreatedAt:     a.CreatedAt,
	}
}

func summaryToResponse(s *models.ActivitySummary) *ActivityResponse {
	history := s.History
	if history == nil {
		history = []*models.LoginEvent{}
	}
	return &ActivityResponse{
		LoginsLast30Days: s.LoginsLast30Days,
		LoginsLast3Days:  s.LoginsLast3Days,
		LastActive:       s.LastActive,
		History:          history,
	}
}

func accountActivityToResponse(aa *services.AccountActivity) *UserActivityResponse {
	resp := &UserActivityResponse{
		AccountResponse:  *accountToResponse(aa.Account),
		LoginHistory:     aa.Summary.History,
		LoginsLast3Days:  aa.Summary.LoginsLast3Days,
		LoginsLast30Days: aa.Summary.LoginsLast30Days,
		Suspicious:       aa.Summary.Suspicious,
	}
	resp.Status = aa.Status
	if resp.LoginHistory == nil {
		resp.LoginHistory = []*models.LoginEvent{}
	}
	return resp
}
