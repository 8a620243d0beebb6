package models

import (
	"time"
)

// Account roles
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Presence statuses cached on the account row
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Account is a registered dashboard user.
// Status and LastActiveAt are best-effort presence caches and are never
// used for security decisions.
type Account struct {
	ID           string
	Email        string // unique, lower-cased
	Name         string
	PasswordHash string
	Verified     bool
	Role         string
	Status       string
	LastActiveAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account carries the Admin role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
