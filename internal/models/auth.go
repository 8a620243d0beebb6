package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the signed claims carried by a session token
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
