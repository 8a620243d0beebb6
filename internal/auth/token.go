package auth

import (
	"fmt"
	"time"

	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionManager issues and validates signed session tokens
type SessionManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, expiry time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Expiry is the lifetime of newly issued sessions
func (sm *SessionManager) Expiry() time.Duration {
	return sm.expiry
}

// Issue creates a session token with a fresh jti for the given account
func (sm *SessionManager) Issue(userID, email string) (string, *models.SessionClaims, error) {
	now := sm.now()

	claims := &models.SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(sm.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, claims, nil
}

// Validate verifies signature and expiry and returns the session claims
func (sm *SessionManager) Validate(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sm.secret, nil
	}, jwt.WithTimeFunc(sm.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}

	if !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}
