package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/loginwatch/internal/models"
)

func TestSessionManager_IssueAndValidate(t *testing.T) {
	sm := NewSessionManager("test-secret-32-characters-long!", time.Hour)

	token, claims, err := sm.Issue("user-1", "a@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := sm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestSessionManager_UniqueSessionIDs(t *testing.T) {
	sm := NewSessionManager("test-secret-32-characters-long!", time.Hour)

	_, c1, err := sm.Issue("user-1", "")
	require.NoError(t, err)
	_, c2, err := sm.Issue("user-1", "")
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestSessionManager_Expired(t *testing.T) {
	sm := NewSessionManager("test-secret-32-characters-long!", time.Hour)
	issuedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return issuedAt }

	token, _, err := sm.Issue("user-1", "")
	require.NoError(t, err)

	sm.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = sm.Validate(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSessionManager_WrongSecret(t *testing.T) {
	token, _, err := NewSessionManager("secret-number-one-is-long-enough", time.Hour).Issue("user-1", "")
	require.NoError(t, err)

	_, err = NewSessionManager("secret-number-two-is-long-enough", time.Hour).Validate(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSessionManager_RejectsNoneAlgorithm(t *testing.T) {
	claims := &models.SessionClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessionManager("test-secret-32-characters-long!", time.Hour).Validate(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
