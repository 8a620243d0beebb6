package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BradenHooton/loginwatch/internal/auth"
	"github.com/BradenHooton/loginwatch/internal/models"
	pkgauth "github.com/BradenHooton/loginwatch/pkg/auth"
)

const testSecret = "test-secret-32-characters-long!"

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := pkgauth.HashPasswordWithCost(password, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

type authFixture struct {
	svc      *AuthService
	accounts map[string]*models.Account
	revoked  *MockSessionRevocationRepository
	hook     *MockLoginHook
}

func newAuthFixture(t *testing.T, accounts ...*models.Account) *authFixture {
	byID := map[string]*models.Account{}
	byEmail := map[string]*models.Account{}
	for _, a := range accounts {
		byID[a.ID] = a
		byEmail[a.Email] = a
	}

	repo := &MockAccountRepository{
		GetByIDFunc: func(_ context.Context, id string) (*models.Account, error) {
			if a, ok := byID[id]; ok {
				return a, nil
			}
			return nil, models.ErrNotFound
		},
		GetByEmailFunc: func(_ context.Context, email string) (*models.Account, error) {
			if a, ok := byEmail[email]; ok {
				return a, nil
			}
			return nil, models.ErrNotFound
		},
	}

	f := &authFixture{
		accounts: byID,
		revoked:  &MockSessionRevocationRepository{},
		hook:     &MockLoginHook{},
	}
	f.svc = NewAuthService(repo, auth.NewSessionManager(testSecret, time.Hour), f.revoked, f.hook, nil, nil, newTestLogger(), nil)
	return f
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t, &models.Account{ID: "u1", Email: "alice@example.com", PasswordHash: hashed(t, "pw"), Verified: true, Role: models.RoleUser})

	session, err := f.svc.Login(context.Background(), "  Alice@Example.com ", "pw", RequestContext{UserAgent: "ua"})
	require.NoError(t, err)

	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "u1", session.Account.ID)
	assert.True(t, session.ExpiresAt.After(time.Now()))
	assert.Equal(t, 1, f.hook.Calls, "post-authentication hook runs exactly once")
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"unknown email", "nobody@example.com", "pw", models.ErrUnauthorized},
		{"wrong password", "alice@example.com", "nope", models.ErrUnauthorized},
		{"empty email", "   ", "pw", models.ErrUnauthorized},
		{"unverified", "bob@example.com", "pw", models.ErrEmailNotVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t,
				&models.Account{ID: "u1", Email: "alice@example.com", PasswordHash: hashed(t, "pw"), Verified: true},
				&models.Account{ID: "u2", Email: "bob@example.com", PasswordHash: hashed(t, "pw"), Verified: false},
			)

			_, err := f.svc.Login(context.Background(), tt.email, tt.password, RequestContext{})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.hook.Calls, "no activity is recorded for failed logins")
		})
	}
}

func TestLogin_HookFailure(t *testing.T) {
	f := newAuthFixture(t, &models.Account{ID: "u1", Email: "alice@example.com", PasswordHash: hashed(t, "pw"), Verified: true})
	f.hook.AfterAuthenticationFunc = func(context.Context, *models.Account, RequestContext) error {
		return models.ErrStoreFailure
	}

	_, err := f.svc.Login(context.Background(), "alice@example.com", "pw", RequestContext{})
	assert.ErrorIs(t, err, models.ErrStoreFailure)
}

func TestResolve(t *testing.T) {
	account := &models.Account{ID: "u1", Email: "alice@example.com", PasswordHash: hashed(t, "pw"), Verified: true, Role: models.RoleUser}
	f := newAuthFixture(t, account)

	session, err := f.svc.Login(context.Background(), "alice@example.com", "pw", RequestContext{})
	require.NoError(t, err)

	ac, err := f.svc.Resolve(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", ac.UserID())
	assert.False(t, ac.IsAdmin())

	// Role changes are visible on the next resolution
	account.Role = models.RoleAdmin
	ac, err = f.svc.Resolve(context.Background(), session.Token)
	require.NoError(t, err)
	assert.True(t, ac.IsAdmin())

	_, err = f.svc.Resolve(context.Background(), "garbage")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestResolve_DeletedAccount(t *testing.T) {
	f := newAuthFixture(t, &models.Account{ID: "u1", Email: "alice@example.com", PasswordHash: hashed(t, "pw"), Verified: true})

	session, err := f.svc.Login(context.Background(), "alice@example.com", "pw", RequestContext{})
	require.NoError(t, err)

	delete(f.accounts, "u1")
	_, err = f.svc.Resolve(context.Background(), session.Token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestLogout_RevokesSession(t *testing.T) {
	f := newAuthFixture(t, &models.Account{ID: "u1", Email: "alice@example.com", PasswordHash: hashed(t, "pw"), Verified: true})

	session, err := f.svc.Login(context.Background(), "alice@example.com", "pw", RequestContext{})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), session.Token))

	_, err = f.svc.Resolve(context.Background(), session.Token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	assert.ErrorIs(t, f.svc.Logout(context.Background(), "garbage"), models.ErrUnauthorized)
}

func TestResolve_RevocationCheckFailure(t *testing.T) {
	f := newAuthFixture(t, &models.Account{ID: "u1", Email: "alice@example.com", PasswordHash: hashed(t, "pw"), Verified: true})
	session, err := f.svc.Login(context.Background(), "alice@example.com", "pw", RequestContext{})
	require.NoError(t, err)

	f.revoked.IsRevokedFunc = func(context.Context, string) (bool, error) { return false, errors.New("down") }

	_, err = f.svc.Resolve(context.Background(), session.Token)
	assert.ErrorIs(t, err, models.ErrStoreFailure)
}
