package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/loginwatch/internal/auth"
	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/BradenHooton/loginwatch/internal/services"
	pkghttp "github.com/BradenHooton/loginwatch/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAccount attaches a resolved session for the given account to the request
func WithAccount(req *http.Request, account *models.Account) *http.Request {
	ac := &auth.AuthContext{Account: account, SessionID: "test-session"}
	return req.WithContext(auth.WithAuthContext(req.Context(), ac))
}

// WithURLParam sets a chi route parameter on the request
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	LoginFunc  func(ctx context.Context, email, password string, reqCtx services.RequestContext) (*services.Session, error)
	LogoutFunc func(ctx context.Context, token string) error
}

func (m *MockAuthService) Login(ctx context.Context, email, password string, reqCtx services.RequestContext) (*services.Session, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password, reqCtx)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, token)
}

// MockAccountService implements AccountService for testing
type MockAccountService struct {
	GetAccountFunc     func(ctx context.Context, id string) (*models.Account, error)
	DeleteAccountFunc  func(ctx context.Context, actorID, targetID string) error
	PromoteToAdminFunc func(ctx context.Context, actorID, targetID string) (*models.Account, error)
	PingFunc           func(ctx context.Context, id string) error
}

func (m *MockAccountService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	if m.GetAccountFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetAccountFunc(ctx, id)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, actorID, targetID string) error {
	if m.DeleteAccountFunc == nil {
		return nil
	}
	return m.DeleteAccountFunc(ctx, actorID, targetID)
}

func (m *MockAccountService) PromoteToAdmin(ctx context.Context, actorID, targetID string) (*models.Account, error) {
	if m.PromoteToAdminFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.PromoteToAdminFunc(ctx, actorID, targetID)
}

func (m *MockAccountService) Ping(ctx context.Context, id string) error {
	if m.PingFunc == nil {
		return nil
	}
	return m.PingFunc(ctx, id)
}

// MockActivityService implements ActivityService for testing
type MockActivityService struct {
	GetActivityFunc              func(ctx context.Context, accountID string) (*models.ActivitySummary, error)
	ListAccountsWithActivityFunc func(ctx context.Context) ([]*services.AccountActivity, error)
}

func (m *MockActivityService) GetActivity(ctx context.Context, accountID string) (*models.ActivitySummary, error) {
	if m.GetActivityFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetActivityFunc(ctx, accountID)
}

func (m *MockActivityService) ListAccountsWithActivity(ctx context.Context) ([]*services.AccountActivity, error) {
	if m.ListAccountsWithActivityFunc == nil {
		return []*services.AccountActivity{}, nil
	}
	return m.ListAccountsWithActivityFunc(ctx)
}

// MockHealthChecker implements HealthChecker for testing
type MockHealthChecker struct {
	Err error
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Err
}
