package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/BradenHooton/loginwatch/internal/activity"
	"github.com/BradenHooton/loginwatch/internal/models"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockAccountRepository implements AccountRepository for testing
type MockAccountRepository struct {
	GetByIDFunc          func(ctx context.Context, id string) (*models.Account, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*models.Account, error)
	ListFunc             func(ctx context.Context) ([]*models.Account, error)
	UpdateRoleFunc       func(ctx context.Context, id, role string) error
	TouchPresenceFunc    func(ctx context.Context, id string, at time.Time) error
	MarkStaleOfflineFunc func(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteFunc           func(ctx context.Context, id string) error
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Account{}, nil
}

func (m *MockAccountRepository) UpdateRole(ctx context.Context, id, role string) error {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, id, role)
	}
	return nil
}

func (m *MockAccountRepository) TouchPresence(ctx context.Context, id string, at time.Time) error {
	if m.TouchPresenceFunc != nil {
		return m.TouchPresenceFunc(ctx, id, at)
	}
	return nil
}

func (m *MockAccountRepository) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.MarkStaleOfflineFunc != nil {
		return m.MarkStaleOfflineFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockLoginEventRepository is an in-memory append-only event store.
// Function fields override the default behavior.
type MockLoginEventRepository struct {
	Events map[string][]*models.LoginEvent

	HasEventsFunc   func(ctx context.Context, userID string) (bool, error)
	InsertFunc      func(ctx context.Context, event *models.LoginEvent) error
	InsertBatchFunc func(ctx context.Context, userID string, events []*models.LoginEvent) (int64, error)
	ListByUsersFunc func(ctx context.Context, userIDs []string) (map[string][]*models.LoginEvent, error)

	InsertCalls      int
	InsertBatchCalls int
	ListByUsersCalls int
}

func NewMockLoginEventRepository() *MockLoginEventRepository {
	return &MockLoginEventRepository{Events: make(map[string][]*models.LoginEvent)}
}

func (m *MockLoginEventRepository) HasEvents(ctx context.Context, userID string) (bool, error) {
	if m.HasEventsFunc != nil {
		return m.HasEventsFunc(ctx, userID)
	}
	return len(m.Events[userID]) > 0, nil
}

func (m *MockLoginEventRepository) Insert(ctx context.Context, event *models.LoginEvent) error {
	m.InsertCalls++
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, event)
	}
	if err := activity.ValidateEvents([]*models.LoginEvent{event}); err != nil {
		return err
	}
	m.Events[event.UserID] = append(m.Events[event.UserID], event)
	return nil
}

func (m *MockLoginEventRepository) InsertBatchIfEmpty(ctx context.Context, userID string, events []*models.LoginEvent) (int64, error) {
	m.InsertBatchCalls++
	if m.InsertBatchFunc != nil {
		return m.InsertBatchFunc(ctx, userID, events)
	}
	if len(m.Events[userID]) > 0 {
		return 0, nil
	}
	m.Events[userID] = append(m.Events[userID], events...)
	return int64(len(events)), nil
}

func (m *MockLoginEventRepository) ListByUser(ctx context.Context, userID string) ([]*models.LoginEvent, error) {
	return append([]*models.LoginEvent(nil), m.Events[userID]...), nil
}

func (m *MockLoginEventRepository) ListByUsers(ctx context.Context, userIDs []string) (map[string][]*models.LoginEvent, error) {
	m.ListByUsersCalls++
	if m.ListByUsersFunc != nil {
		return m.ListByUsersFunc(ctx, userIDs)
	}
	out := make(map[string][]*models.LoginEvent)
	for _, id := range userIDs {
		if evs := m.Events[id]; len(evs) > 0 {
			out[id] = evs
		}
	}
	return out, nil
}

// MockSessionRevocationRepository implements SessionRevocationRepository for testing
type MockSessionRevocationRepository struct {
	Revoked       map[string]bool
	RevokeFunc    func(ctx context.Context, jti, userID string, expiresAt time.Time, reason string) error
	IsRevokedFunc func(ctx context.Context, jti string) (bool, error)
}

func (m *MockSessionRevocationRepository) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time, reason string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, jti, userID, expiresAt, reason)
	}
	if m.Revoked == nil {
		m.Revoked = make(map[string]bool)
	}
	m.Revoked[jti] = true
	return nil
}

func (m *MockSessionRevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, jti)
	}
	return m.Revoked[jti], nil
}

// MockLoginHook implements LoginHook for testing
type MockLoginHook struct {
	AfterAuthenticationFunc func(ctx context.Context, account *models.Account, reqCtx RequestContext) error
	Calls                   int
}

func (m *MockLoginHook) AfterAuthentication(ctx context.Context, account *models.Account, reqCtx RequestContext) error {
	m.Calls++
	if m.AfterAuthenticationFunc != nil {
		return m.AfterAuthenticationFunc(ctx, account, reqCtx)
	}
	return nil
}
