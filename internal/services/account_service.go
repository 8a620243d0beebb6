package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BradenHooton/loginwatch/internal/activity"
	"github.com/BradenHooton/loginwatch/internal/metrics"
	"github.com/BradenHooton/loginwatch/internal/models"
	pkglogger "github.com/BradenHooton/loginwatch/pkg/logger"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	UpdateRole(ctx context.Context, id, role string) error
	TouchPresence(ctx context.Context, id string, at time.Time) error
	MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

// AccountService handles account administration and presence
type AccountService struct {
	repo           AccountRepository
	presenceWindow time.Duration
	metrics        *metrics.Metrics
	auditLogger    *pkglogger.AuditLogger
	logger         *slog.Logger
	now            func() time.Time
}

func NewAccountService(repo AccountRepository, presenceWindow time.Duration, m *metrics.Metrics, auditLogger *pkglogger.AuditLogger, logger *slog.Logger) *AccountService {
	if presenceWindow <= 0 {
		presenceWindow = activity.DefaultPresenceWindow
	}
	return &AccountService{
		repo:           repo,
		presenceWindow: presenceWindow,
		metrics:        m,
		auditLogger:    auditLogger,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("account not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get account", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}

	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}

	return accounts, nil
}

// DeleteAccount removes targetID and, through the foreign key, its login history.
// Admins cannot delete their own account.
func (s *AccountService) DeleteAccount(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		s.logger.Warn("admin attempted to delete own account", slog.String("user_id", actorID))
		return models.ErrForbidden
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete account", slog.String("user_id", targetID), slog.Any("error", err))
		return models.ErrStoreFailure
	}

	s.logger.Info("account deleted", slog.String("user_id", targetID), slog.String("actor_id", actorID))
	s.auditLogger.LogAccountAction(ctx, pkglogger.AuditEvent{
		EventType: "account_deleted",
		UserID:    targetID,
		ActorID:   actorID,
		Success:   true,
	})

	return nil
}

// PromoteToAdmin grants the Admin role and returns the reloaded account
func (s *AccountService) PromoteToAdmin(ctx context.Context, actorID, targetID string) (*models.Account, error) {
	if err := s.repo.UpdateRole(ctx, targetID, models.RoleAdmin); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to promote account", slog.String("user_id", targetID), slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}

	account, err := s.GetAccount(ctx, targetID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account promoted to admin", slog.String("user_id", targetID), slog.String("actor_id", actorID))
	s.auditLogger.LogAccountAction(ctx, pkglogger.AuditEvent{
		EventType: "role_changed",
		UserID:    targetID,
		ActorID:   actorID,
		Success:   true,
		Metadata:  map[string]string{"role": models.RoleAdmin},
	})

	return account, nil
}

// Ping marks the account online as of now
func (s *AccountService) Ping(ctx context.Context, id string) error {
	if err := s.repo.TouchPresence(ctx, id, s.now()); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to record presence", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrStoreFailure
	}
	return nil
}

// SweepPresence flips cached online statuses older than the presence window to offline
func (s *AccountService) SweepPresence(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkStaleOffline(ctx, s.now().Add(-s.presenceWindow))
	if err != nil {
		s.logger.Error("presence sweep failed", slog.Any("error", err))
		return 0, models.ErrStoreFailure
	}

	s.metrics.Swept(n)
	if n > 0 {
		s.logger.Debug("presence sweep", slog.Int64("marked_offline", n))
	}
	return n, nil
}
