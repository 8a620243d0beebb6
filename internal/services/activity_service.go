package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BradenHooton/loginwatch/internal/activity"
	"github.com/BradenHooton/loginwatch/internal/metrics"
	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/google/uuid"
)

// LoginEventRepository defines the append-only event store
type LoginEventRepository interface {
	HasEvents(ctx context.Context, userID string) (bool, error)
	Insert(ctx context.Context, event *models.LoginEvent) error
	InsertBatchIfEmpty(ctx context.Context, userID string, events []*models.LoginEvent) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]*models.LoginEvent, error)
	ListByUsers(ctx context.Context, userIDs []string) (map[string][]*models.LoginEvent, error)
}

// HistoryGenerator produces synthetic backfill events
type HistoryGenerator interface {
	Generate(userID string, opts activity.BackfillOptions) ([]*models.LoginEvent, error)
}

// RequestContext carries the request metadata recorded with a login
type RequestContext struct {
	UserAgent    string
	ForwardedFor string
}

// ActivityConfig holds the tunables of ActivityService
type ActivityConfig struct {
	Classifier     *activity.Classifier
	PresenceWindow time.Duration
	Backfill       activity.BackfillOptions
}

// AccountActivity is an account enriched with its derived activity and presence
type AccountActivity struct {
	Account *models.Account
	Summary models.ActivitySummary
	Status  string
}

// ActivityService records login events and derives activity summaries from them
type ActivityService struct {
	accounts       AccountRepository
	events         LoginEventRepository
	generator      HistoryGenerator
	classifier     *activity.Classifier
	presenceWindow time.Duration
	backfill       activity.BackfillOptions
	metrics        *metrics.Metrics
	logger         *slog.Logger
	now            func() time.Time
}

func NewActivityService(
	accounts AccountRepository,
	events LoginEventRepository,
	generator HistoryGenerator,
	cfg ActivityConfig,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ActivityService {
	if cfg.Classifier == nil {
		cfg.Classifier = activity.NewClassifier(time.UTC, activity.DefaultNormalizationDays)
	}
	if cfg.PresenceWindow <= 0 {
		cfg.PresenceWindow = activity.DefaultPresenceWindow
	}
	if cfg.Backfill == (activity.BackfillOptions{}) {
		cfg.Backfill = activity.DefaultBackfillOptions()
	}

	return &ActivityService{
		accounts:       accounts,
		events:         events,
		generator:      generator,
		classifier:     cfg.Classifier,
		presenceWindow: cfg.PresenceWindow,
		backfill:       cfg.Backfill,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// BackfillOptions returns the options used when a login triggers backfill
func (s *ActivityService) BackfillOptions() activity.BackfillOptions {
	return s.backfill
}

// EnsureHistory backfills synthetic history for an account that has none.
// It is a no-op when any event already exists and returns the number of
// events written.
func (s *ActivityService) EnsureHistory(ctx context.Context, userID string, opts activity.BackfillOptions) (int, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}

	if _, err := s.accounts.GetByID(ctx, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, models.ErrNotFound
		}
		s.logger.Error("failed to load account for backfill", slog.String("user_id", userID), slog.Any("error", err))
		return 0, models.ErrStoreFailure
	}

	has, err := s.events.HasEvents(ctx, userID)
	if err != nil {
		s.logger.Error("failed to check login history", slog.String("user_id", userID), slog.Any("error", err))
		return 0, models.ErrStoreFailure
	}
	if has {
		return 0, nil
	}

	events, err := s.generator.Generate(userID, opts)
	if err != nil {
		return 0, err
	}

	n, err := s.events.InsertBatchIfEmpty(ctx, userID, events)
	if err != nil {
		s.logger.Error("failed to write backfilled history",
			slog.String("user_id", userID),
			slog.Int("events", len(events)),
			slog.Any("error", err))
		return 0, models.ErrStoreFailure
	}

	if n > 0 {
		s.metrics.Backfilled(int(n))
		s.logger.Info("login history backfilled",
			slog.String("user_id", userID),
			slog.Int64("events", n),
			slog.Int("days_back", opts.DaysBack),
			slog.Bool("suspicious_pattern", opts.SuspiciousPattern))
	}

	return int(n), nil
}

// RecordLogin appends exactly one event stamped now for a real authentication
func (s *ActivityService) RecordLogin(ctx context.Context, userID string, reqCtx RequestContext) (*models.LoginEvent, error) {
	browser := reqCtx.UserAgent
	if browser == "" {
		browser = "unknown"
	}

	event := &models.LoginEvent{
		ID:            uuid.NewString(),
		UserID:        userID,
		Timestamp:     s.now().UTC(),
		Device:        activity.DetectDevice(reqCtx.UserAgent),
		BrowserAgent:  browser,
		SourceAddress: reqCtx.ForwardedFor,
	}

	if err := s.events.Insert(ctx, event); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to record login", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}

	s.metrics.LoginRecorded(event.Device)
	return event, nil
}

// AfterAuthentication runs once per successful login: backfill if needed,
// record the login, then mark the account online. Backfill and presence are
// best-effort; only a failure to record the login is returned.
func (s *ActivityService) AfterAuthentication(ctx context.Context, account *models.Account, reqCtx RequestContext) error {
	if _, err := s.EnsureHistory(ctx, account.ID, s.backfill); err != nil {
		s.metrics.BackfillFailed()
		s.logger.Warn("history backfill skipped", slog.String("user_id", account.ID), slog.Any("error", err))
	}

	if _, err := s.RecordLogin(ctx, account.ID, reqCtx); err != nil {
		return err
	}

	now := s.now()
	if err := s.accounts.TouchPresence(ctx, account.ID, now); err != nil {
		s.logger.Warn("failed to update presence", slog.String("user_id", account.ID), slog.Any("error", err))
	} else {
		account.Status = models.StatusOnline
		account.LastActiveAt = &now
	}

	return nil
}

// GetActivity summarizes one account's login history
func (s *ActivityService) GetActivity(ctx context.Context, accountID string) (*models.ActivitySummary, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to load account", slog.String("user_id", accountID), slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}

	events, err := s.events.ListByUser(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to load login history", slog.String("user_id", accountID), slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}

	summary := s.classifier.Summarize(events, s.now())
	return &summary, nil
}

// ListAccountsWithActivity loads every account with its summary and presence
// using a single bulk event query
func (s *ActivityService) ListAccountsWithActivity(ctx context.Context) ([]*AccountActivity, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}

	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}

	eventsByAccount, err := s.events.ListByUsers(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load login histories", slog.Int("accounts", len(ids)), slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}

	now := s.now()
	summaries := s.classifier.ClassifyAll(accounts, eventsByAccount, now)

	result := make([]*AccountActivity, len(accounts))
	suspicious := 0
	for i, a := range accounts {
		summary := summaries[a.ID]
		if summary.Suspicious {
			suspicious++
		}
		result[i] = &AccountActivity{
			Account: a,
			Summary: summary,
			Status:  activity.PresenceStatus(a.LastActiveAt, now, s.presenceWindow),
		}
	}

	s.metrics.Classified(len(accounts), suspicious)
	return result, nil
}
