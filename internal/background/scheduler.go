package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/BradenHooton/loginwatch/internal/metrics"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 30 * time.Second

// SessionPurger removes revoked sessions whose tokens have expired anyway
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PresenceSweeper flips stale online accounts to offline
type PresenceSweeper interface {
	SweepPresence(ctx context.Context) (int64, error)
}

// Schedules holds cron specs for each job; an empty spec disables the job
type Schedules struct {
	SessionCleanup string
	PresenceSweep  string
}

// Scheduler runs periodic maintenance jobs on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	purger  SessionPurger
	sweeper PresenceSweeper
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewScheduler registers the maintenance jobs; it returns an error for an unparseable schedule
func NewScheduler(
	schedules Schedules,
	purger SessionPurger,
	sweeper PresenceSweeper,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		purger:  purger,
		sweeper: sweeper,
		metrics: m,
		logger:  logger,
	}

	if schedules.SessionCleanup != "" {
		if _, err := s.cron.AddFunc(schedules.SessionCleanup, s.PurgeSessions); err != nil {
			return nil, err
		}
	}
	if schedules.PresenceSweep != "" {
		if _, err := s.cron.AddFunc(schedules.PresenceSweep, s.SweepPresence); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start runs the scheduler until ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("background scheduler started", slog.Int("jobs", len(s.cron.Entries())))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("background scheduler stopped")
}

// PurgeSessions removes expired revoked sessions
func (s *Scheduler) PurgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	rowsDeleted, err := s.purger.PurgeExpired(ctx)
	s.metrics.JobRun("session_cleanup", err)
	if err != nil {
		s.logger.Error("failed to purge expired sessions", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		s.logger.Info("expired session cleanup completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// SweepPresence marks accounts that stopped pinging as offline
func (s *Scheduler) SweepPresence() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	swept, err := s.sweeper.SweepPresence(ctx)
	s.metrics.JobRun("presence_sweep", err)
	if err != nil {
		s.logger.Error("failed to sweep presence", slog.Any("error", err))
		return
	}

	if swept > 0 {
		s.logger.Debug("presence sweep completed", slog.Int64("accounts_offline", swept))
	}
}
