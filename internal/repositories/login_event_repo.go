package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/loginwatch/internal/activity"
	"github.com/BradenHooton/loginwatch/internal/database"
	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loginEventColumns = `id, user_id, occurred_at, device, browser_agent, source_address`

// LoginEventRepository is append-only: events are inserted and read, never updated
type LoginEventRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewLoginEventRepository(db *database.DB) *LoginEventRepository {
	return &LoginEventRepository{db: db, pool: db.Pool}
}

var loginEventCopyColumns = []string{"id", "user_id", "occurred_at", "device", "browser_agent", "source_address"}

func copySource(events []*models.LoginEvent) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
		e := events[i]
		return []any{e.ID, e.UserID, e.Timestamp, e.Device, e.BrowserAgent, e.SourceAddress}, nil
	})
}

func scanLoginEventRows(rows pgx.Rows) ([]*models.LoginEvent, error) {
	defer rows.Close()

	events := make([]*models.LoginEvent, 0)

	for rows.Next() {
		var e models.LoginEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Timestamp, &e.Device, &e.BrowserAgent, &e.SourceAddress); err != nil {
			return nil, fmt.Errorf("failed to scan login event: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// HasEvents reports whether the user owns at least one login event
func (r *LoginEventRepository) HasEvents(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM login_events WHERE user_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, database.MapPostgresError(err)
	}

	return exists, nil
}

func (r *LoginEventRepository) Insert(ctx context.Context, event *models.LoginEvent) error {
	if err := activity.ValidateEvents([]*models.LoginEvent{event}); err != nil {
		return err
	}

	query := `INSERT INTO login_events (` + loginEventColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		event.ID, event.UserID, event.Timestamp, event.Device, event.BrowserAgent, event.SourceAddress,
	)
	return database.MapPostgresError(err)
}

// InsertBatch writes all events in a single COPY, so either all rows land or none do
func (r *LoginEventRepository) InsertBatch(ctx context.Context, events []*models.LoginEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	if err := activity.ValidateEvents(events); err != nil {
		return 0, err
	}

	n, err := r.pool.CopyFrom(ctx, pgx.Identifier{"login_events"}, loginEventCopyColumns, copySource(events))
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return n, nil
}

// InsertBatchIfEmpty writes events only if userID owns none yet. A per-user
// advisory lock serializes concurrent callers, so at most one batch lands.
// Returns 0 when history already existed.
func (r *LoginEventRepository) InsertBatchIfEmpty(ctx context.Context, userID string, events []*models.LoginEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	if err := activity.ValidateEvents(events); err != nil {
		return 0, err
	}

	var n int64
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
			return err
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM login_events WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return nil
		}

		var err error
		n, err = tx.CopyFrom(ctx, pgx.Identifier{"login_events"}, loginEventCopyColumns, copySource(events))
		return err
	})
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return n, nil
}

// ListByUser returns a user's events newest first
func (r *LoginEventRepository) ListByUser(ctx context.Context, userID string) ([]*models.LoginEvent, error) {
	query := `SELECT ` + loginEventColumns + ` FROM login_events WHERE user_id = $1 ORDER BY occurred_at DESC, id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query login events: %w", err)
	}

	return scanLoginEventRows(rows)
}

// ListByUsers loads events for many users in one round trip, keyed by user id.
// Users without events are absent from the map.
func (r *LoginEventRepository) ListByUsers(ctx context.Context, userIDs []string) (map[string][]*models.LoginEvent, error) {
	grouped := make(map[string][]*models.LoginEvent, len(userIDs))
	if len(userIDs) == 0 {
		return grouped, nil
	}

	query := `SELECT ` + loginEventColumns + ` FROM login_events WHERE user_id = ANY($1) ORDER BY user_id, occurred_at DESC, id`

	rows, err := r.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query login events: %w", err)
	}

	events, err := scanLoginEventRows(rows)
	if err != nil {
		return nil, err
	}

	for _, e := range events {
		grouped[e.UserID] = append(grouped[e.UserID], e)
	}

	return grouped, nil
}
