package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/loginwatch/internal/database"
)

type SessionRevocationRepository struct {
	pool querier
}

func NewSessionRevocationRepository(db *database.DB) *SessionRevocationRepository {
	return &SessionRevocationRepository{pool: db.Pool}
}

// Revoke blacklists a session id until it would have expired anyway
func (r *SessionRevocationRepository) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time, reason string) error {
	query := `
		INSERT INTO revoked_sessions (jti, user_id, expires_at, reason)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (jti) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, jti, userID, expiresAt, reason)
	return database.MapPostgresError(err)
}

func (r *SessionRevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM revoked_sessions WHERE jti = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, jti).Scan(&exists); err != nil {
		return false, database.MapPostgresError(err)
	}

	return exists, nil
}

// PurgeExpired removes entries whose sessions have expired (call periodically)
func (r *SessionRevocationRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM revoked_sessions WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return tag.RowsAffected(), nil
}
