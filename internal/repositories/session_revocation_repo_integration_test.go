//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRevocationRepository(t *testing.T) {
	cleanupTables(t)
	ctx := context.Background()
	repo := NewSessionRevocationRepository(testDB)

	revoked, err := repo.IsRevoked(ctx, "jti-live")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "jti-live", "user-1", time.Now().Add(time.Hour), "logout"))
	require.NoError(t, repo.Revoke(ctx, "jti-live", "user-1", time.Now().Add(time.Hour), "logout"), "revoking twice is a no-op")
	require.NoError(t, repo.Revoke(ctx, "jti-old", "user-1", time.Now().Add(-time.Hour), "logout"))

	revoked, err = repo.IsRevoked(ctx, "jti-live")
	require.NoError(t, err)
	assert.True(t, revoked)

	n, err := repo.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	revoked, err = repo.IsRevoked(ctx, "jti-old")
	require.NoError(t, err)
	assert.False(t, revoked)
}
