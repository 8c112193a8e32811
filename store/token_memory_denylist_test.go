package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenMemoryDenylist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	denylist := NewTokenMemoryDenylist()
	denylist.now = func() time.Time { return now }

	require.NoError(t, denylist.Revoke(ctx, "live", now.Add(time.Hour)))
	require.NoError(t, denylist.Revoke(ctx, "stale", now.Add(-time.Minute)))

	revoked, err := denylist.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = denylist.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = denylist.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.False(t, revoked)
}
