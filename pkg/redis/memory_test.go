package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositories(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemoryRepositories()
	repo.now = func() time.Time { return now }

	_, err := repo.Get("missing", ctx)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, repo.Set("k", []byte("v"), time.Minute, ctx))
	value, err := repo.Get("k", ctx)
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	ok, err := repo.SetNX("k", []byte("other"), time.Minute, ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := repo.TTL("k", ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	now = now.Add(2 * time.Minute)
	_, err = repo.Get("k", ctx)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	ok, err = repo.SetNX("k", []byte("fresh"), 0, ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	ttl, _ = repo.TTL("k", ctx)
	assert.Equal(t, time.Duration(-1), ttl)

	require.NoError(t, repo.Del("k", ctx))
	ttl, _ = repo.TTL("k", ctx)
	assert.Equal(t, time.Duration(-2), ttl)
}
