package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/graph-spam-filter/internal/core"
	"github.com/mikey/graph-spam-filter/internal/detection"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(zap.NewNop(), time.Minute)
	t.Cleanup(c.Stop)
	return c
}

func verdictEntry(sender string, ttl time.Duration) *core.CachedVerdict {
	now := time.Now()
	return &core.CachedVerdict{
		Sender:     sender,
		Score:      0.72,
		Verdict:    detection.VerdictHighRisk,
		AnalyzedAt: now,
		ExpiresAt:  now.Add(ttl),
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, verdictEntry("spammer@bad.com", time.Hour)))

	got, err := c.Get(ctx, "spammer@bad.com")
	require.NoError(t, err)
	assert.Equal(t, "spammer@bad.com", got.Sender)
	assert.Equal(t, 0.72, got.Score)
	assert.Equal(t, detection.VerdictHighRisk, got.Verdict)
}

func TestMemoryCacheGetMissing(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheGetExpired(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, verdictEntry("stale@x.com", -time.Minute)))

	_, err := c.Get(ctx, "stale@x.com")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, verdictEntry("spammer@bad.com", time.Hour)))
	require.NoError(t, c.Delete(ctx, "spammer@bad.com"))

	_, err := c.Get(ctx, "spammer@bad.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheCleanupRemovesOnlyExpired(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, verdictEntry("fresh@x.com", time.Hour)))
	require.NoError(t, c.Set(ctx, verdictEntry("stale@x.com", -time.Minute)))

	require.NoError(t, c.Cleanup(ctx))

	_, err := c.Get(ctx, "fresh@x.com")
	assert.NoError(t, err)
	_, err = c.Get(ctx, "stale@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	entry := verdictEntry("spammer@bad.com", time.Hour)
	require.NoError(t, c.Set(ctx, entry))
	entry.Score = 0.1

	got, err := c.Get(ctx, "spammer@bad.com")
	require.NoError(t, err)
	assert.Equal(t, 0.72, got.Score, "mutating the caller's entry must not affect the cache")

	got.Verdict = detection.VerdictLegitimate
	again, err := c.Get(ctx, "spammer@bad.com")
	require.NoError(t, err)
	assert.Equal(t, detection.VerdictHighRisk, again.Verdict)
}
