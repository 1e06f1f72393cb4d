package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/graph-spam-filter/internal/detection"
)

func newTestSQLiteCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(":memory:", zap.NewNop(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, c.Stop())
	})
	return c
}

func TestSQLiteCacheSetGet(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	entry := verdictEntry("spammer@bad.com", time.Hour)
	require.NoError(t, c.Set(ctx, entry))

	got, err := c.Get(ctx, "spammer@bad.com")
	require.NoError(t, err)
	assert.Equal(t, entry.Sender, got.Sender)
	assert.Equal(t, entry.Score, got.Score)
	assert.Equal(t, detection.VerdictHighRisk, got.Verdict)
	assert.WithinDuration(t, entry.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSQLiteCacheGetMissing(t *testing.T) {
	c := newTestSQLiteCache(t)

	_, err := c.Get(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCacheExpiredEntryIsInvisible(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, verdictEntry("stale@x.com", -time.Minute)))

	_, err := c.Get(ctx, "stale@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCacheSetOverwrites(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	first := verdictEntry("spammer@bad.com", time.Hour)
	require.NoError(t, c.Set(ctx, first))

	second := verdictEntry("spammer@bad.com", time.Hour)
	second.Score = 0.31
	second.Verdict = detection.VerdictSuspicious
	require.NoError(t, c.Set(ctx, second))

	got, err := c.Get(ctx, "spammer@bad.com")
	require.NoError(t, err)
	assert.Equal(t, 0.31, got.Score)
	assert.Equal(t, detection.VerdictSuspicious, got.Verdict)
}

func TestSQLiteCacheDelete(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, verdictEntry("spammer@bad.com", time.Hour)))
	require.NoError(t, c.Delete(ctx, "spammer@bad.com"))

	_, err := c.Get(ctx, "spammer@bad.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCacheCleanup(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, verdictEntry("fresh@x.com", time.Hour)))
	require.NoError(t, c.Set(ctx, verdictEntry("stale@x.com", -time.Minute)))

	require.NoError(t, c.Cleanup(ctx))

	_, err := c.Get(ctx, "fresh@x.com")
	assert.NoError(t, err)

	var count int
	require.NoError(t, c.db.QueryRow(`SELECT COUNT(*) FROM sender_verdicts`).Scan(&count))
	assert.Equal(t, 1, count)
}
