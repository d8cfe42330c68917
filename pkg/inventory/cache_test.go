package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCache_SaveThenGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedHosts(t, store, "web-01")

	err := store.SaveScanCache(ctx, "web-01", "disk_usage", map[string]any{"root": "42%"}, 300)
	require.NoError(t, err)

	entry, err := store.GetScanCache(ctx, "web-01", "disk_usage")
	require.NoError(t, err)
	assert.Equal(t, "42%", entry.Data["root"])
}

func TestScanCache_UpsertReplacesData(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedHosts(t, store, "web-01")

	require.NoError(t, store.SaveScanCache(ctx, "web-01", "disk_usage", map[string]any{"root": "10%"}, 300))
	require.NoError(t, store.SaveScanCache(ctx, "web-01", "disk_usage", map[string]any{"root": "90%"}, 300))

	entry, err := store.GetScanCache(ctx, "web-01", "disk_usage")
	require.NoError(t, err)
	assert.Equal(t, "90%", entry.Data["root"])
}

func TestScanCache_ExpiredEntryIsAMiss(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedHosts(t, store, "web-01")

	require.NoError(t, store.SaveScanCache(ctx, "web-01", "disk_usage", map[string]any{"root": "10%"}, -1))

	_, err := store.GetScanCache(ctx, "web-01", "disk_usage")
	assert.Error(t, err)
}

func TestCleanupExpiredScans_RemovesOnlyExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedHosts(t, store, "web-01", "web-02")

	require.NoError(t, store.SaveScanCache(ctx, "web-01", "disk_usage", nil, -1))
	require.NoError(t, store.SaveScanCache(ctx, "web-02", "disk_usage", nil, 300))

	n, err := store.CleanupExpiredScans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.GetScanCache(ctx, "web-02", "disk_usage")
	assert.NoError(t, err)
}
