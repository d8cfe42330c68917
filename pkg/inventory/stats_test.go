package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/athena/pkg/models"
)

func TestGetStats_AggregatesAcrossDimensions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddHost(ctx, models.HostPatch{Hostname: "web-01", Environment: strPtr("prod"), ChangedBy: "t"})
	require.NoError(t, err)
	_, err = store.AddHost(ctx, models.HostPatch{Hostname: "web-02", Environment: strPtr("staging"), ChangedBy: "t"})
	require.NoError(t, err)
	_, err = store.AddRelation(ctx, "web-01", "web-02", models.RelationClusterMember, 0.9, true, nil)
	require.NoError(t, err)
	require.NoError(t, store.SaveScanCache(ctx, "web-01", "disk_usage", map[string]any{"root": "1%"}, 300))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalHosts)
	assert.Equal(t, 1, stats.ByEnvironment["prod"])
	assert.Equal(t, 1, stats.ByEnvironment["staging"])
	assert.Equal(t, 1, stats.TotalRelations)
	assert.Equal(t, 1, stats.ValidatedRelations)
	assert.Equal(t, 1, stats.CachedScans)
}
