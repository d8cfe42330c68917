package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/athena/pkg/models"
)

func TestSource_CreateListUpdateDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateSource(ctx, "prod-inventory.csv", "file", "/tmp/prod-inventory.csv", "csv", nil)
	require.NoError(t, err)

	sourceID := id
	_, err = store.AddHost(ctx, models.HostPatch{Hostname: "web-01", SourceID: &sourceID, ChangedBy: "t"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateSourceHostCount(ctx, id, 1))

	sources, err := store.ListSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, 1, sources[0].HostCount)

	require.NoError(t, store.DeleteSource(ctx, id))

	_, err = store.GetHostByName(ctx, "web-01")
	assert.Error(t, err, "deleting a source must cascade to the hosts it contributed")
}

func TestSource_DuplicateNameRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateSource(ctx, "dup", "file", "", "", nil)
	require.NoError(t, err)

	_, err = store.CreateSource(ctx, "dup", "file", "", "", nil)
	assert.Error(t, err)
}
