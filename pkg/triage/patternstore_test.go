package triage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/codeready-toolchain/athena/pkg/testutil"
)

func newTestPatternStore(t *testing.T) *PatternStore {
	t.Helper()
	return NewPatternStore(testutil.NewMemoryClient(t).DB())
}

func TestPatternStore_UpsertThenFindRoundTrips(t *testing.T) {
	store := newTestPatternStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", "List My Hosts", models.IntentQuery, models.PriorityP3))

	pattern, found, err := store.Find(ctx, "alice", "list my hosts")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.IntentQuery, pattern.Intent)
	assert.Equal(t, models.PriorityP3, pattern.Priority)
	assert.Equal(t, autoClassifyConfidence, pattern.Confidence)
	assert.Equal(t, 1, pattern.UseCount)
}

func TestPatternStore_UpsertOnRepeatBumpsUseCountNotConfidence(t *testing.T) {
	store := newTestPatternStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", "list hosts", models.IntentQuery, models.PriorityP3))
	require.NoError(t, store.Upsert(ctx, "alice", "list hosts", models.IntentQuery, models.PriorityP3))

	pattern, found, err := store.Find(ctx, "alice", "list hosts")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, pattern.UseCount)
	assert.Equal(t, autoClassifyConfidence, pattern.Confidence)
}

func TestPatternStore_IncrementConfidenceCapsAt0_8(t *testing.T) {
	store := newTestPatternStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", "restart nginx", models.IntentAction, models.PriorityP2))
	for i := 0; i < 10; i++ {
		require.NoError(t, store.IncrementConfidence(ctx, "alice", "restart nginx"))
	}

	pattern, found, err := store.Find(ctx, "alice", "restart nginx")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, maxImplicitConfidence, pattern.Confidence)
}

func TestPatternStore_RecordFeedbackSetsConfidenceTo1AndOverwrites(t *testing.T) {
	store := newTestPatternStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", "restart nginx", models.IntentQuery, models.PriorityP3))
	require.NoError(t, store.RecordFeedback(ctx, "alice", "restart nginx", models.IntentAction, models.PriorityP1))

	pattern, found, err := store.Find(ctx, "alice", "restart nginx")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.IntentAction, pattern.Intent)
	assert.Equal(t, models.PriorityP1, pattern.Priority)
	assert.Equal(t, 1.0, pattern.Confidence)
}

func TestPatternStore_FindMissingReturnsNotFound(t *testing.T) {
	store := newTestPatternStore(t)
	_, found, err := store.Find(context.Background(), "alice", "never seen")
	require.NoError(t, err)
	assert.False(t, found)
}
