package triage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/athena/pkg/models"
)

func TestSmartClassify_TrustedPatternShortCircuits(t *testing.T) {
	store := newTestPatternStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordFeedback(ctx, "alice", "restart nginx", models.IntentAction, models.PriorityP1))

	out, err := SmartClassify(ctx, store, "alice", "restart nginx", nil)
	require.NoError(t, err)
	assert.Equal(t, models.IntentAction, out.Intent)
	assert.Equal(t, models.PriorityP1, out.Priority)
	assert.Equal(t, 1.0, out.Confidence)
	assert.Contains(t, out.Signals, "pattern_store_match")
}

func TestSmartClassify_NoPriorPatternClassifiesFreshAndUpserts(t *testing.T) {
	store := newTestPatternStore(t)
	ctx := context.Background()

	out, err := SmartClassify(ctx, store, "alice", "list my hosts", nil)
	require.NoError(t, err)
	assert.Equal(t, models.IntentQuery, out.Intent)

	pattern, found, err := store.Find(ctx, "alice", "list my hosts")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, autoClassifyConfidence, pattern.Confidence)
}

func TestSmartClassify_LowConfidenceMatchReclassifiesAndIncrements(t *testing.T) {
	store := newTestPatternStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", "list my hosts", models.IntentQuery, models.PriorityP3))

	out, err := SmartClassify(ctx, store, "alice", "list my hosts", nil)
	require.NoError(t, err)
	assert.Equal(t, models.IntentQuery, out.Intent)

	pattern, found, err := store.Find(ctx, "alice", "list my hosts")
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, autoClassifyConfidence+implicitIncrement, pattern.Confidence, 0.001)
}

func TestSmartClassify_LowConfidenceMismatchOverwritesPattern(t *testing.T) {
	store := newTestPatternStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", "restart nginx", models.IntentQuery, models.PriorityP3))

	out, err := SmartClassify(ctx, store, "alice", "restart nginx", nil)
	require.NoError(t, err)
	assert.Equal(t, models.IntentAction, out.Intent)

	pattern, found, err := store.Find(ctx, "alice", "restart nginx")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.IntentAction, pattern.Intent)
	assert.Equal(t, autoClassifyConfidence, pattern.Confidence)
}

func TestCombineIntentVotes_WeightsSemanticMoreHeavily(t *testing.T) {
	keyword := map[models.Intent]float64{
		models.IntentQuery:    0.9,
		models.IntentAction:   0.1,
		models.IntentAnalysis: 0.0,
	}
	semantic := map[models.Intent]float64{
		models.IntentQuery:    0.1,
		models.IntentAction:   0.95,
		models.IntentAnalysis: 0.2,
	}

	assert.Equal(t, models.IntentAction, CombineIntentVotes(keyword, semantic))
}

func TestCombineIntentVotes_AgreementWins(t *testing.T) {
	keyword := map[models.Intent]float64{models.IntentAnalysis: 0.8}
	semantic := map[models.Intent]float64{models.IntentAnalysis: 0.8}
	assert.Equal(t, models.IntentAnalysis, CombineIntentVotes(keyword, semantic))
}
