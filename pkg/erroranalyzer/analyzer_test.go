package erroranalyzer

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_EmptyStringIsUnknown(t *testing.T) {
	a := New(nil, 0)
	out := a.Analyze(context.Background(), "   ")
	assert.Equal(t, models.ErrorKindUnknown, out.Kind)
	assert.Zero(t, out.Confidence)
}

func TestAnalyze_KeywordTierClassifiesCredentialError(t *testing.T) {
	a := New(nil, 0)
	out := a.Analyze(context.Background(), "sshd: authentication failed for user root")
	assert.Equal(t, models.ErrorKindCredential, out.Kind)
	assert.True(t, out.NeedsCredentials)
	assert.GreaterOrEqual(t, out.Confidence, 0.6)
	assert.NotEmpty(t, out.MatchedPattern)
}

func TestAnalyze_KeywordTierPrefersLongerMatch(t *testing.T) {
	a := New(nil, 0)
	out := a.Analyze(context.Background(), "password authentication failed for user postgres")
	assert.Equal(t, models.ErrorKindCredential, out.Kind)
	assert.Equal(t, "password authentication failed", out.MatchedPattern)
}

func TestAnalyze_UnmatchedTextIsUnknown(t *testing.T) {
	a := New(nil, 0)
	out := a.Analyze(context.Background(), "the quick brown fox jumps over the lazy dog")
	assert.Equal(t, models.ErrorKindUnknown, out.Kind)
}

// fakeEmbedder maps known phrases to hand-picked unit vectors along
// distinct axes so cosine similarity deterministically prefers the
// credential axis for a "credential-like" query.
type fakeEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float64{0, 0, 0}, nil
}

func TestAnalyze_SemanticTierPicksHighestCosineSimilarity(t *testing.T) {
	fake := &fakeEmbedder{vectors: map[string][]float64{
		"weird auth hiccup": {1, 0, 0},
	}}
	for kind, phrases := range referencePhrases {
		for _, p := range phrases {
			vec := []float64{0, 0, 0}
			if kind == models.ErrorKindCredential {
				vec = []float64{0.9, 0.1, 0}
			} else {
				vec = []float64{0, 1, 0}
			}
			fake.vectors[p] = vec
		}
	}

	a := New(fake, 0)
	out := a.Analyze(context.Background(), "weird auth hiccup")
	assert.Equal(t, models.ErrorKindCredential, out.Kind)
	assert.True(t, out.NeedsCredentials)
}

func TestAnalyze_SemanticTierBelowThresholdFallsToUnknown(t *testing.T) {
	fake := &fakeEmbedder{vectors: map[string][]float64{
		"ambiguous text": {1, 0, 0},
	}}
	for _, phrases := range referencePhrases {
		for _, p := range phrases {
			fake.vectors[p] = []float64{0, 1, 0}
		}
	}

	a := New(fake, 0)
	out := a.Analyze(context.Background(), "ambiguous text")
	assert.Equal(t, models.ErrorKindUnknown, out.Kind)
}

func TestAnalyze_ZeroNormEmbeddingHandledDefensively(t *testing.T) {
	fake := &fakeEmbedder{vectors: map[string][]float64{
		"zero vector error": {0, 0, 0},
	}}
	a := New(fake, 0)
	out := a.Analyze(context.Background(), "zero vector error")
	assert.Equal(t, models.ErrorKindUnknown, out.Kind)
}

func TestAnalyze_EmbedderErrorFallsBackToKeywordTier(t *testing.T) {
	fake := &fakeEmbedder{err: assertErr{}}
	a := New(fake, 0)
	out := a.Analyze(context.Background(), "connection refused by remote host")
	assert.Equal(t, models.ErrorKindConnection, out.Kind)
}

type assertErr struct{}

func (assertErr) Error() string { return "embed failed" }

func TestAnalyze_CachesRepeatedEmbedCalls(t *testing.T) {
	calls := 0
	fake := &countingEmbedder{fakeEmbedder: fakeEmbedder{vectors: map[string][]float64{}}, calls: &calls}
	a := New(fake, 10)

	_, err := a.cachedEmbed(context.Background(), "repeated phrase")
	require.NoError(t, err)
	_, err = a.cachedEmbed(context.Background(), "repeated phrase")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

type countingEmbedder struct {
	fakeEmbedder
	calls *int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	*c.calls++
	return c.fakeEmbedder.Embed(ctx, text)
}

func TestShouldRetry_PerKindRules(t *testing.T) {
	assert.True(t, ShouldRetry(models.ErrorKindPermission, 0.8, 0))
	assert.True(t, ShouldRetry(models.ErrorKindNotFound, 0.8, 0))
	assert.True(t, ShouldRetry(models.ErrorKindConfiguration, 0.8, 0))
	assert.False(t, ShouldRetry(models.ErrorKindConnection, 0.8, 0))
	assert.False(t, ShouldRetry(models.ErrorKindTimeout, 0.8, 0))
	assert.False(t, ShouldRetry(models.ErrorKindCredential, 0.8, 0))
	assert.False(t, ShouldRetry(models.ErrorKindResource, 0.8, 0))
}

func TestShouldRetry_UnknownLowConfidenceFallsBackToExitCode(t *testing.T) {
	assert.True(t, ShouldRetry(models.ErrorKindUnknown, 0.1, 1))
	assert.True(t, ShouldRetry(models.ErrorKindUnknown, 0.1, 126))
	assert.True(t, ShouldRetry(models.ErrorKindUnknown, 0.1, 127))
	assert.False(t, ShouldRetry(models.ErrorKindUnknown, 0.1, 2))
}
