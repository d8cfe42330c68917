// Package erroranalyzer classifies a failure's error text into a known
// kind so the corrector can decide whether and how to retry. The
// keyword tier always runs; a semantic tier behind an Embedder can
// additionally catch phrasing the keyword list doesn't cover.
package erroranalyzer

import (
	"context"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

const semanticThreshold = 0.6

// Analyzer classifies error strings. The zero value works (keyword tier
// only); call WithEmbedder to enable the semantic tier.
type Analyzer struct {
	embedder Embedder
	cache    *embeddingCache
}

// New returns an Analyzer with no semantic tier; embedder may be nil.
// cacheSize bounds the phrase-embedding LRU cache (0 uses a sane default).
func New(embedder Embedder, cacheSize int) *Analyzer {
	return &Analyzer{
		embedder: embedder,
		cache:    newEmbeddingCache(cacheSize),
	}
}

// Analyze classifies errorText, preferring the semantic tier when an
// Embedder is configured and able to produce embeddings, falling back
// to the keyword tier otherwise.
func (a *Analyzer) Analyze(ctx context.Context, errorText string) models.ErrorAnalysis {
	if strings.TrimSpace(errorText) == "" {
		return unknownAnalysis()
	}

	if a.embedder != nil {
		if analysis, ok := a.semanticAnalyze(ctx, errorText); ok {
			return analysis
		}
	}

	kind, confidence, matched := keywordMatch(errorText)
	if confidence >= semanticThreshold {
		return models.ErrorAnalysis{
			Kind:             kind,
			Confidence:       confidence,
			NeedsCredentials: kind == models.ErrorKindCredential,
			SuggestedAction:  suggestedActions[kind],
			MatchedPattern:   matched,
		}
	}
	return unknownAnalysis()
}

func unknownAnalysis() models.ErrorAnalysis {
	return models.ErrorAnalysis{
		Kind:            models.ErrorKindUnknown,
		SuggestedAction: suggestedActions[models.ErrorKindUnknown],
	}
}

// keywordMatch scans keywordPatterns for the longest substring match,
// scoring confidence = min(0.9, 0.7 + len(keyword)/100).
func keywordMatch(errorText string) (models.ErrorKind, float64, string) {
	lower := strings.ToLower(errorText)

	bestKind := models.ErrorKindUnknown
	bestConfidence := 0.0
	bestMatch := ""

	for kind, keywords := range keywordPatterns {
		for _, keyword := range keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			confidence := 0.7 + float64(len(keyword))/100
			if confidence > 0.9 {
				confidence = 0.9
			}
			if confidence > bestConfidence {
				bestConfidence = confidence
				bestKind = kind
				bestMatch = keyword
			}
		}
	}
	return bestKind, bestConfidence, bestMatch
}

// semanticAnalyze embeds errorText and every reference phrase (via the
// LRU cache), takes the max cosine similarity per kind, and returns the
// winning kind if its score clears semanticThreshold. ok is false when
// the embedder fails or yields no usable scores, signaling the caller
// to fall back to the keyword tier.
func (a *Analyzer) semanticAnalyze(ctx context.Context, errorText string) (models.ErrorAnalysis, bool) {
	queryEmbedding, err := a.cachedEmbed(ctx, errorText)
	if err != nil || len(queryEmbedding) == 0 {
		return models.ErrorAnalysis{}, false
	}

	bestKind := models.ErrorKindUnknown
	bestScore := -1.0
	bestPattern := ""
	found := false

	for kind, phrases := range referencePhrases {
		for _, phrase := range phrases {
			refEmbedding, err := a.cachedEmbed(ctx, phrase)
			if err != nil || len(refEmbedding) == 0 {
				continue
			}
			score := cosineSimilarity(queryEmbedding, refEmbedding)
			if score > bestScore {
				bestScore = score
				bestKind = kind
				bestPattern = phrase
				found = true
			}
		}
	}

	if !found {
		return models.ErrorAnalysis{}, false
	}
	if bestScore < semanticThreshold {
		return models.ErrorAnalysis{
			Kind:       models.ErrorKindUnknown,
			Confidence: bestScore,
		}, true
	}

	return models.ErrorAnalysis{
		Kind:             bestKind,
		Confidence:       bestScore,
		NeedsCredentials: bestKind == models.ErrorKindCredential,
		SuggestedAction:  suggestedActions[bestKind],
		MatchedPattern:   bestPattern,
	}, true
}

func (a *Analyzer) cachedEmbed(ctx context.Context, text string) ([]float64, error) {
	key := strings.ToLower(strings.TrimSpace(text))
	if cached, ok := a.cache.get(key); ok {
		return cached, nil
	}
	embedding, err := a.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	a.cache.put(key, embedding)
	return embedding, nil
}

// ShouldRetry reports whether a command that failed with the given
// analysis is worth retrying. permission/not_found/configuration are
// retried (often fixable with a rewrite); connection/timeout/credential/
// resource are not (retrying won't change the outcome). An unknown or
// low-confidence classification falls back to exitCode: only 1, 126, 127
// are treated as plausibly transient/fixable.
func ShouldRetry(kind models.ErrorKind, confidence float64, exitCode int) bool {
	switch kind {
	case models.ErrorKindPermission, models.ErrorKindNotFound, models.ErrorKindConfiguration:
		return true
	case models.ErrorKindConnection, models.ErrorKindTimeout, models.ErrorKindCredential, models.ErrorKindResource:
		return false
	default:
		if confidence >= semanticThreshold {
			return false
		}
		return exitCode == 1 || exitCode == 126 || exitCode == 127
	}
}
