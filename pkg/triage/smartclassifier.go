package triage

import (
	"context"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// SmartClassify consults store for a trusted prior pattern before
// falling back to full keyword classification. A stored pattern at or
// above smartClassifierThreshold short-circuits classification outright
// (returning its own intent/priority rather than re-deriving them); a
// less-trusted or missing pattern goes through Classify, and the
// outcome is recorded — upserted fresh at 0.5 confidence, or bumped via
// implicit validation if it matches what's already stored.
func SmartClassify(ctx context.Context, store *PatternStore, userID, query string, state *models.SystemState) (models.PriorityResult, error) {
	pattern, found, err := store.Find(ctx, userID, query)
	if err != nil {
		return models.PriorityResult{}, err
	}

	if found && pattern.Confidence >= smartClassifierThreshold {
		return models.PriorityResult{
			Priority:   pattern.Priority,
			Intent:     pattern.Intent,
			Confidence: pattern.Confidence,
			Signals:    []string{"pattern_store_match"},
			Reasoning:  "matched a previously confirmed pattern for this query",
		}, nil
	}

	result := Classify(query, state)

	if found && pattern.Intent == result.Intent && pattern.Priority == result.Priority {
		if err := store.IncrementConfidence(ctx, userID, query); err != nil {
			return result, err
		}
		return result, nil
	}

	if err := store.Upsert(ctx, userID, query, result.Intent, result.Priority); err != nil {
		return result, err
	}
	return result, nil
}

// CombineIntentVotes blends a keyword-derived intent score and a
// semantic (embedding) similarity score per intent at the 0.4/0.6
// weighting the smart classifier uses, returning the intent with the
// highest combined score.
func CombineIntentVotes(keywordScores, semanticScores map[models.Intent]float64) models.Intent {
	best := models.IntentAction
	bestScore := -1.0
	for _, intent := range []models.Intent{models.IntentQuery, models.IntentAction, models.IntentAnalysis} {
		score := 0.4*keywordScores[intent] + 0.6*semanticScores[intent]
		if score > bestScore {
			bestScore = score
			best = intent
		}
	}
	return best
}
