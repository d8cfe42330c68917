package relations

import (
	"context"
	"sort"

	"github.com/codeready-toolchain/athena/pkg/llm"
	"github.com/codeready-toolchain/athena/pkg/models"
)

// Classify unions every heuristic, optionally tops up with an LLM
// fallback when heuristics came up short, deduplicates symmetric-type
// suggestions by keeping the higher-confidence entry per unordered pair,
// filters out anything already present in opts.ExistingRelations, and
// returns the result sorted by confidence descending.
func Classify(ctx context.Context, hosts []HostSummary, generator llm.Generator, opts Options) []models.RelationSuggestion {
	var suggestions []models.RelationSuggestion
	suggestions = append(suggestions, ClusterNaming(hosts)...)
	suggestions = append(suggestions, ReplicaDetection(hosts)...)
	suggestions = append(suggestions, SharedGroup(hosts)...)
	suggestions = append(suggestions, ServiceDependencies(hosts)...)

	if opts.UseLLM && len(suggestions) < llmFallbackMinSuggestions && len(hosts) > llmFallbackMinHosts {
		suggestions = append(suggestions, llmHostFallback(ctx, generator, hosts)...)
	}

	suggestions = dedupSymmetric(suggestions)
	suggestions = filterExisting(suggestions, opts.ExistingRelations)
	suggestions = filterMinConfidence(suggestions, opts.MinConfidence)

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions
}

// dedupSymmetric keeps, per unordered (source, target, type) pair where
// type is symmetric, only the highest-confidence suggestion; asymmetric
// types are kept as-is since (a, b) and (b, a) are different edges.
func dedupSymmetric(in []models.RelationSuggestion) []models.RelationSuggestion {
	best := map[string]models.RelationSuggestion{}
	var order []string
	var asymmetric []models.RelationSuggestion

	for _, s := range in {
		if !s.Type.Symmetric() {
			asymmetric = append(asymmetric, s)
			continue
		}
		key := symmetricKey(s.Source, s.Target, s.Type)
		if existing, ok := best[key]; !ok || s.Confidence > existing.Confidence {
			if !ok {
				order = append(order, key)
			}
			best[key] = s
		}
	}

	out := asymmetric
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func symmetricKey(a, b string, t models.RelationType) string {
	if a > b {
		a, b = b, a
	}
	return string(t) + "|" + a + "|" + b
}

// filterExisting drops any suggestion already present in existing,
// checking the reverse pair too when the type is symmetric.
func filterExisting(in, existing []models.RelationSuggestion) []models.RelationSuggestion {
	if len(existing) == 0 {
		return in
	}
	present := map[string]bool{}
	for _, e := range existing {
		present[string(e.Type)+"|"+e.Source+"|"+e.Target] = true
		if e.Type.Symmetric() {
			present[string(e.Type)+"|"+e.Target+"|"+e.Source] = true
		}
	}

	var out []models.RelationSuggestion
	for _, s := range in {
		if present[string(s.Type)+"|"+s.Source+"|"+s.Target] {
			continue
		}
		out = append(out, s)
	}
	return out
}

func filterMinConfidence(in []models.RelationSuggestion, min float64) []models.RelationSuggestion {
	if min <= 0 {
		return in
	}
	var out []models.RelationSuggestion
	for _, s := range in {
		if s.Confidence >= min {
			out = append(out, s)
		}
	}
	return out
}
