package relations

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/llm"
	"github.com/codeready-toolchain/athena/pkg/models"
)

// llmFallbackMinSuggestions and llmFallbackMinHosts gate when the LLM
// fallback runs: heuristics alone are trusted once they've already found
// a reasonable number of relations, and a single host can't have a
// relation to anything.
const (
	llmFallbackMinSuggestions = 5
	llmFallbackMinHosts       = 2
	llmFallbackHostCap        = 50
	llmMaxConfidence          = 0.75
)

const llmFallbackSystemPrompt = `You infer infrastructure relationships from a host inventory summary.
Respond with a JSON array only, each element shaped:
{"source": "<hostname>", "target": "<hostname>", "type": "<relation type>", "reason": "<short reason>"}
Valid types: cluster_member, database_replica, depends_on, backup_of, load_balanced, related_service.
Only reference hostnames that appear in the summary. Return [] if you find nothing.`

// llmHostFallback asks the generator for additional relation suggestions
// when naming/replica/group/dependency heuristics found fewer than
// llmFallbackMinSuggestions relations over more than llmFallbackMinHosts
// hosts. Suggestions are clamped to llmMaxConfidence (never treated as
// confidently as a deterministic heuristic), unknown relation types
// collapse to related_service, and suggestions naming a hostname outside
// the summary are dropped.
func llmHostFallback(ctx context.Context, generator llm.Generator, hosts []HostSummary) []models.RelationSuggestion {
	if generator == nil || len(hosts) <= llmFallbackMinHosts {
		return nil
	}

	known := map[string]bool{}
	summary := hosts
	if len(summary) > llmFallbackHostCap {
		summary = summary[:llmFallbackHostCap]
	}
	var sb strings.Builder
	for _, h := range summary {
		known[h.Hostname] = true
		fmt.Fprintf(&sb, "- %s (env=%s, groups=%s, service=%s)\n", h.Hostname, h.Environment, strings.Join(h.Groups, ","), h.Service)
	}

	resp, err := generator.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: llmFallbackSystemPrompt,
		UserPrompt:   sb.String(),
		MaxTokens:    1024,
		Temperature:  0.2,
	})
	if err != nil {
		return nil
	}

	entries, ok := recoverJSONArray(resp)
	if !ok {
		return nil
	}

	var out []models.RelationSuggestion
	for _, e := range entries {
		source, _ := e["source"].(string)
		target, _ := e["target"].(string)
		if source == "" || target == "" || !known[source] || !known[target] {
			continue
		}
		reason, _ := e["reason"].(string)
		if reason == "" {
			reason = "llm fallback"
		}
		out = append(out, models.RelationSuggestion{
			Source:     source,
			Target:     target,
			Type:       relationTypeOrDefault(e["type"]),
			Confidence: llmMaxConfidence,
			Reason:     reason,
		})
	}
	return out
}

func relationTypeOrDefault(v any) models.RelationType {
	s, _ := v.(string)
	switch models.RelationType(s) {
	case models.RelationClusterMember, models.RelationDatabaseReplica, models.RelationDependsOn,
		models.RelationBackupOf, models.RelationLoadBalanced, models.RelationRelatedService:
		return models.RelationType(s)
	default:
		return models.RelationRelatedService
	}
}
