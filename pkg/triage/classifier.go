// Package triage classifies an incoming operator request's priority and
// intent in well under the spec's 10ms budget: three keyword-only
// detection layers (priority, environment, impact) combine into one
// PriorityResult, with an optional pattern-store-backed smart
// classifier layered on top for repeat queries.
package triage

import (
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// Classify runs the keyword/environment/impact detectors over query and
// folds in optional system state, returning a complete PriorityResult.
// state may be nil when no live system metrics are available.
func Classify(query string, state *models.SystemState) models.PriorityResult {
	sig := detectAll(query)

	priority := sig.keywordPriority
	confidence := sig.keywordConfidence
	allSignals := append([]string{}, sig.keywordSignals...)

	if sig.environment != "" {
		allSignals = append(allSignals, "env:"+sig.environment)
		if sig.envMinPriority != nil && priority.Rank() > sig.envMinPriority.Rank() {
			priority = *sig.envMinPriority
			allSignals = append(allSignals, "prod_escalation")
			confidence = capConfidence(confidence + 0.1)
		}
	}

	if sig.impactMultiplier > 1.0 {
		allSignals = append(allSignals, "impact")
		if sig.impactMultiplier >= 1.5 && priority.Rank() > models.PriorityP0.Rank() {
			priority = escalateOneLevel(priority)
			confidence = capConfidence(confidence + 0.1)
		}
	}

	if state != nil {
		if statePriority, ok := checkSystemState(state); ok && statePriority.Rank() < priority.Rank() {
			priority = statePriority
			allSignals = append(allSignals, "system_state:"+string(statePriority))
			confidence = maxFloat(confidence, 0.85)
		}
	}

	return models.PriorityResult{
		Priority:            priority,
		Intent:              sig.intent,
		Confidence:          confidence,
		Signals:             allSignals,
		Reasoning:           buildReasoning(priority, sig.environment, sig.impactMultiplier, sig.keywordSignals),
		EscalationRequired:  priority == models.PriorityP0,
		EnvironmentDetected: sig.environment,
		ServiceDetected:     sig.service,
		HostDetected:        sig.host,
	}
}

// checkSystemState maps system metrics to a forced priority floor, most
// severe condition first: an inaccessible or critically-down host is
// always P0, then disk/memory/load thresholds escalate to P1 or P2.
func checkSystemState(state *models.SystemState) (models.Priority, bool) {
	if state.HostAccessible != nil && !*state.HostAccessible {
		return models.PriorityP0, true
	}
	if p, ok := thresholdPriority(state.DiskUsedPercent, 95, 90); ok {
		return p, true
	}
	if p, ok := thresholdPriority(state.MemoryUsedPercent, 95, 90); ok {
		return p, true
	}
	if state.LoadAverage != nil {
		perCPU := *state.LoadAverage
		if state.CPUCount > 0 {
			perCPU = *state.LoadAverage / float64(state.CPUCount)
		}
		if perCPU > 2.0 {
			return models.PriorityP1, true
		}
		if perCPU > 1.0 {
			return models.PriorityP2, true
		}
	}
	return "", false
}

func thresholdPriority(v *float64, p1Threshold, p2Threshold float64) (models.Priority, bool) {
	if v == nil {
		return "", false
	}
	if *v > p1Threshold {
		return models.PriorityP1, true
	}
	if *v > p2Threshold {
		return models.PriorityP2, true
	}
	return "", false
}

func escalateOneLevel(p models.Priority) models.Priority {
	switch p {
	case models.PriorityP3:
		return models.PriorityP2
	case models.PriorityP2:
		return models.PriorityP1
	case models.PriorityP1:
		return models.PriorityP0
	default:
		return p
	}
}

func capConfidence(c float64) float64 {
	if c > 0.95 {
		return 0.95
	}
	return c
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func buildReasoning(priority models.Priority, environment string, impact float64, keywordSignals []string) string {
	var parts []string
	switch priority {
	case models.PriorityP0:
		parts = append(parts, "Critical indicators detected")
	case models.PriorityP1:
		parts = append(parts, "Urgent indicators detected")
	case models.PriorityP2:
		parts = append(parts, "Performance/non-critical indicators")
	default:
		parts = append(parts, "Standard priority request")
	}

	if environment == "prod" {
		parts = append(parts, "production environment")
	} else if environment == "staging" || environment == "preprod" {
		parts = append(parts, "staging environment")
	}

	if impact > 1.0 {
		parts = append(parts, "high impact detected")
	}

	if len(keywordSignals) > 0 {
		n := len(keywordSignals)
		if n > 2 {
			n = 2
		}
		keywords := make([]string, 0, n)
		for _, s := range keywordSignals[:n] {
			if idx := strings.Index(s, ":"); idx >= 0 {
				keywords = append(keywords, s[idx+1:])
			}
		}
		if len(keywords) > 0 {
			parts = append(parts, "keywords: "+strings.Join(keywords, ", "))
		}
	}

	return strings.Join(parts, "; ")
}
