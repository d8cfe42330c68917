package triage

import "github.com/codeready-toolchain/athena/pkg/models"

// priorityKeywords are checked P0 first, then P1, then P2; anything
// matching none defaults to P3. Grounded on the literal examples
// spec.md §4.6 gives for each tier, extended with the synonyms the
// original Python signal detector's docstring names for the same tiers.
var priorityKeywords = map[models.Priority][]string{
	models.PriorityP0: {
		"down", "outage", "data loss", "breach", "security incident",
		"production down", "critical failure", "complete failure", "total failure",
		"cannot access", "unreachable", "offline", "crashed",
	},
	models.PriorityP1: {
		"degraded", "vulnerability", "imminent", "failing", "urgent",
		"service degraded", "partial outage", "intermittent failure", "error rate",
	},
	models.PriorityP2: {
		"slow", "high latency", "warning", "performance", "elevated",
		"non-critical", "minor issue",
	},
}

// intentKeywords classify what the user wants: an information request,
// an executed change, or an investigation.
var intentKeywords = map[models.Intent][]string{
	models.IntentQuery: {
		"list", "show", "what is", "what are", "tell me", "display", "get status",
	},
	models.IntentAction: {
		"restart", "stop", "start", "check", "execute", "run", "install", "deploy", "fix", "update",
	},
	models.IntentAnalysis: {
		"why", "diagnose", "troubleshoot", "analyze", "investigate", "root cause",
	},
}

// environmentKeywords maps a detected substring to its normalized
// environment name; prod intentionally lists the widest set of common
// spellings since it's the one that floors priority.
var environmentKeywords = map[string]string{
	"production": "prod",
	"prod":       "prod",
	"staging":    "staging",
	"stage":      "staging",
	"preprod":    "preprod",
	"pre-prod":   "preprod",
	"dev":        "dev",
	"development": "dev",
}
