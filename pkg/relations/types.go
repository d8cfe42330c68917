// Package relations infers HostRelation edges from an inventory: naming
// conventions, replica pairs, shared groups, and service-dependency
// patterns, with a bounded LLM fallback when heuristics come up short.
package relations

import "github.com/codeready-toolchain/athena/pkg/models"

// HostSummary is the minimal view the classifier needs. Most heuristics
// only ever see a hostname, which is why this isn't models.Host: callers
// servicing a freshly-parsed-but-not-yet-persisted batch can run
// classification before any host has an ID.
type HostSummary struct {
	Hostname    string
	Environment string
	Groups      []string
	Role        string
	Service     string
}

// genericGroups are excluded from shared-group pairing: they describe
// "every host" rather than a meaningful cohort.
var genericGroups = map[string]bool{
	"all":       true,
	"ungrouped": true,
	"servers":   true,
	"hosts":     true,
}

// starTopologyThreshold is the group-size cutoff above which an
// all-pairs union would be quadratic; above it, heuristics fall back to
// a single hub host instead.
const starTopologyThreshold = 20

// Options configures a single classification run.
type Options struct {
	MinConfidence     float64
	UseLLM            bool
	ExistingRelations []models.RelationSuggestion
}

// DefaultOptions matches spec's stated defaults: min_confidence 0.5, LLM
// fallback off unless explicitly requested.
func DefaultOptions() Options {
	return Options{MinConfidence: 0.5}
}
