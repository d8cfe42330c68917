package relations

import (
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// replicaTermPairs lists the first-occurrence term substitutions that
// indicate a primary/replica pair.
var replicaTermPairs = [][2]string{
	{"master", "slave"},
	{"master", "replica"},
	{"primary", "secondary"},
	{"leader", "follower"},
	{"main", "backup"},
}

// ReplicaDetection finds hostname pairs that differ only by swapping one
// term in replicaTermPairs for its counterpart, e.g. "db-master-01" and
// "db-slave-01".
func ReplicaDetection(hosts []HostSummary) []models.RelationSuggestion {
	var out []models.RelationSuggestion
	seen := map[string]bool{}

	for i := 0; i < len(hosts); i++ {
		for j := 0; j < len(hosts); j++ {
			if i == j {
				continue
			}
			a, b := hosts[i].Hostname, hosts[j].Hostname
			for _, pair := range replicaTermPairs {
				if swapsToMatch(a, b, pair[0], pair[1]) {
					key := a + "|" + b
					if seen[key] {
						continue
					}
					seen[key] = true
					out = append(out, models.RelationSuggestion{
						Source: a, Target: b, Type: models.RelationDatabaseReplica,
						Confidence: 0.9, Reason: "replica naming convention (" + pair[0] + "/" + pair[1] + ")",
					})
				}
			}
		}
	}
	return out
}

// swapsToMatch reports whether replacing the first occurrence of from in
// a with to yields b exactly.
func swapsToMatch(a, b, from, to string) bool {
	lowerA := strings.ToLower(a)
	idx := strings.Index(lowerA, from)
	if idx < 0 {
		return false
	}
	candidate := a[:idx] + to + a[idx+len(from):]
	return strings.EqualFold(candidate, b)
}
