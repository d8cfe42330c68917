package relations

import (
	"sort"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// SharedGroup pairs hosts that share a non-generic group membership.
// Groups above starTopologyThreshold use a star topology at a lower
// confidence, same as ClusterNaming.
func SharedGroup(hosts []HostSummary) []models.RelationSuggestion {
	groups := map[string][]string{}
	for _, h := range hosts {
		for _, g := range h.Groups {
			if genericGroups[g] {
				continue
			}
			groups[g] = append(groups[g], h.Hostname)
		}
	}

	var out []models.RelationSuggestion
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)
		if len(members) > starTopologyThreshold {
			out = append(out, starPairs(members, models.RelationRelatedService, 0.55, "shared group membership (star)")...)
			continue
		}
		out = append(out, allPairs(members, models.RelationRelatedService, 0.6, "shared group membership")...)
	}
	return out
}
