package relations

import (
	"regexp"
	"sort"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// clusterNamePattern captures a base name and its trailing numeric
// suffix: "web-01", "web01", "db-3" all share base "web"/"db".
var clusterNamePattern = regexp.MustCompile(`^(.+?)-?(\d+)$`)

// ClusterNaming groups hosts sharing a numeric-suffixed base name and
// emits cluster_member pairs. Groups above starTopologyThreshold switch
// from all-pairs to a star topology (first host as hub) to avoid O(n^2)
// suggestion counts, and drop confidence from 0.85 to 0.80 to reflect
// the weaker signal a hub-only pairing carries.
func ClusterNaming(hosts []HostSummary) []models.RelationSuggestion {
	groups := map[string][]string{}
	for _, h := range hosts {
		m := clusterNamePattern.FindStringSubmatch(h.Hostname)
		if m == nil {
			continue
		}
		base := m[1]
		groups[base] = append(groups[base], h.Hostname)
	}

	var out []models.RelationSuggestion
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)
		if len(members) > starTopologyThreshold {
			out = append(out, starPairs(members, models.RelationClusterMember, 0.80, "cluster naming convention (star)")...)
			continue
		}
		out = append(out, allPairs(members, models.RelationClusterMember, 0.85, "cluster naming convention")...)
	}
	return out
}

func allPairs(members []string, relType models.RelationType, confidence float64, reason string) []models.RelationSuggestion {
	var out []models.RelationSuggestion
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			out = append(out, models.RelationSuggestion{
				Source: members[i], Target: members[j], Type: relType, Confidence: confidence, Reason: reason,
			})
		}
	}
	return out
}

func starPairs(members []string, relType models.RelationType, confidence float64, reason string) []models.RelationSuggestion {
	hub := members[0]
	var out []models.RelationSuggestion
	for _, m := range members[1:] {
		out = append(out, models.RelationSuggestion{
			Source: hub, Target: m, Type: relType, Confidence: confidence, Reason: reason,
		})
	}
	return out
}
