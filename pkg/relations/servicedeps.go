package relations

import (
	"sort"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// serviceDepTiers lists dependency chains by role/service substring, each
// tier depending on the next. A host matches a tier if its Role or Service
// field contains any of the listed terms.
var serviceDepTiers = []struct {
	terms []string
}{
	{terms: []string{"web", "frontend", "ui"}},
	{terms: []string{"api", "backend", "app"}},
	{terms: []string{"db", "database", "mysql", "postgres", "mongo"}},
}

// cacheDepTerms and queueDepTerms are side-branches off the "app" tier
// rather than part of the main web->api->db chain.
var cacheDepTerms = []string{"cache", "redis", "memcached"}
var queueDepTerms = []string{"queue", "rabbitmq", "kafka"}
var appTierTerms = []string{"app", "backend"}

// maxDepRelationsPerPair caps how many depends_on edges a single
// upstream/downstream tier pairing produces before falling back to a
// star topology, matching the bound ClusterNaming and SharedGroup apply.
const maxDepRelationsPerPair = 5

// ServiceDependencies infers depends_on edges from role/service naming:
// web/frontend tiers depend on api/backend tiers, which depend on
// database tiers; app/backend tiers additionally depend on any
// cache or queue hosts present.
func ServiceDependencies(hosts []HostSummary) []models.RelationSuggestion {
	var out []models.RelationSuggestion
	for i := 0; i < len(serviceDepTiers)-1; i++ {
		upstream := matchingHosts(hosts, serviceDepTiers[i].terms)
		downstream := matchingHosts(hosts, serviceDepTiers[i+1].terms)
		out = append(out, pairTiers(upstream, downstream, "service tier naming convention")...)
	}

	appHosts := matchingHosts(hosts, appTierTerms)
	out = append(out, pairTiers(appHosts, matchingHosts(hosts, cacheDepTerms), "cache dependency naming convention")...)
	out = append(out, pairTiers(appHosts, matchingHosts(hosts, queueDepTerms), "queue dependency naming convention")...)
	return out
}

func matchingHosts(hosts []HostSummary, terms []string) []string {
	var out []string
	for _, h := range hosts {
		haystack := strings.ToLower(h.Role + " " + h.Service + " " + h.Hostname)
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				out = append(out, h.Hostname)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// pairTiers emits up to maxDepRelationsPerPair depends_on edges per
// upstream host; once an upstream host would exceed that bound against
// every downstream host, it falls back to depending on only the first
// maxDepRelationsPerPair downstream hosts (a star-like truncation rather
// than a full cross product).
func pairTiers(upstream, downstream []string, reason string) []models.RelationSuggestion {
	if len(upstream) == 0 || len(downstream) == 0 {
		return nil
	}
	targets := downstream
	confidence := 0.5
	if len(downstream) > maxDepRelationsPerPair {
		targets = downstream[:maxDepRelationsPerPair]
		confidence = 0.3
	}

	var out []models.RelationSuggestion
	for _, u := range upstream {
		for _, d := range targets {
			if u == d {
				continue
			}
			out = append(out, models.RelationSuggestion{
				Source: u, Target: d, Type: models.RelationDependsOn, Confidence: confidence, Reason: reason,
			})
		}
	}
	return out
}
