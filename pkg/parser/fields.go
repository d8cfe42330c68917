package parser

import "strings"

var hostnameCandidates = []string{"hostname", "host", "name", "server", "fqdn", "node", "machine"}
var ipCandidates = []string{"ip", "ip_address", "ipaddress", "address", "addr", "ansible_host"}
var environmentCandidates = []string{"environment", "env", "stage", "tier"}

func matchCandidate(key string, candidates []string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, c := range candidates {
		if key == c {
			return true
		}
	}
	return false
}

// classifyColumn returns which well-known ParsedHost field a column name
// maps to, or "" if it should fall through to metadata.
func classifyColumn(key string) string {
	switch {
	case matchCandidate(key, hostnameCandidates):
		return "hostname"
	case matchCandidate(key, ipCandidates):
		return "ip"
	case matchCandidate(key, environmentCandidates):
		return "environment"
	case strings.EqualFold(key, "groups"):
		return "groups"
	case strings.EqualFold(key, "aliases"):
		return "aliases"
	case strings.EqualFold(key, "role"):
		return "role"
	case strings.EqualFold(key, "service"):
		return "service"
	case strings.EqualFold(key, "ssh_port") || strings.EqualFold(key, "port"):
		return "ssh_port"
	default:
		return ""
	}
}

func splitCommaList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
