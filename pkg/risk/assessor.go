// Package risk classifies a shell command string into an advisory risk
// level before the executor runs it. The classifier is a pure function
// over the command's leading tokens — no I/O, no host context — so it
// can run synchronously on the orchestrator's hot path.
package risk

import (
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// lowPrefixes, moderatePrefixes, and criticalPrefixes are matched longest
// prefix first within each list and checked in low, moderate, critical
// order so a more specific critical prefix ("systemctl restart") always
// wins over a shorter moderate one that happens to also match
// ("systemctl reload" vs "systemctl ...").
var lowPrefixes = []string{
	"systemctl status", "ps", "df", "cat", "ls", "grep", "uname", "hostname", "uptime", "free",
}

var moderatePrefixes = []string{
	"systemctl reload", "chmod", "chown", "touch", "mkdir",
}

var criticalPrefixes = []string{
	"systemctl restart", "systemctl stop", "rm", "iptables", "shutdown", "reboot", "dd", "mkfs",
}

// Assess classifies command by its leading token(s) against the three
// prefix lists, checked critical first so "systemctl restart" is never
// shadowed by a looser "systemctl" match. A command matching none of the
// lists defaults to moderate rather than low, since an unrecognized
// command is not known to be safe.
func Assess(command string) models.RiskAssessment {
	normalized := strings.TrimSpace(command)

	if prefix, ok := matchPrefix(normalized, criticalPrefixes); ok {
		return models.RiskAssessment{Level: models.RiskCritical, Reason: "matches critical prefix \"" + prefix + "\""}
	}
	if prefix, ok := matchPrefix(normalized, moderatePrefixes); ok {
		return models.RiskAssessment{Level: models.RiskModerate, Reason: "matches moderate prefix \"" + prefix + "\""}
	}
	if prefix, ok := matchPrefix(normalized, lowPrefixes); ok {
		return models.RiskAssessment{Level: models.RiskLow, Reason: "matches low prefix \"" + prefix + "\""}
	}
	return models.RiskAssessment{Level: models.RiskModerate, Reason: "unrecognized command, defaulting to moderate"}
}

// matchPrefix reports whether command starts with any of prefixes,
// returning the longest matching one (so "systemctl status" beats a
// hypothetical bare "systemctl" entry in the same list).
func matchPrefix(command string, prefixes []string) (string, bool) {
	best := ""
	for _, p := range prefixes {
		if command == p || strings.HasPrefix(command, p+" ") {
			if len(p) > len(best) {
				best = p
			}
		}
	}
	return best, best != ""
}
