// Package parser turns a file or a blob of raw text into the normalized
// ParsedHost records the inventory store expects. Format detection and
// every structured parser are pure and local; only the final fallback
// path leaves the process, and only when explicitly enabled.
package parser

import (
	"net/netip"
	"path/filepath"
	"strings"
)

// Format identifies which parser handled (or should handle) a blob.
type Format string

// Recognized formats, in the priority order format detection tries them.
const (
	FormatJSON      Format = "json"
	FormatYAML      Format = "yaml"
	FormatCSV       Format = "csv"
	FormatINI       Format = "ini"
	FormatEtcHosts  Format = "etc_hosts"
	FormatSSHConfig Format = "ssh_config"
	FormatTXT       Format = "txt"
)

var extensionFormats = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".csv":  FormatCSV,
	".ini":  FormatINI,
	".cfg":  FormatINI,
	".txt":  FormatTXT,
}

// DetectFormat decides which parser should handle content, given an
// optional file path (for extension sniffing) and an optional explicit
// hint that short-circuits detection entirely.
func DetectFormat(path string, content string, hint string) Format {
	if hint != "" {
		return Format(hint)
	}
	if path != "" {
		if f, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]; ok {
			return f
		}
	}

	trimmed := strings.TrimSpace(content)
	if looksLikeJSON(trimmed) {
		return FormatJSON
	}
	if looksLikeYAML(trimmed) {
		return FormatYAML
	}
	if looksLikeCSV(content) {
		return FormatCSV
	}
	if looksLikeINI(content) {
		return FormatINI
	}
	if looksLikeEtcHosts(content) {
		return FormatEtcHosts
	}
	if looksLikeSSHConfig(content) {
		return FormatSSHConfig
	}
	return FormatTXT
}

func looksLikeJSON(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	return (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
}

func looksLikeYAML(trimmed string) bool {
	if strings.HasPrefix(trimmed, "---") {
		return true
	}
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		return strings.Contains(line, ":")
	}
	return false
}

func looksLikeCSV(content string) bool {
	lines := nonEmptyLines(content)
	if len(lines) < 2 {
		return false
	}
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	first := strings.Count(lines[0], ",")
	if first == 0 {
		return false
	}
	for _, line := range lines[1:limit] {
		if strings.Count(line, ",") != first {
			return false
		}
	}
	return true
}

func looksLikeINI(content string) bool {
	for _, line := range nonEmptyLines(content) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			return true
		}
	}
	return false
}

func looksLikeEtcHosts(content string) bool {
	for _, line := range nonEmptyLines(content) {
		fields := strings.Fields(stripComment(line))
		if len(fields) == 0 {
			continue
		}
		if addr, err := netip.ParseAddr(fields[0]); err == nil && addr.Is4() {
			return true
		}
	}
	return false
}

func looksLikeSSHConfig(content string) bool {
	for _, line := range nonEmptyLines(content) {
		fields := strings.Fields(line)
		if len(fields) >= 2 && strings.EqualFold(fields[0], "Host") {
			return true
		}
	}
	return false
}

func nonEmptyLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func stripComment(line string) string {
	if idx := strings.Index(line, "#"); idx >= 0 {
		return line[:idx]
	}
	return line
}

// isValidIP reports whether s parses as an IPv4 or IPv6 address, using
// the standard library's validating parser rather than a naive regex.
func isValidIP(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}
