package parser

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// ParseTXT reads one host per line as "IP host" or "host IP", accepting
// either token order. A line where neither token validates as an IPv4 or
// IPv6 address is kept as a hostname-only entry with a warning.
func ParseTXT(content string) models.ParseResult {
	result := models.ParseResult{SourceType: string(FormatTXT)}

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		host := models.ParsedHost{Metadata: map[string]any{}, SSHPort: models.DefaultSSHPort}
		switch len(fields) {
		case 1:
			host.Hostname = fields[0]
			result.Warnings = append(result.Warnings, fmt.Sprintf("txt: line %d has no IP token", lineNo))
		case 2:
			a, b := fields[0], fields[1]
			switch {
			case isValidIP(a):
				host.IP, host.Hostname = a, b
			case isValidIP(b):
				host.Hostname, host.IP = a, b
			default:
				host.Hostname = a
				host.Aliases = []string{b}
				result.Warnings = append(result.Warnings, fmt.Sprintf("txt: line %d has no valid IP token", lineNo))
			}
		default:
			result.Warnings = append(result.Warnings, fmt.Sprintf("txt: line %d has unexpected shape, skipped", lineNo))
			continue
		}

		result.Hosts = append(result.Hosts, host)
	}

	return result
}
