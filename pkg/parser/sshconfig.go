package parser

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// ParseSSHConfig reads an OpenSSH client config: each "Host <name>" line
// (skipping wildcard patterns) opens a block of "Key value" directives
// until the next Host line.
func ParseSSHConfig(content string) models.ParseResult {
	result := models.ParseResult{SourceType: string(FormatSSHConfig)}

	var current *models.ParsedHost
	flush := func() {
		if current != nil && current.Hostname != "" {
			result.Hosts = append(result.Hosts, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key := strings.ToLower(fields[0])
		value := strings.Join(fields[1:], " ")

		if key == "host" {
			flush()
			if value == "*" || strings.ContainsAny(value, "*?") {
				continue
			}
			current = &models.ParsedHost{
				Hostname: value,
				Metadata: map[string]any{},
				SSHPort:  models.DefaultSSHPort,
			}
			continue
		}
		if current == nil {
			continue
		}

		switch key {
		case "hostname":
			if isValidIP(value) {
				current.IP = value
			} else {
				// HostName resolves to a real FQDN: that's the canonical
				// identity, and the original Host alias becomes an alias.
				current.Aliases = append(current.Aliases, current.Hostname)
				current.Hostname = value
			}
		case "port":
			if port, err := strconv.Atoi(value); err == nil {
				current.SSHPort = port
			}
		case "user":
			current.Metadata["ssh_user"] = value
		case "identityfile":
			current.Metadata["ssh_key"] = value
		}
	}
	flush()

	return result
}
