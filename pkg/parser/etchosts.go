package parser

import (
	"bufio"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

var skippedHostnames = map[string]bool{
	"localhost":       true,
	"broadcasthost":   true,
	"ip6-localhost":   true,
	"ip6-loopback":    true,
}

var skippedIPs = map[string]bool{
	"127.0.0.1":                 true,
	"255.255.255.255":           true,
	"::1":                       true,
	"ff02::1":                   true,
	"ff02::2":                   true,
	"ff02::3":                   true,
}

// ParseEtcHosts reads a /etc/hosts-style file: "IP hostname alias...",
// skipping loopback/broadcast addresses and their well-known names.
func ParseEtcHosts(content string) models.ParseResult {
	result := models.ParseResult{SourceType: string(FormatEtcHosts)}

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

		ip := fields[0]
		if skippedIPs[ip] {
			continue
		}
		if !isValidIP(ip) {
			result.Warnings = append(result.Warnings, "etc_hosts: line has no valid leading IP, skipped: "+line)
			continue
		}

		names := fields[1:]
		primary := ""
		var aliases []string
		for _, name := range names {
			if skippedHostnames[strings.ToLower(name)] {
				continue
			}
			if primary == "" {
				primary = name
				continue
			}
			aliases = append(aliases, name)
		}
		if primary == "" {
			continue
		}

		result.Hosts = append(result.Hosts, models.ParsedHost{
			Hostname: primary,
			IP:       ip,
			Aliases:  aliases,
			Metadata: map[string]any{},
			SSHPort:  models.DefaultSSHPort,
		})
	}

	return result
}
