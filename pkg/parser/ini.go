package parser

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

var environmentSubstrings = []string{"prod", "staging", "stage", "dev", "test"}

// ParseINI reads an Ansible-style inventory: bracketed section headers
// introduce a group, and each following non-blank line is
// "hostname k=v k=v ...". No third-party INI/ansible-inventory parser
// appears anywhere in the example pack, so this is hand-rolled over
// bufio.Scanner — a justified stdlib exception (see DESIGN.md).
func ParseINI(content string) models.ParseResult {
	result := models.ParseResult{SourceType: string(FormatINI)}

	currentGroup := ""
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentGroup = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		host := models.ParsedHost{
			Hostname: fields[0],
			Metadata: map[string]any{},
			SSHPort:  models.DefaultSSHPort,
		}
		if currentGroup != "" {
			host.Groups = []string{currentGroup}
			host.Environment = inferEnvironment(currentGroup)
		}

		for _, kv := range fields[1:] {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				continue
			}
			switch strings.ToLower(key) {
			case "ansible_host":
				host.IP = value
			case "ansible_port":
				if port, err := strconv.Atoi(value); err == nil {
					host.SSHPort = port
				}
			case "ansible_user":
				host.Metadata["ssh_user"] = value
			default:
				host.Metadata[key] = value
			}
		}

		result.Hosts = append(result.Hosts, host)
	}

	return result
}

func inferEnvironment(group string) string {
	lower := strings.ToLower(group)
	for _, env := range environmentSubstrings {
		if strings.Contains(lower, env) {
			return env
		}
	}
	return ""
}
