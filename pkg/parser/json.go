package parser

import (
	"encoding/json"
	"fmt"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// ParseJSON accepts four shapes: a top-level array of host objects, an
// object with a "hosts" array, an object-of-objects keyed by hostname, or
// a single host object.
func ParseJSON(content string) models.ParseResult {
	result := models.ParseResult{SourceType: string(FormatJSON)}

	var raw any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("json: %v", err))
		return result
	}

	switch v := raw.(type) {
	case []any:
		for i, item := range v {
			host, ok := hostFromAny(item)
			if !ok {
				result.Warnings = append(result.Warnings, fmt.Sprintf("json: entry %d is not an object, skipped", i))
				continue
			}
			appendIfNamed(&result, host)
		}
	case map[string]any:
		if hostsVal, ok := v["hosts"]; ok {
			if list, ok := hostsVal.([]any); ok {
				for i, item := range list {
					host, ok := hostFromAny(item)
					if !ok {
						result.Warnings = append(result.Warnings, fmt.Sprintf("json: hosts[%d] is not an object, skipped", i))
						continue
					}
					appendIfNamed(&result, host)
				}
				return result
			}
		}
		if looksLikeObjectOfObjects(v) {
			for key, item := range v {
				obj, ok := item.(map[string]any)
				if !ok {
					continue
				}
				host := hostFromMap(obj)
				if host.Hostname == "" {
					host.Hostname = key
				}
				appendIfNamed(&result, host)
			}
			return result
		}
		host := hostFromMap(v)
		appendIfNamed(&result, host)
	default:
		result.Errors = append(result.Errors, "json: top-level value is neither an array nor an object")
	}

	return result
}

// looksLikeObjectOfObjects distinguishes {hostname: {...}, hostname2:
// {...}} from a single host object by checking every value is itself a
// map — a single host's field values are scalars or arrays, not maps.
func looksLikeObjectOfObjects(v map[string]any) bool {
	if len(v) == 0 {
		return false
	}
	for _, val := range v {
		if _, ok := val.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func hostFromAny(item any) (models.ParsedHost, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return models.ParsedHost{}, false
	}
	return hostFromMap(obj), true
}

func hostFromMap(obj map[string]any) models.ParsedHost {
	host := models.ParsedHost{Metadata: map[string]any{}, SSHPort: models.DefaultSSHPort}
	for key, val := range obj {
		switch classifyColumn(key) {
		case "hostname":
			host.Hostname = stringOf(val)
		case "ip":
			host.IP = stringOf(val)
		case "environment":
			host.Environment = stringOf(val)
		case "groups":
			host.Groups = stringListOf(val)
		case "aliases":
			host.Aliases = stringListOf(val)
		case "role":
			host.Role = stringOf(val)
		case "service":
			host.Service = stringOf(val)
		case "ssh_port":
			host.SSHPort = intOf(val, models.DefaultSSHPort)
		default:
			host.Metadata[key] = val
		}
	}
	return host
}

func appendIfNamed(result *models.ParseResult, host models.ParsedHost) {
	if host.Hostname == "" {
		result.Warnings = append(result.Warnings, "json: entry missing hostname, skipped")
		return
	}
	result.Hosts = append(result.Hosts, host)
}

func stringOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return ""
	}
}

func stringListOf(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringOf(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return splitCommaList(t)
	default:
		return nil
	}
}

func intOf(v any, fallback int) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		var n int
		if _, err := fmt.Sscanf(t, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
