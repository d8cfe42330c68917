package parser

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// ParseYAML decodes YAML into a generic value, normalizes it through
// encoding/json (YAML's map[string]interface{} keys and its numeric
// types don't match json.Unmarshal's output), and reuses ParseJSON so
// both formats share one field-mapping implementation.
func ParseYAML(content string) models.ParseResult {
	result := models.ParseResult{SourceType: string(FormatYAML)}

	var raw any
	if err := yaml.Unmarshal([]byte(content), &raw); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("yaml: %v", err))
		return result
	}

	normalized := normalizeYAML(raw)
	encoded, err := json.Marshal(normalized)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("yaml: re-encode: %v", err))
		return result
	}

	jsonResult := ParseJSON(string(encoded))
	result.Hosts = jsonResult.Hosts
	result.Errors = append(result.Errors, jsonResult.Errors...)
	result.Warnings = append(result.Warnings, jsonResult.Warnings...)
	return result
}

// normalizeYAML converts yaml.v3's map[string]interface{} (and, for
// non-string keys, map[interface{}]interface{}) into the
// map[string]interface{}/[]interface{} tree encoding/json expects.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return t
	}
}
