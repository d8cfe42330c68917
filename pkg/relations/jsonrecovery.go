package relations

import (
	"encoding/json"
	"regexp"
)

// maxBracketAttempts bounds the bracket-matching recovery pass so an
// adversarial response (many stray '[' characters) can't make recovery
// quadratic in response length.
const maxBracketAttempts = 50

// boundedArrayPattern is the last-resort recovery regex: a top-level JSON
// array of objects, non-greedy so it stops at the first plausible close.
var boundedArrayPattern = regexp.MustCompile(`(?s)\[\s*\{.*?\}\s*\]`)

// recoverJSONArray tries, in order: the whole response as a JSON array;
// bracket-matching from each '[' forward to find a balanced substring;
// a bounded regex match. Each tier is tried only if the previous one
// failed to produce valid JSON.
func recoverJSONArray(response string) ([]map[string]any, bool) {
	var whole []map[string]any
	if err := json.Unmarshal([]byte(response), &whole); err == nil {
		return whole, true
	}

	if arr, ok := recoverByBracketMatching(response); ok {
		return arr, true
	}

	if m := boundedArrayPattern.FindString(response); m != "" {
		var arr []map[string]any
		if err := json.Unmarshal([]byte(m), &arr); err == nil {
			return arr, true
		}
	}

	return nil, false
}

// recoverByBracketMatching scans for '[' starting points and, for each,
// walks forward tracking bracket depth to find the matching ']', trying
// at most maxBracketAttempts starting points before giving up.
func recoverByBracketMatching(response string) ([]map[string]any, bool) {
	attempts := 0
	for start := 0; start < len(response); start++ {
		if response[start] != '[' {
			continue
		}
		attempts++
		if attempts > maxBracketAttempts {
			break
		}

		depth := 0
		for end := start; end < len(response); end++ {
			switch response[end] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					candidate := response[start : end+1]
					var arr []map[string]any
					if err := json.Unmarshal([]byte(candidate), &arr); err == nil {
						return arr, true
					}
					end = len(response)
				}
			}
		}
	}
	return nil, false
}
