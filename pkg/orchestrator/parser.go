package orchestrator

import (
	"encoding/json"
	"strings"
)

// ParsedResponse is the result of parsing one LLM turn in the
// Thought/Action/Action Input/Final Answer text format the orchestrator
// prompts for. Unlike a tool-name namespaced by MCP server, Action here
// is a flat name straight out of ToolSchema.
type ParsedResponse struct {
	Thought string

	HasAction   bool
	Action      string
	ActionInput map[string]any

	IsFinalAnswer bool
	FinalAnswer   string

	IsMalformed  bool
	ErrorMessage string
}

const (
	sectionThought     = "Thought:"
	sectionAction      = "Action:"
	sectionActionInput = "Action Input:"
	sectionFinalAnswer = "Final Answer:"
)

// ParseResponse splits text into its Thought/Action/Action Input/Final
// Answer sections. A response carrying both an Action and a Final
// Answer is treated as an action: Final Answer is meant to be terminal,
// so anything with an action after it takes priority, same as the
// teacher's ReAct parser.
func ParseResponse(text string) *ParsedResponse {
	sections := splitSections(text)

	thought := sections[sectionThought]

	if action, ok := sections[sectionAction]; ok && strings.TrimSpace(action) != "" {
		input, parseErr := parseActionInput(sections[sectionActionInput])
		if parseErr != nil {
			return &ParsedResponse{
				Thought:      thought,
				IsMalformed:  true,
				ErrorMessage: "Action Input must be a JSON object: " + parseErr.Error(),
			}
		}
		return &ParsedResponse{
			Thought:     thought,
			HasAction:   true,
			Action:      strings.TrimSpace(action),
			ActionInput: input,
		}
	}

	if final, ok := sections[sectionFinalAnswer]; ok && strings.TrimSpace(final) != "" {
		return &ParsedResponse{
			Thought:       thought,
			IsFinalAnswer: true,
			FinalAnswer:   strings.TrimSpace(final),
		}
	}

	return &ParsedResponse{
		Thought:      thought,
		IsMalformed:  true,
		ErrorMessage: "response must contain either an Action/Action Input pair or a Final Answer",
	}
}

// splitSections breaks text into a map keyed by section header,
// tolerating any order and a leading Thought with no header.
func splitSections(text string) map[string]string {
	headers := []string{sectionThought, sectionAction, sectionActionInput, sectionFinalAnswer}
	sections := make(map[string]string)

	lines := strings.Split(text, "\n")
	currentHeader := ""
	var buf strings.Builder

	flush := func() {
		if currentHeader != "" {
			sections[currentHeader] = strings.TrimSpace(buf.String())
		}
		buf.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		matchedHeader := ""
		rest := ""
		for _, h := range headers {
			if strings.HasPrefix(trimmed, h) {
				matchedHeader = h
				rest = strings.TrimSpace(strings.TrimPrefix(trimmed, h))
				break
			}
		}
		if matchedHeader != "" {
			flush()
			currentHeader = matchedHeader
			buf.WriteString(rest)
			continue
		}
		if currentHeader != "" {
			buf.WriteString("\n")
			buf.WriteString(line)
		}
	}
	flush()

	return sections
}

func parseActionInput(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
