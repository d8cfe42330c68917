// Package llm defines the narrow boundary every LLM-assisted component
// (the parser's format fallback, the relation classifier, the
// conversation summarizer, the orchestrator) calls through. No concrete
// network client ships here: provider wiring, auth, and streaming
// transport are out of scope, and tests exercise a deterministic fake.
package llm

import "context"

// GenerateRequest is one turn of a single-shot completion. SystemPrompt
// and UserPrompt are passed separately so callers never have to
// interpolate untrusted content into a combined string themselves.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
}

// Generator produces one completion for one request. Implementations are
// expected to honor ctx cancellation; callers that need a hard timeout
// wrap the call in context.WithTimeout rather than relying on the
// implementation to enforce one.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
