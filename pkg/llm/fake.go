package llm

import (
	"context"
	"fmt"
)

// FakeGenerator is a deterministic Generator test double: each call
// returns the next entry in Responses, in order, or Err if set. It lets
// every dependent package's tests exercise their LLM-fallback branch
// without a network collaborator.
type FakeGenerator struct {
	Responses []string
	Err       error

	calls int
	Seen  []GenerateRequest
}

func (f *FakeGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	f.Seen = append(f.Seen, req)
	if f.Err != nil {
		return "", f.Err
	}
	if f.calls >= len(f.Responses) {
		return "", fmt.Errorf("fake generator: no response configured for call %d", f.calls+1)
	}
	resp := f.Responses[f.calls]
	f.calls++
	return resp, nil
}
