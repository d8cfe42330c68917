package parser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/athena/pkg/llm"
)

func TestParse_LLMFallbackDisabledByDefault(t *testing.T) {
	p := New(nil, Config{})
	result := p.Parse(context.Background(), "", "this is just some prose about servers", "")

	assert.Empty(t, result.Hosts)
	require.NotEmpty(t, result.Errors)
}

func TestParse_LLMFallbackSucceedsWhenEnabledAndAcknowledged(t *testing.T) {
	fake := &llm.FakeGenerator{Responses: []string{`[{"hostname":"web-01","ip":"10.0.0.1"}]`}}
	p := New(fake, Config{
		EnableLLMFallback:      true,
		ComplianceAcknowledged: true,
		TruncateLimit:          8000,
		Timeout:                time.Second,
	})

	result := p.Parse(context.Background(), "", "totally ambiguous blob of text with no recognizable shape ::: {{{", "")
	require.Empty(t, result.Errors)
	require.Len(t, result.Hosts, 1)
	assert.Equal(t, "web-01", result.Hosts[0].Hostname)
}

func TestParse_LLMFallbackRequiresBothFlags(t *testing.T) {
	fake := &llm.FakeGenerator{Responses: []string{`[{"hostname":"web-01"}]`}}
	p := New(fake, Config{EnableLLMFallback: true, ComplianceAcknowledged: false})

	result := p.Parse(context.Background(), "", "ambiguous content", "")
	assert.Empty(t, result.Hosts)
	assert.NotEmpty(t, result.Errors)
}

func TestParse_LLMFallbackTimesOut(t *testing.T) {
	fake := &llm.FakeGenerator{Responses: []string{`[{"hostname":"web-01"}]`}}
	p := New(fake, Config{
		EnableLLMFallback:      true,
		ComplianceAcknowledged: true,
		TruncateLimit:          8000,
		Timeout:                time.Nanosecond,
	})

	result := p.Parse(context.Background(), "", "ambiguous content", "")
	assert.Empty(t, result.Hosts)
	require.NotEmpty(t, result.Errors)
}

func TestParse_LLMFallbackRedactsSecretsBeforeSubmission(t *testing.T) {
	fake := &llm.FakeGenerator{Responses: []string{`[{"hostname":"web-01"}]`}}
	p := New(fake, Config{
		EnableLLMFallback:      true,
		ComplianceAcknowledged: true,
		TruncateLimit:          8000,
		Timeout:                time.Second,
	})

	p.Parse(context.Background(), "", "api_key: sk-verysecretvalue1234567890 host web-01", "")
	require.Len(t, fake.Seen, 1)
	assert.NotContains(t, fake.Seen[0].UserPrompt, "sk-verysecretvalue1234567890")
}
