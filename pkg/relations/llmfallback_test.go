package relations

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/athena/pkg/llm"
	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMHostFallback_ParsesAndClampsConfidence(t *testing.T) {
	fake := &llm.FakeGenerator{Responses: []string{
		`[{"source":"a","target":"b","type":"depends_on","reason":"shared config"}]`,
	}}
	hosts := []HostSummary{{Hostname: "a"}, {Hostname: "b"}, {Hostname: "c"}}

	out := llmHostFallback(context.Background(), fake, hosts)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Source)
	assert.Equal(t, models.RelationDependsOn, out[0].Type)
	assert.Equal(t, llmMaxConfidence, out[0].Confidence)
}

func TestLLMHostFallback_DropsUnknownHostnames(t *testing.T) {
	fake := &llm.FakeGenerator{Responses: []string{
		`[{"source":"a","target":"ghost","type":"related_service"}]`,
	}}
	hosts := []HostSummary{{Hostname: "a"}, {Hostname: "b"}, {Hostname: "c"}}

	out := llmHostFallback(context.Background(), fake, hosts)
	assert.Empty(t, out)
}

func TestLLMHostFallback_UnknownTypeCollapsesToRelatedService(t *testing.T) {
	fake := &llm.FakeGenerator{Responses: []string{
		`[{"source":"a","target":"b","type":"mystery_type"}]`,
	}}
	hosts := []HostSummary{{Hostname: "a"}, {Hostname: "b"}, {Hostname: "c"}}

	out := llmHostFallback(context.Background(), fake, hosts)
	require.Len(t, out, 1)
	assert.Equal(t, models.RelationRelatedService, out[0].Type)
}

func TestLLMHostFallback_NilGeneratorOrTooFewHostsSkips(t *testing.T) {
	hosts := []HostSummary{{Hostname: "a"}, {Hostname: "b"}, {Hostname: "c"}}
	assert.Nil(t, llmHostFallback(context.Background(), nil, hosts))

	fake := &llm.FakeGenerator{Responses: []string{`[]`}}
	assert.Nil(t, llmHostFallback(context.Background(), fake, hosts[:2]))
}

func TestLLMHostFallback_GeneratorErrorReturnsNil(t *testing.T) {
	fake := &llm.FakeGenerator{Err: assertErr{}}
	hosts := []HostSummary{{Hostname: "a"}, {Hostname: "b"}, {Hostname: "c"}}
	assert.Nil(t, llmHostFallback(context.Background(), fake, hosts))
}

type assertErr struct{}

func (assertErr) Error() string { return "generator failure" }
