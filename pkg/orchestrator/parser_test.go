package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_ActionWithJSONInput(t *testing.T) {
	text := "Thought: I should check disk space\n" +
		"Action: disk_info\n" +
		`Action Input: {"host": "web-01"}`

	parsed := ParseResponse(text)
	require.True(t, parsed.HasAction)
	assert.Equal(t, "disk_info", parsed.Action)
	assert.Equal(t, "web-01", parsed.ActionInput["host"])
	assert.Equal(t, "I should check disk space", parsed.Thought)
}

func TestParseResponse_FinalAnswer(t *testing.T) {
	text := "Thought: done investigating\nFinal Answer: nginx is healthy on web-01"

	parsed := ParseResponse(text)
	require.True(t, parsed.IsFinalAnswer)
	assert.Equal(t, "nginx is healthy on web-01", parsed.FinalAnswer)
}

func TestParseResponse_ActionTakesPriorityOverFinalAnswer(t *testing.T) {
	text := "Final Answer: maybe done\nAction: list_hosts\nAction Input: {}"

	parsed := ParseResponse(text)
	assert.True(t, parsed.HasAction)
	assert.False(t, parsed.IsFinalAnswer)
}

func TestParseResponse_MalformedWithNeitherSection(t *testing.T) {
	parsed := ParseResponse("I am just rambling with no structure")
	assert.True(t, parsed.IsMalformed)
	assert.NotEmpty(t, parsed.ErrorMessage)
}

func TestParseResponse_InvalidJSONActionInputIsMalformed(t *testing.T) {
	text := "Action: list_hosts\nAction Input: {not json}"
	parsed := ParseResponse(text)
	assert.True(t, parsed.IsMalformed)
	assert.Contains(t, parsed.ErrorMessage, "JSON")
}

func TestParseResponse_EmptyActionInputDefaultsToEmptyMap(t *testing.T) {
	text := "Action: graph_stats\nAction Input:"
	parsed := ParseResponse(text)
	require.True(t, parsed.HasAction)
	assert.Empty(t, parsed.ActionInput)
}
