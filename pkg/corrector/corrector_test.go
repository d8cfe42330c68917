package corrector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/athena/pkg/executor"
	"github.com/codeready-toolchain/athena/pkg/llm"
)

func TestExecuteWithRetry_SucceedsOnFirstAttemptNoRetryInfo(t *testing.T) {
	c := New(executor.New(), &llm.FakeGenerator{}, nil)
	result, info := c.ExecuteWithRetry(context.Background(), "local", "echo ok", RetryContext{}, 0, 0)
	require.True(t, result.Success)
	assert.Nil(t, info)
}

func TestExecuteWithRetry_CorrectsAndSucceedsOnSecondAttempt(t *testing.T) {
	gen := &llm.FakeGenerator{Responses: []string{"echo fixed"}}
	c := New(executor.New(), gen, nil)

	result, info := c.ExecuteWithRetry(context.Background(), "local", "exit 1", RetryContext{Goal: "print something"}, 2, time.Second)
	require.True(t, result.Success)
	require.NotNil(t, info)
	assert.Equal(t, 2, info.Attempts)
	require.Len(t, info.Corrections, 1)
	assert.Equal(t, "exit 1", info.Corrections[0].Failed)
	assert.Equal(t, "echo fixed", info.Corrections[0].Fix)
}

func TestExecuteWithRetry_ExhaustsRetriesReturningLastResult(t *testing.T) {
	gen := &llm.FakeGenerator{Responses: []string{"exit 2", "exit 3"}}
	c := New(executor.New(), gen, nil)

	result, info := c.ExecuteWithRetry(context.Background(), "local", "exit 1", RetryContext{}, 2, time.Second)
	require.False(t, result.Success)
	require.NotNil(t, info)
	assert.Equal(t, 3, info.Attempts)
	assert.Len(t, info.Corrections, 2)
}

func TestExecuteWithRetry_StopsWhenSuggestionMatchesCurrentCommand(t *testing.T) {
	gen := &llm.FakeGenerator{Responses: []string{"exit 1"}}
	c := New(executor.New(), gen, nil)

	result, info := c.ExecuteWithRetry(context.Background(), "local", "exit 1", RetryContext{}, 2, time.Second)
	require.False(t, result.Success)
	require.NotNil(t, info)
	assert.Equal(t, 1, info.Attempts)
	assert.Empty(t, info.Corrections)
}

func TestExecuteWithRetry_ElevationFailureSkipsCorrectionEntirely(t *testing.T) {
	gen := &llm.FakeGenerator{Responses: []string{"echo should-not-be-used"}}
	c := New(executor.New(), gen, nil)

	result, info := c.ExecuteWithRetry(context.Background(), "local", "echo 'sudo: a password is required' 1>&2; exit 1", RetryContext{}, 2, time.Second)
	require.False(t, result.Success)
	require.NotNil(t, info)
	assert.Equal(t, 1, info.Attempts)
	assert.Empty(t, info.Corrections)
	assert.Empty(t, gen.Seen)
}

func TestExtractCommand_RejectsElevationPrefixesAndSkipsMarkdown(t *testing.T) {
	response := "```\n# a comment\nsudo systemctl restart nginx\nsystemctl restart nginx\n```"
	assert.Equal(t, "systemctl restart nginx", extractCommand(response))
}

func TestExtractCommand_RejectsAllElevationVariants(t *testing.T) {
	for _, prefix := range []string{"sudo ", "su ", "doas ", "su-"} {
		response := prefix + "rm -rf /tmp/x\nls -la"
		assert.Equal(t, "ls -la", extractCommand(response))
	}
}

func TestExtractCommand_WholeResponseIsElevatedReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", extractCommand("sudo systemctl restart nginx"))
}

func TestExecuteWithRetry_SuggestionIsPureElevationCommandNeverExecutes(t *testing.T) {
	gen := &llm.FakeGenerator{Responses: []string{"sudo systemctl restart nginx"}}
	c := New(executor.New(), gen, nil)

	result, info := c.ExecuteWithRetry(context.Background(), "local", "systemctl restartt nginx", RetryContext{}, 2, time.Second)
	require.False(t, result.Success)
	require.NotNil(t, info)
	assert.Equal(t, 1, info.Attempts)
	assert.Empty(t, info.Corrections, "an elevation-only suggestion must not be recorded as a correction or executed")
}

func TestIsElevationFailure(t *testing.T) {
	assert.True(t, isElevationFailure("sudo: a password is required", "sudo systemctl restart nginx"))
	assert.True(t, isElevationFailure("Password: authentication failed for sudo", "systemctl restart nginx"))
	assert.False(t, isElevationFailure("command not found", "mysqlx status"))
}
