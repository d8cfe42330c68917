package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverJSONArray_WholeStringIsValidJSON(t *testing.T) {
	arr, ok := recoverJSONArray(`[{"source":"a","target":"b"}]`)
	require.True(t, ok)
	require.Len(t, arr, 1)
	assert.Equal(t, "a", arr[0]["source"])
}

func TestRecoverJSONArray_RecoversFromSurroundingProse(t *testing.T) {
	response := "Here are the relations:\n[{\"source\":\"a\",\"target\":\"b\"}]\nHope that helps!"
	arr, ok := recoverJSONArray(response)
	require.True(t, ok)
	require.Len(t, arr, 1)
	assert.Equal(t, "b", arr[0]["target"])
}

func TestRecoverJSONArray_FallsBackToBoundedRegex(t *testing.T) {
	response := "prefix garbage [ not json [{\"source\":\"x\",\"target\":\"y\"}] trailing"
	arr, ok := recoverJSONArray(response)
	require.True(t, ok)
	require.Len(t, arr, 1)
	assert.Equal(t, "x", arr[0]["source"])
}

func TestRecoverJSONArray_GivesUpOnNoJSON(t *testing.T) {
	_, ok := recoverJSONArray("no json anywhere in this response")
	assert.False(t, ok)
}

func TestRecoverJSONArray_BoundsBracketAttempts(t *testing.T) {
	response := ""
	for i := 0; i < maxBracketAttempts+20; i++ {
		response += "["
	}
	_, ok := recoverJSONArray(response)
	assert.False(t, ok)
}
