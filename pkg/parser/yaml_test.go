package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML_HostsList(t *testing.T) {
	content := "hosts:\n  - hostname: web-01\n    ip: 10.0.0.1\n    environment: prod\n  - hostname: web-02\n"
	result := ParseYAML(content)
	require.Empty(t, result.Errors)
	require.Len(t, result.Hosts, 2)
	assert.Equal(t, "10.0.0.1", result.Hosts[0].IP)
}

func TestParseYAML_InvalidYAML(t *testing.T) {
	result := ParseYAML("hosts: [unterminated")
	assert.NotEmpty(t, result.Errors)
}
