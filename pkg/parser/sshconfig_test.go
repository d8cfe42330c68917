package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSSHConfig_BasicBlock(t *testing.T) {
	content := "Host web-01\n  HostName 10.0.0.1\n  User deploy\n  Port 2222\n  IdentityFile ~/.ssh/id_rsa\n"
	result := ParseSSHConfig(content)

	require.Len(t, result.Hosts, 1)
	host := result.Hosts[0]
	assert.Equal(t, "web-01", host.Hostname)
	assert.Equal(t, "10.0.0.1", host.IP)
	assert.Equal(t, 2222, host.SSHPort)
	assert.Equal(t, "deploy", host.Metadata["ssh_user"])
	assert.Equal(t, "~/.ssh/id_rsa", host.Metadata["ssh_key"])
}

func TestParseSSHConfig_HostNameFQDNMovesAliasOriginal(t *testing.T) {
	content := "Host web-alias\n  HostName web-01.internal.example.com\n"
	result := ParseSSHConfig(content)

	require.Len(t, result.Hosts, 1)
	host := result.Hosts[0]
	assert.Equal(t, "web-01.internal.example.com", host.Hostname)
	assert.Equal(t, []string{"web-alias"}, host.Aliases)
}

func TestParseSSHConfig_WildcardHostSkipped(t *testing.T) {
	content := "Host *\n  User deploy\n\nHost web-01\n  HostName 10.0.0.1\n"
	result := ParseSSHConfig(content)
	require.Len(t, result.Hosts, 1)
	assert.Equal(t, "web-01", result.Hosts[0].Hostname)
}
