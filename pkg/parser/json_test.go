package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Array(t *testing.T) {
	result := ParseJSON(`[{"hostname":"web-01","ip":"10.0.0.1"},{"host":"web-02"}]`)
	require.Empty(t, result.Errors)
	require.Len(t, result.Hosts, 2)
	assert.Equal(t, "web-01", result.Hosts[0].Hostname)
	assert.Equal(t, "web-02", result.Hosts[1].Hostname)
}

func TestParseJSON_HostsKey(t *testing.T) {
	result := ParseJSON(`{"hosts":[{"hostname":"web-01"}]}`)
	require.Len(t, result.Hosts, 1)
}

func TestParseJSON_ObjectOfObjects(t *testing.T) {
	result := ParseJSON(`{"web-01":{"ip":"10.0.0.1"},"web-02":{"ip":"10.0.0.2"}}`)
	require.Len(t, result.Hosts, 2)
	names := map[string]bool{}
	for _, h := range result.Hosts {
		names[h.Hostname] = true
	}
	assert.True(t, names["web-01"])
	assert.True(t, names["web-02"])
}

func TestParseJSON_SingleHostObject(t *testing.T) {
	result := ParseJSON(`{"hostname":"web-01","ip":"10.0.0.1","ssh_port":2222}`)
	require.Len(t, result.Hosts, 1)
	assert.Equal(t, 2222, result.Hosts[0].SSHPort)
}

func TestParseJSON_UnknownFieldsBecomeMetadata(t *testing.T) {
	result := ParseJSON(`{"hostname":"web-01","rack":"r1"}`)
	require.Len(t, result.Hosts, 1)
	assert.Equal(t, "r1", result.Hosts[0].Metadata["rack"])
}

func TestParseJSON_EntryWithoutHostnameDropped(t *testing.T) {
	result := ParseJSON(`[{"ip":"10.0.0.1"}]`)
	assert.Empty(t, result.Hosts)
	assert.NotEmpty(t, result.Warnings)
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	result := ParseJSON(`not json`)
	assert.NotEmpty(t, result.Errors)
}
