package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_MapsKnownColumnsAndMetadata(t *testing.T) {
	content := "hostname,ip_address,env,groups,rack\nweb-01,10.0.0.1,prod,\"web,frontend\",r1\n"
	result := ParseCSV(content)

	require.Empty(t, result.Errors)
	require.Len(t, result.Hosts, 1)
	host := result.Hosts[0]
	assert.Equal(t, "web-01", host.Hostname)
	assert.Equal(t, "10.0.0.1", host.IP)
	assert.Equal(t, "prod", host.Environment)
	assert.Equal(t, []string{"web", "frontend"}, host.Groups)
	assert.Equal(t, "r1", host.Metadata["rack"])
}

func TestParseCSV_RowWithoutHostnameIsWarnedAndSkipped(t *testing.T) {
	content := "ip_address,env\n10.0.0.1,prod\n"
	result := ParseCSV(content)

	assert.Empty(t, result.Hosts)
	assert.NotEmpty(t, result.Warnings)
}

func TestParseCSV_NoRows(t *testing.T) {
	result := ParseCSV("")
	assert.NotEmpty(t, result.Errors)
}
