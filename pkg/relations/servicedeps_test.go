package relations

import (
	"testing"

	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceDependencies_ChainsWebApiDb(t *testing.T) {
	hosts := []HostSummary{
		{Hostname: "web-01", Role: "web"},
		{Hostname: "api-01", Role: "api"},
		{Hostname: "db-01", Role: "db"},
	}
	out := ServiceDependencies(hosts)

	var sawWebToAPI, sawAPIToDB bool
	for _, r := range out {
		assert.Equal(t, models.RelationDependsOn, r.Type)
		if r.Source == "web-01" && r.Target == "api-01" {
			sawWebToAPI = true
		}
		if r.Source == "api-01" && r.Target == "db-01" {
			sawAPIToDB = true
		}
	}
	assert.True(t, sawWebToAPI)
	assert.True(t, sawAPIToDB)
}

func TestServiceDependencies_AppDependsOnCacheAndQueue(t *testing.T) {
	hosts := []HostSummary{
		{Hostname: "app-01", Role: "backend"},
		{Hostname: "redis-01", Service: "cache"},
		{Hostname: "kafka-01", Service: "queue"},
	}
	out := ServiceDependencies(hosts)

	var sawCache, sawQueue bool
	for _, r := range out {
		if r.Source == "app-01" && r.Target == "redis-01" {
			sawCache = true
		}
		if r.Source == "app-01" && r.Target == "kafka-01" {
			sawQueue = true
		}
	}
	assert.True(t, sawCache)
	assert.True(t, sawQueue)
}

func TestServiceDependencies_NoMatchProducesNothing(t *testing.T) {
	hosts := []HostSummary{{Hostname: "mystery-01"}}
	assert.Empty(t, ServiceDependencies(hosts))
}

func TestServiceDependencies_DropsConfidenceAboveCap(t *testing.T) {
	var hosts []HostSummary
	hosts = append(hosts, HostSummary{Hostname: "web-01", Role: "web"})
	for i := 0; i < maxDepRelationsPerPair+2; i++ {
		hosts = append(hosts, HostSummary{Hostname: string(rune('a' + i)), Role: "api"})
	}
	out := ServiceDependencies(hosts)
	require.NotEmpty(t, out)
	for _, r := range out {
		assert.Equal(t, 0.3, r.Confidence)
	}
	assert.LessOrEqual(t, len(out), maxDepRelationsPerPair)
}
