package relations

import (
	"testing"

	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedGroup_PairsHostsInSameGroup(t *testing.T) {
	hosts := []HostSummary{
		{Hostname: "a", Groups: []string{"payments"}},
		{Hostname: "b", Groups: []string{"payments"}},
		{Hostname: "c", Groups: []string{"checkout"}},
	}
	out := SharedGroup(hosts)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Source)
	assert.Equal(t, "b", out[0].Target)
	assert.Equal(t, models.RelationRelatedService, out[0].Type)
	assert.Equal(t, 0.6, out[0].Confidence)
}

func TestSharedGroup_ExcludesGenericGroups(t *testing.T) {
	hosts := []HostSummary{
		{Hostname: "a", Groups: []string{"all"}},
		{Hostname: "b", Groups: []string{"all"}},
	}
	assert.Empty(t, SharedGroup(hosts))
}

func TestSharedGroup_UsesStarTopologyAboveThreshold(t *testing.T) {
	var hosts []HostSummary
	for i := 0; i < starTopologyThreshold+1; i++ {
		hosts = append(hosts, HostSummary{Hostname: string(rune('a' + i)), Groups: []string{"big"}})
	}
	out := SharedGroup(hosts)
	assert.Len(t, out, starTopologyThreshold)
	for _, r := range out {
		assert.Equal(t, 0.55, r.Confidence)
	}
}
