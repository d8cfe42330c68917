package relations

import (
	"testing"

	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplicaDetection_FindsEachTermPair(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"db-master-01", "db-slave-01"},
		{"db-master-01", "db-replica-01"},
		{"db-primary", "db-secondary"},
		{"queue-leader", "queue-follower"},
		{"app-main", "app-backup"},
	}
	for _, c := range cases {
		hosts := []HostSummary{{Hostname: c.a}, {Hostname: c.b}}
		out := ReplicaDetection(hosts)
		require.Len(t, out, 1, "pair %s/%s", c.a, c.b)
		assert.Equal(t, c.a, out[0].Source)
		assert.Equal(t, c.b, out[0].Target)
		assert.Equal(t, models.RelationDatabaseReplica, out[0].Type)
		assert.Equal(t, 0.9, out[0].Confidence)
	}
}

func TestReplicaDetection_NoMatchWhenNoTermPresent(t *testing.T) {
	hosts := []HostSummary{{Hostname: "web-01"}, {Hostname: "web-02"}}
	assert.Empty(t, ReplicaDetection(hosts))
}

func TestReplicaDetection_DoesNotDoubleCountReverseDirection(t *testing.T) {
	hosts := []HostSummary{{Hostname: "db-master-01"}, {Hostname: "db-slave-01"}}
	out := ReplicaDetection(hosts)
	require.Len(t, out, 1)
}

func TestReplicaDetection_UnrelatedThirdHostIgnored(t *testing.T) {
	hosts := []HostSummary{{Hostname: "db-master-01"}, {Hostname: "db-slave-01"}, {Hostname: "web-01"}}
	out := ReplicaDetection(hosts)
	require.Len(t, out, 1)
	assert.Equal(t, "db-master-01", out[0].Source)
}
