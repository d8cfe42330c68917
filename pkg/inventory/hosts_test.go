package inventory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/codeready-toolchain/athena/pkg/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testutil.NewMemoryClient(t))
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAddHost_InsertThenUpdate_RecordsTwoVersions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id1, err := store.AddHost(ctx, models.HostPatch{
		Hostname:  "Web-01",
		IP:        strPtr("10.0.0.1"),
		ChangedBy: "tester",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	id2, err := store.AddHost(ctx, models.HostPatch{
		Hostname:    "WEB-01",
		Environment: strPtr("prod"),
		ChangedBy:   "tester",
	})
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "same host should upsert in place regardless of case")

	host, err := store.GetHostByName(ctx, "web-01")
	require.NoError(t, err)
	assert.Equal(t, "web-01", host.Hostname)
	assert.Equal(t, "10.0.0.1", host.IP)
	assert.Equal(t, "prod", host.Environment)
	assert.Equal(t, models.DefaultSSHPort, host.SSHPort)

	rows, err := store.db.QueryContext(ctx, `SELECT version, changes FROM host_versions WHERE host_id = ? ORDER BY version`, id1)
	require.NoError(t, err)
	defer rows.Close()

	var versions []int
	var changesByVersion []string
	for rows.Next() {
		var v int
		var changes string
		require.NoError(t, rows.Scan(&v, &changes))
		versions = append(versions, v)
		changesByVersion = append(changesByVersion, changes)
	}
	require.Len(t, versions, 2)
	assert.Equal(t, []int{1, 2}, versions)

	var parsed map[string]models.FieldDiff
	require.NoError(t, json.Unmarshal([]byte(changesByVersion[1]), &parsed))
	require.Contains(t, parsed, "environment")
	assert.Nil(t, parsed["environment"].Old, "environment had no prior value, so old must be nil, not the new value")
	assert.Equal(t, "prod", parsed["environment"].New)
}

func TestAddHost_UpdateRecordsTruePriorValue_NotPostUpdateEcho(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.AddHost(ctx, models.HostPatch{
		Hostname:  "db-2",
		IP:        strPtr("10.0.0.5"),
		ChangedBy: "tester",
	})
	require.NoError(t, err)

	_, err = store.AddHost(ctx, models.HostPatch{
		Hostname:  "db-2",
		IP:        strPtr("10.0.0.9"),
		ChangedBy: "tester",
	})
	require.NoError(t, err)

	var changesJSON string
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT changes FROM host_versions WHERE host_id = ? AND version = 2`, id).Scan(&changesJSON))

	var parsed map[string]models.FieldDiff
	require.NoError(t, json.Unmarshal([]byte(changesJSON), &parsed))
	require.Contains(t, parsed, "ip", "an IP-only update must still record a host_versions row")
	assert.Equal(t, "10.0.0.5", parsed["ip"].Old)
	assert.Equal(t, "10.0.0.9", parsed["ip"].New)
}

func TestAddHost_DefaultsSSHPortOnInsertOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddHost(ctx, models.HostPatch{Hostname: "db-1", SSHPort: intPtr(2222), ChangedBy: "t"})
	require.NoError(t, err)

	host, err := store.GetHostByName(ctx, "db-1")
	require.NoError(t, err)
	assert.Equal(t, 2222, host.SSHPort)

	_, err = store.AddHost(ctx, models.HostPatch{Hostname: "db-1", Environment: strPtr("prod"), ChangedBy: "t"})
	require.NoError(t, err)

	host, err = store.GetHostByName(ctx, "db-1")
	require.NoError(t, err)
	assert.Equal(t, 2222, host.SSHPort, "unset ssh_port on update must preserve the prior value, not reset to default")
}

func TestGetHostByName_MatchesAliasExactly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	aliases := []string{"web-alias", "web1"}
	_, err := store.AddHost(ctx, models.HostPatch{Hostname: "web-01", Aliases: &aliases, ChangedBy: "t"})
	require.NoError(t, err)

	host, err := store.GetHostByName(ctx, "web1")
	require.NoError(t, err)
	assert.Equal(t, "web-01", host.Hostname)

	_, err = store.GetHostByName(ctx, "web")
	assert.Error(t, err, "substring of an alias must not match")
}

func TestSearchHosts_FiltersByPatternAndEnvironment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddHost(ctx, models.HostPatch{Hostname: "web-01", Environment: strPtr("prod"), ChangedBy: "t"})
	require.NoError(t, err)
	_, err = store.AddHost(ctx, models.HostPatch{Hostname: "web-02", Environment: strPtr("staging"), ChangedBy: "t"})
	require.NoError(t, err)
	_, err = store.AddHost(ctx, models.HostPatch{Hostname: "db-01", Environment: strPtr("prod"), ChangedBy: "t"})
	require.NoError(t, err)

	results, err := store.SearchHosts(ctx, SearchHostsInput{Pattern: "web", Environment: "prod"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "web-01", results[0].Hostname)
}

func TestSearchHosts_EscapesLikeWildcards(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddHost(ctx, models.HostPatch{Hostname: "host_a", ChangedBy: "t"})
	require.NoError(t, err)
	_, err = store.AddHost(ctx, models.HostPatch{Hostname: "hostxa", ChangedBy: "t"})
	require.NoError(t, err)

	results, err := store.SearchHosts(ctx, SearchHostsInput{Pattern: "host_a"})
	require.NoError(t, err)
	require.Len(t, results, 1, "literal underscore must not act as a single-char wildcard")
	assert.Equal(t, "host_a", results[0].Hostname)
}

func TestBulkAddHosts_RollsBackEntireBatchOnFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.BulkAddHosts(ctx, []models.HostPatch{
		{Hostname: "ok-1"},
		{Hostname: ""}, // invalid: triggers failure mid-batch
		{Hostname: "ok-2"},
	}, "", "importer")
	require.Error(t, err)

	_, err = store.GetHostByName(ctx, "ok-1")
	assert.Error(t, err, "entire batch must be rolled back, including hosts before the failure")
}

func TestBulkAddHosts_CommitsWholeBatchOnSuccess(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.BulkAddHosts(ctx, []models.HostPatch{
		{Hostname: "a-1"},
		{Hostname: "a-2"},
		{Hostname: "a-3"},
	}, "src-1", "importer")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	for _, name := range []string{"a-1", "a-2", "a-3"} {
		host, err := store.GetHostByName(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "src-1", host.SourceID)
	}
}

func TestDeleteHost_WritesAuditRowAndRemovesHost(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddHost(ctx, models.HostPatch{Hostname: "gone-1", IP: strPtr("10.0.0.9"), ChangedBy: "t"})
	require.NoError(t, err)

	err = store.DeleteHost(ctx, "gone-1", "admin", "decommissioned")
	require.NoError(t, err)

	_, err = store.GetHostByName(ctx, "gone-1")
	assert.Error(t, err)

	var count int
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM host_deletions WHERE hostname = ?`, "gone-1").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestDeleteHost_NotFoundReturnsPersistenceError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.DeleteHost(ctx, "missing", "admin", "cleanup")
	assert.Error(t, err)
}
