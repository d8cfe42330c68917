package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_ReportsAppliedMigrationCountAndLatest(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	var want string
	row := client.DB().QueryRowContext(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`)
	require.NoError(t, row.Scan(&want))

	status, err := Health(ctx, client.DB())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.Greater(t, status.MigrationsApplied, 0)
	assert.Equal(t, want, status.LatestMigration)
}

func TestHealth_UnpingableConnectionReportsUnhealthy(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Close())

	status, err := Health(context.Background(), client.DB())
	require.Error(t, err)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Zero(t, status.MigrationsApplied)
}
