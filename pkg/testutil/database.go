// Package testutil provides shared test helpers, mirroring tarsy's
// test/util package's role of spinning up a fresh, isolated store per
// test — adapted from tarsy's per-test Postgres schema to a fresh
// in-memory SQLite database per call, since that is this module's
// actual backing store.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/athena/pkg/database"
)

// NewMemoryClient opens a fresh in-memory SQLite database, migrated and
// ready to use, and registers its cleanup with t. Every call gets its
// own isolated database: no two tests ever share state through this
// helper.
func NewMemoryClient(t *testing.T) *database.Client {
	t.Helper()
	ctx := context.Background()

	client, err := database.NewClient(ctx, database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Hour,
		BusyTimeout:     5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}
