package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

// newTestDB connects to POSTGRES_TEST_DSN, applies migrations and empties
// every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(pool))

	_, err = pool.Exec(ctx, `
		TRUNCATE user_roles, users, audit_entries, stock_alerts, items, categories
		RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)

	return db.NewClient(pool)
}
