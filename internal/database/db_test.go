package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lodging-booking/internal/config"
)

func TestOpenSQLiteAndEnsureSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lodging.db")
	db, dialect, err := Open(config.Config{DBDriver: "sqlite", DBPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.Equal(t, SQLite, dialect)

	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db, dialect))
	// running twice is harmless
	require.NoError(t, EnsureSchema(ctx, db, dialect))

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('users','bookings')`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestEnsureSchemaUnknownDialect(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.Error(t, EnsureSchema(context.Background(), db, Dialect("oracle")))
}
