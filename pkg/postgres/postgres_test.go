package postgres

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "001_init.sql", entries[0].Name())

	content, err := fs.ReadFile(migrationsFS, "migrations/001_init.sql")
	require.NoError(t, err)

	for _, table := range []string{"employee", "store", "shift_type", "shift", "rota_run"} {
		assert.True(t, strings.Contains(string(content), "CREATE TABLE IF NOT EXISTS "+table+" ("), "missing table %s", table)
	}
}

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_indexes.sql": {Data: []byte("CREATE INDEX ...")},
		"migrations/001_init.sql":    {Data: []byte("CREATE TABLE ...")},
		"migrations/003_runs.sql":    {Data: []byte("ALTER TABLE ...")},
		"migrations/README.md":       {Data: []byte("notes")},
	}

	pending, err := pendingMigrations(fsys, []string{"001_init.sql"})
	require.NoError(t, err)
	assert.Equal(t, []string{"002_indexes.sql", "003_runs.sql"}, pending)

	pending, err = pendingMigrations(fsys, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_indexes.sql", "003_runs.sql"}, pending)

	pending, err = pendingMigrations(fsys, []string{"001_init.sql", "002_indexes.sql", "003_runs.sql"})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPendingMigrations_NoDirectory(t *testing.T) {
	_, err := pendingMigrations(fstest.MapFS{}, nil)
	assert.ErrorContains(t, err, "failed to read migrations directory")
}

func TestPendingMigrations_EmbeddedAllPending(t *testing.T) {
	pending, err := pendingMigrations(migrationsFS, nil)
	require.NoError(t, err)
	assert.Contains(t, pending, "001_init.sql")
}
