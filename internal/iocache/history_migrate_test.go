package iocache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/marquee/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	// Already at latest
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 3))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, uint(3), status.SchemaVersion)
}

func TestMigrateHistory_UnknownVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")
	assert.Error(t, MigrateHistory(schema.SQLiteBackend, dbPath, 99))
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		entries, err := migrationsFS.ReadDir("migrations/" + string(backend))
		require.NoError(t, err)
		assert.Len(t, entries, 6, "backend %s", backend)
	}
}
