package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestSQLiteDSNAppendsForeignKeys(t *testing.T) {
	param := "_pragma=foreign_keys(1)"
	if sqliteshim.DriverName() == "sqlite3" {
		param = "_foreign_keys=1"
	}
	assert.Equal(t, "tours.db?"+param, sqliteDSN("tours.db"))
	assert.Equal(t, "file:x?mode=memory&"+param, sqliteDSN("file:x?mode=memory"))
}

func TestOpenSQLiteEnforcesForeignKeysOnFreshConnections(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "tours.db"))
	require.NoError(t, err)
	defer db.Close()

	// no idle connections, so every query below dials a new one
	db.SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var enabled int
		require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled)
	}

	_, err = db.ExecContext(ctx, "CREATE TABLE parent (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "CREATE TABLE child (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parent(id))")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO child (id, parent_id) VALUES (1, 42)")
	assert.Error(t, err)
}
