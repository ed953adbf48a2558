package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/muderick/searchfav/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteGetMissing(t *testing.T) {
	db := testDB(t)
	_, err := db.Get(context.Background(), "favorites")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteSetAndGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, db.Set(ctx, "favorites", `[{"id":1}]`))
	got, err := db.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, got)
}

func TestSQLiteSetOverwrites(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, db.Set(ctx, "favorites", "first"))
	require.NoError(t, db.Set(ctx, "favorites", "second"))

	got, err := db.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestSQLiteDelete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, db.Set(ctx, "favorites", "x"))
	require.NoError(t, db.Delete(ctx, "favorites"))
	_, err := db.Get(ctx, "favorites")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is fine
	assert.NoError(t, db.Delete(ctx, "never-written"))
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, "favorites", "kept"))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Equal(t, "kept", got)
}

func TestOpenCreatesDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sub", "deep", "test.db")

	db, err := OpenSQLite(dbPath)
	require.NoError(t, err)
	db.Close()

	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err, "expected directory to be created")
}

func TestOpenSelectsSQLite(t *testing.T) {
	cfg := &config.Config{Storage: config.Storage{
		Backend: config.BackendSQLite,
		Path:    filepath.Join(t.TempDir(), "favs.db"),
	}}
	kv, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer kv.Close()
	assert.IsType(t, &SQLite{}, kv)
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.Storage{Backend: "etcd"}}
	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

// Runs only against a live server: SEARCHFAV_TEST_REDIS=localhost:6379
func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("SEARCHFAV_TEST_REDIS")
	if addr == "" {
		t.Skip("SEARCHFAV_TEST_REDIS not set")
	}
	ctx := context.Background()
	r, err := OpenRedis(ctx, addr, "searchfav-test:")
	require.NoError(t, err)
	defer r.Close()
	t.Cleanup(func() { r.Delete(ctx, "favorites") })

	_, err = r.Get(ctx, "favorites")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Set(ctx, "favorites", "[]"))
	got, err := r.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestOpenRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := OpenRedis(ctx, "127.0.0.1:1", "")
	assert.Error(t, err)
}
