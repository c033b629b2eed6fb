// Package testutil provides backends for tests: miniredis and temp-file
// SQLite for unit tests, and a real Redis container for integration tests.
package testutil

import (
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/dogroom/pkg/entitystore/redisstore"
	"github.com/dyluth/dogroom/pkg/entitystore/sqlitestore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// TestInstance is the instance name all test Redis clients write under.
const TestInstance = "test-instance"

// NewRedisStore creates a Redis backend connected to a fresh miniredis.
// Both are closed when the test ends.
func NewRedisStore(t *testing.T) (*redisstore.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	client, err := redisstore.NewClient(&redis.Options{Addr: mr.Addr()}, TestInstance)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

// NewSQLiteStore creates a SQLite backend on a temp file.
func NewSQLiteStore(t *testing.T) *sqlitestore.Store {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	require.NoError(t, err)
	tempFile.Close()

	return OpenSQLiteStore(t, tempFile.Name())
}

// OpenSQLiteStore opens a SQLite backend on path. Opening the same path twice
// gives two handles that share data the way two processes would.
func OpenSQLiteStore(t *testing.T, path string) *sqlitestore.Store {
	t.Helper()

	store, err := sqlitestore.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}
