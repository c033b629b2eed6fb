package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/dogroom/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Storage.RedisURL = "redis://" + mr.Addr()

	backend, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer backend.Close()

	assert.Equal(t, config.DriverRedis, backend.Driver)
	assert.NotNil(t, backend.Locker)
	assert.NoError(t, backend.Ping(context.Background()))
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "dogroom.db")

	backend, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer backend.Close()

	assert.Equal(t, config.DriverSQLite, backend.Driver)
	assert.NotNil(t, backend.Locker)
}

func TestOpen_SQLiteLockSharedBetweenOpens(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Storage.Driver = config.DriverSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "dogroom.db")
	cfg.Bookings.LockTimeout = "50ms"
	require.NoError(t, cfg.Validate())

	first, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer first.Close()
	second, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer second.Close()

	unlock, err := first.Locker.Lock(ctx, "booking:host:h1")
	require.NoError(t, err)

	start := time.Now()
	_, err = second.Locker.Lock(ctx, "booking:host:h1")
	assert.Error(t, err, "a lease held through one open must block the other")
	assert.Less(t, time.Since(start), 2*time.Second, "lock_timeout should bound the wait")

	unlock()
	unlock, err = second.Locker.Lock(ctx, "booking:host:h1")
	require.NoError(t, err)
	unlock()
}

func TestOpen_SerializationDisabled(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Storage.RedisURL = "redis://" + mr.Addr()
	serialize := false
	cfg.Bookings.SerializePerHost = &serialize

	backend, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer backend.Close()

	assert.Nil(t, backend.Locker)
}

func TestOpen_Errors(t *testing.T) {
	t.Run("bad redis url", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.RedisURL = "http://nope"
		_, err := Open(context.Background(), cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid Redis URL")
	})

	t.Run("unreachable redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := config.Default()
		cfg.Storage.RedisURL = "redis://" + addr
		_, err := Open(context.Background(), cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not reachable")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Driver = "etcd"
		_, err := Open(context.Background(), cfg)
		assert.Error(t, err)
	})
}
