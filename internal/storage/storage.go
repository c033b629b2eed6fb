// Package storage opens the backend selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dyluth/dogroom/internal/config"
	"github.com/dyluth/dogroom/pkg/entitystore"
	"github.com/dyluth/dogroom/pkg/entitystore/redisstore"
	"github.com/dyluth/dogroom/pkg/entitystore/sqlitestore"
	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the connectivity check done while opening.
const pingTimeout = 5 * time.Second

// Backend is an opened store together with the lock used to serialize
// booking creation. Locker is nil when serialization is disabled.
type Backend struct {
	entitystore.Backend
	Locker entitystore.Locker
	Driver string
}

// Open connects to the backend named by cfg.Storage and verifies it responds.
func Open(ctx context.Context, cfg *config.DogRoomConfig) (*Backend, error) {
	var (
		backend entitystore.Backend
		locker  entitystore.Locker
	)

	switch cfg.Storage.Driver {
	case config.DriverRedis:
		opts, err := redis.ParseURL(cfg.Storage.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL %q: %w", cfg.Storage.RedisURL, err)
		}
		client, err := redisstore.NewClient(opts, cfg.Instance)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis backend: %w", err)
		}
		client.SetLockTimings(0, cfg.Bookings.LockTimeoutDuration())
		backend, locker = client, client

	case config.DriverSQLite:
		store, err := sqlitestore.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite backend: %w", err)
		}
		store.SetLockTimings(0, cfg.Bookings.LockTimeoutDuration())
		backend, locker = store, store

	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := backend.Ping(pingCtx); err != nil {
		backend.Close()
		return nil, fmt.Errorf("%s backend not reachable: %w", cfg.Storage.Driver, err)
	}

	if !*cfg.Bookings.SerializePerHost {
		log.Printf("[Storage] Per-host booking serialization disabled; concurrent overlapping bookings are possible")
		locker = nil
	}

	return &Backend{Backend: backend, Locker: locker, Driver: cfg.Storage.Driver}, nil
}
