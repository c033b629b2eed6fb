// Package redisstore implements the entitystore backend on Redis.
//
// Records are stored as JSON strings, indexes as sorted sets scored by an
// insertion sequence, and read-modify-write cycles as WATCH/MULTI/EXEC
// transactions retried on contention.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dyluth/dogroom/pkg/entitystore"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultMaxUpdateAttempts bounds optimistic retries of a single Update.
	DefaultMaxUpdateAttempts = 32

	// DefaultLockTTL is how long a lease lock survives a crashed holder.
	DefaultLockTTL = 10 * time.Second

	// DefaultLockWait is how long Lock waits for a held lock.
	DefaultLockWait = 5 * time.Second
)

var (
	_ entitystore.Backend = (*Client)(nil)
	_ entitystore.Locker  = (*Client)(nil)
)

// Client provides instance-scoped Redis storage for entitystore.
// All keys are automatically namespaced with the instance name.
// The client is thread-safe and can be used concurrently from multiple goroutines.
type Client struct {
	rdb          *redis.Client
	instanceName string

	maxUpdateAttempts int
	lockTTL           time.Duration
	lockWait          time.Duration
}

// NewClient creates a new Redis backend for the specified instance.
//
// Parameters:
//   - redisOpts: Redis connection options (address, password, DB, etc.)
//   - instanceName: deployment identifier (must not be empty)
//
// Returns an error if instanceName is empty.
func NewClient(redisOpts *redis.Options, instanceName string) (*Client, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}

	return &Client{
		rdb:               redis.NewClient(redisOpts),
		instanceName:      instanceName,
		maxUpdateAttempts: DefaultMaxUpdateAttempts,
		lockTTL:           DefaultLockTTL,
		lockWait:          DefaultLockWait,
	}, nil
}

// SetLockTimings overrides the lease TTL and the acquisition wait of Lock.
// Non-positive values keep the current setting.
func (c *Client) SetLockTimings(ttl, wait time.Duration) {
	if ttl > 0 {
		c.lockTTL = ttl
	}
	if wait > 0 {
		c.lockWait = wait
	}
}

// InstanceName returns the namespace this client writes under.
func (c *Client) InstanceName() string {
	return c.instanceName
}

// RedisClient exposes the underlying connection for maintenance tooling.
func (c *Client) RedisClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection. Implements io.Closer.
// After calling Close(), the client should not be used.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Load returns the record bytes, or entitystore.ErrNotFound.
func (c *Client) Load(ctx context.Context, entity, id string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, RecordKey(c.instanceName, entity, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entitystore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read record from Redis: %w", err)
	}
	return data, nil
}

// Store overwrites the record unconditionally.
func (c *Client) Store(ctx context.Context, entity, id string, data []byte) error {
	if err := c.rdb.Set(ctx, RecordKey(c.instanceName, entity, id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write record to Redis: %w", err)
	}
	return nil
}

// Insert writes the record with SETNX. Returns entitystore.ErrConflict if the
// key already exists.
func (c *Client) Insert(ctx context.Context, entity, id string, data []byte) error {
	ok, err := c.rdb.SetNX(ctx, RecordKey(c.instanceName, entity, id), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to write record to Redis: %w", err)
	}
	if !ok {
		return entitystore.ErrConflict
	}
	return nil
}

// Update runs fn inside a WATCH/MULTI/EXEC cycle on the record key. When
// another client modifies the key between read and write the transaction
// aborts and the cycle is retried, up to the configured attempt limit.
func (c *Client) Update(ctx context.Context, entity, id string, fn func(current []byte, found bool) ([]byte, error)) ([]byte, error) {
	key := RecordKey(c.instanceName, entity, id)

	var written []byte
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		found := true
		if errors.Is(err, redis.Nil) {
			current, found = nil, false
		} else if err != nil {
			return fmt.Errorf("failed to read record from Redis: %w", err)
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err != nil {
			return err
		}
		written = next
		return nil
	}

	for attempt := 0; attempt < c.maxUpdateAttempts; attempt++ {
		err := c.rdb.Watch(ctx, txf, key)
		if err == nil {
			return written, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("update of %s %s aborted after %d concurrent modifications", entity, id, c.maxUpdateAttempts)
}

// Exists checks if a record exists without fetching it.
func (c *Client) Exists(ctx context.Context, entity, id string) (bool, error) {
	n, err := c.rdb.Exists(ctx, RecordKey(c.instanceName, entity, id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check record existence: %w", err)
	}
	return n > 0, nil
}

// Remove deletes a record key.
func (c *Client) Remove(ctx context.Context, entity, id string) error {
	if err := c.rdb.Del(ctx, RecordKey(c.instanceName, entity, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete record from Redis: %w", err)
	}
	return nil
}

// MatchIDs uses SCAN to find record ids of an entity type starting with
// prefix, without blocking the server.
func (c *Client) MatchIDs(ctx context.Context, entity, prefix string) ([]string, error) {
	keyPrefix := RecordKeyPrefix(c.instanceName, entity)
	pattern := escapeGlob(keyPrefix+prefix) + "*"
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()

	var ids []string
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}
	return ids, nil
}

// IndexAdd appends id to the index ZSET with the next insertion sequence.
// ZADD NX keeps the original position of an id that is already present.
func (c *Client) IndexAdd(ctx context.Context, index, id string) error {
	key := IndexKey(c.instanceName, index)

	if err := c.rdb.ZScore(ctx, key, id).Err(); err == nil {
		return nil
	} else if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read index: %w", err)
	}

	seq, err := c.rdb.Incr(ctx, IndexSeqKey(c.instanceName, index)).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate index sequence: %w", err)
	}

	z := redis.Z{
		Score:  float64(seq),
		Member: id,
	}
	if err := c.rdb.ZAddNX(ctx, key, z).Err(); err != nil {
		return fmt.Errorf("failed to add to index: %w", err)
	}
	return nil
}

// IndexRemove drops id from the index ZSET.
func (c *Client) IndexRemove(ctx context.Context, index, id string) error {
	if err := c.rdb.ZRem(ctx, IndexKey(c.instanceName, index), id).Err(); err != nil {
		return fmt.Errorf("failed to remove from index: %w", err)
	}
	return nil
}

// IndexRange returns up to limit entries with a sequence strictly greater
// than after, lowest sequence first.
func (c *Client) IndexRange(ctx context.Context, index string, after int64, limit int) ([]entitystore.IndexEntry, error) {
	results, err := c.rdb.ZRangeByScoreWithScores(ctx, IndexKey(c.instanceName, index), &redis.ZRangeBy{
		Min:   "(" + strconv.FormatInt(after, 10),
		Max:   "+inf",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to range index: %w", err)
	}

	entries := make([]entitystore.IndexEntry, 0, len(results))
	for _, z := range results {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, entitystore.IndexEntry{ID: id, Seq: int64(z.Score)})
	}
	return entries, nil
}

// Seeded reports whether the seeded marker for entity exists.
func (c *Client) Seeded(ctx context.Context, entity string) (bool, error) {
	n, err := c.rdb.Exists(ctx, SeededKey(c.instanceName, entity)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read seeded marker: %w", err)
	}
	return n > 0, nil
}

// MarkSeeded sets the seeded marker for entity. The marker never expires.
func (c *Client) MarkSeeded(ctx context.Context, entity string) error {
	if err := c.rdb.Set(ctx, SeededKey(c.instanceName, entity), "1", 0).Err(); err != nil {
		return fmt.Errorf("failed to write seeded marker: %w", err)
	}
	return nil
}
