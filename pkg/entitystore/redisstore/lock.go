package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var errLockHeld = errors.New("lock held by another client")

// Lock acquires the named lease lock shared by every client of this instance.
// The lease expires after the lock TTL so a crashed holder cannot wedge other
// clients. Acquisition is retried with exponential backoff until the lock wait
// elapses or ctx is done.
func (c *Client) Lock(ctx context.Context, name string) (func(), error) {
	key := LockKey(c.instanceName, name)
	token := uuid.New().String()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond
	b.MaxElapsedTime = c.lockWait

	acquire := func() error {
		ok, err := c.rdb.SetNX(ctx, key, token, c.lockTTL).Result()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to acquire lock: %w", err))
		}
		if !ok {
			return errLockHeld
		}
		return nil
	}

	if err := backoff.Retry(acquire, backoff.WithContext(b, ctx)); err != nil {
		if errors.Is(err, errLockHeld) {
			return nil, fmt.Errorf("timed out after %s waiting for lock %q: %w", c.lockWait, name, err)
		}
		return nil, err
	}

	return func() { c.unlock(key, token) }, nil
}

// unlock deletes the lease only if it still carries our token, so an expired
// lease taken over by another client is left alone.
func (c *Client) unlock(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if current != token {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	if err != nil {
		// The lease expires on its own; nothing else to do.
		log.Printf("[EntityStore] Failed to release lock %s: %v", key, err)
	}
}
