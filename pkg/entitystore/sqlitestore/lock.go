package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// Lease lock defaults
const (
	DefaultLockTTL  = 10 * time.Second
	DefaultLockWait = 5 * time.Second
)

var errLeaseHeld = errors.New("lease held by another client")

// SetLockTimings overrides the lease TTL and the acquisition wait of Lock.
// Non-positive values keep the current setting.
func (s *Store) SetLockTimings(ttl, wait time.Duration) {
	if ttl > 0 {
		s.lockTTL = ttl
	}
	if wait > 0 {
		s.lockWait = wait
	}
}

// Lock acquires the named lease in the database file. Goroutines of this
// process queue on a local lock first; other processes see the lease row.
// An expired lease is taken over, so a crashed holder cannot wedge the file.
func (s *Store) Lock(ctx context.Context, name string) (func(), error) {
	unlockLocal, err := s.locks.Lock(ctx, name)
	if err != nil {
		return nil, err
	}

	token := uuid.New().String()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond
	b.MaxElapsedTime = s.lockWait

	acquire := func() error {
		ok, err := s.tryLease(ctx, name, token)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errLeaseHeld
		}
		return nil
	}

	if err := backoff.Retry(acquire, backoff.WithContext(b, ctx)); err != nil {
		unlockLocal()
		if errors.Is(err, errLeaseHeld) {
			return nil, fmt.Errorf("timed out after %s waiting for lock %q: %w", s.lockWait, name, err)
		}
		return nil, err
	}

	return func() {
		s.releaseLease(name, token)
		unlockLocal()
	}, nil
}

// tryLease inserts the lease row, or takes it over when expired. One
// statement, so the check and the write cannot interleave with another writer.
func (s *Store) tryLease(ctx context.Context, name, token string) (bool, error) {
	now := time.Now().UnixMilli()
	query := `INSERT INTO lease(name, token, expires_at) VALUES (?, ?, ?)
	          ON CONFLICT(name) DO UPDATE SET token = excluded.token, expires_at = excluded.expires_at
	          WHERE lease.expires_at <= ?`

	result, err := s.dbConn.ExecContext(ctx, query, name, token, now+s.lockTTL.Milliseconds(), now)
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %q: %w", name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking lease rows affected for %q: %w", name, err)
	}
	return n == 1, nil
}

// releaseLease deletes the lease only if it still carries our token, so an
// expired lease taken over by another client is left alone.
func (s *Store) releaseLease(name, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := s.dbConn.ExecContext(ctx, `DELETE FROM lease WHERE name = ? AND token = ?`, name, token); err != nil {
		// The lease expires on its own
		log.Printf("[EntityStore] Failed to release lock %s: %v", name, err)
	}
}
