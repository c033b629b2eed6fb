package entitystore

import "context"

// Backend is the persistent key-scoped storage capability the store is built
// on. Records are addressed by (entity, id) and stored as opaque JSON bytes;
// indexes are addressed by index name.
//
// Implementations must be safe for concurrent use. Update must linearize
// concurrent calls for the same (entity, id).
type Backend interface {
	// Load returns the stored bytes or ErrNotFound.
	Load(ctx context.Context, entity, id string) ([]byte, error)

	// Store overwrites the record unconditionally.
	Store(ctx context.Context, entity, id string, data []byte) error

	// Insert writes the record only if it does not exist yet.
	// Returns ErrConflict if it does.
	Insert(ctx context.Context, entity, id string, data []byte) error

	// Update runs a read-modify-write cycle for one record. fn receives the
	// current bytes (nil, false when absent) and returns the bytes to write.
	// An error from fn aborts the cycle without writing and is returned as is.
	Update(ctx context.Context, entity, id string, fn func(current []byte, found bool) ([]byte, error)) ([]byte, error)

	Exists(ctx context.Context, entity, id string) (bool, error)
	Remove(ctx context.Context, entity, id string) error

	// MatchIDs lists record ids of an entity type starting with prefix.
	MatchIDs(ctx context.Context, entity, prefix string) ([]string, error)

	// IndexAdd appends id with the next sequence number. No-op if present.
	IndexAdd(ctx context.Context, index, id string) error
	IndexRemove(ctx context.Context, index, id string) error

	// IndexRange returns up to limit entries whose sequence is greater than
	// after, in ascending sequence order.
	IndexRange(ctx context.Context, index string, after int64, limit int) ([]IndexEntry, error)

	// Seeded reports whether the seeded marker for entity is set.
	Seeded(ctx context.Context, entity string) (bool, error)
	// MarkSeeded sets the seeded marker for entity.
	MarkSeeded(ctx context.Context, entity string) error

	Ping(ctx context.Context) error
	Close() error
}

// IndexEntry is one id in an index together with its insertion sequence.
type IndexEntry struct {
	ID  string
	Seq int64
}

// Locker provides named mutual exclusion, e.g. serializing booking creation
// per host. The returned unlock func must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}
