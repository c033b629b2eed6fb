// Package entitystore provides a generic indexed entity store over a pluggable
// key/value backend.
//
// # Overview
//
// Every entity type (users, hosts, bookings, chat boards) gets three things:
//
//   - a RecordStore: one JSON record per id with get/put/exists/delete and an
//     atomic per-id read-modify-write (Mutate)
//   - an Index: the insertion-ordered set of ids of that type, listed page by
//     page with opaque cursors
//   - an Entity façade composing both, adding Create (reject duplicate ids),
//     List (resolve a page of ids to records) and EnsureSeed (populate a fixed
//     dataset exactly once)
//
// Entity types are declared with a Definition and instantiated by
// composition; there is no per-type subclassing.
//
// # Backends
//
// The store never talks to a database directly. It is handed a Backend, the
// storage capability, at construction time. Two implementations live in
// subpackages:
//
//   - redisstore: Redis, records as strings, indexes as sorted sets scored by
//     an insertion sequence, Mutate via WATCH/MULTI
//   - sqlitestore: an embedded SQLite file via sqlx, with goose migrations
//
// # Usage Example
//
//	client, err := redisstore.NewClient(&redis.Options{Addr: "localhost:6379"}, "default")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	hosts, err := entitystore.New(client, entitystore.Definition[Host]{
//		Name:      "host",
//		IndexName: "hosts",
//		ID:        func(h Host) string { return h.ID },
//		Seed:      seedHosts,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := hosts.EnsureSeed(ctx); err != nil {
//		log.Fatal(err)
//	}
//	page, err := hosts.List(ctx, "", 10)
//
// # Errors
//
// Failures reported to callers are typed: *Error with Kind NotFound, Conflict
// or InvalidArgument. Use IsNotFound, IsConflict and IsInvalidArgument to
// check them. Connection failures are returned wrapped and carry no kind.
//
// # Concurrency
//
// Mutations of one id are linearized. Nothing is ordered across ids, and a
// record write and its index update are two separate steps.
package entitystore
