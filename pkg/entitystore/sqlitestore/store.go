// Package sqlitestore implements the entitystore backend on an embedded SQLite
// database file. It suits local development and small deployments where
// running Redis is not wanted.
//
// The schema is managed with goose migrations embedded in the binary. All
// access goes through a single connection, so read-modify-write cycles run in
// serialized immediate transactions. Named locks are leases stored in the
// file, so they hold across every process that opens it.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dyluth/dogroom/pkg/entitystore"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var (
	_ entitystore.Backend = (*Store)(nil)
	_ entitystore.Locker  = (*Store)(nil)
)

// Store is the SQLite entitystore backend.
type Store struct {
	dbConn *sqlx.DB
	locks  *entitystore.LocalLocker

	lockTTL  time.Duration
	lockWait time.Duration
}

// dbIndexEntry is an index row as stored in the database.
type dbIndexEntry struct {
	ID  string `db:"id"`
	Seq int64  `db:"seq"`
}

// Open connects to the SQLite database file at path and applies all pending
// migrations. The connection pool is limited to one connection.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", path)
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}

	db.SetMaxOpenConns(1)

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting dialect for migrations : %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migration : %w", err)
	}

	return &Store{
		dbConn:   db,
		locks:    entitystore.NewLocalLocker(),
		lockTTL:  DefaultLockTTL,
		lockWait: DefaultLockWait,
	}, nil
}

// Close terminates the database connection.
func (s *Store) Close() error {
	if err := s.dbConn.Close(); err != nil {
		return fmt.Errorf("closing store : %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.dbConn.PingContext(ctx)
}

// Load returns the record bytes, or entitystore.ErrNotFound.
func (s *Store) Load(ctx context.Context, entity, id string) ([]byte, error) {
	var data []byte
	err := s.dbConn.GetContext(ctx, &data, `SELECT data FROM record WHERE entity = ? AND id = ?`, entity, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entitystore.ErrNotFound
		}
		return nil, fmt.Errorf("loading %s %s: %w", entity, id, err)
	}
	return data, nil
}

// Store overwrites the record unconditionally.
func (s *Store) Store(ctx context.Context, entity, id string, data []byte) error {
	query := `INSERT INTO record(entity, id, data, updated_at)
	          VALUES (?, ?, ?, ?)
	          ON CONFLICT(entity, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`

	if _, err := s.dbConn.ExecContext(ctx, query, entity, id, data, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("storing %s %s: %w", entity, id, err)
	}
	return nil
}

// Insert writes the record only if absent. Returns entitystore.ErrConflict
// when a record with the same id exists.
func (s *Store) Insert(ctx context.Context, entity, id string, data []byte) error {
	query := `INSERT INTO record(entity, id, data, updated_at)
	          VALUES (?, ?, ?, ?)
	          ON CONFLICT(entity, id) DO NOTHING`

	result, err := s.dbConn.ExecContext(ctx, query, entity, id, data, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("inserting %s %s: %w", entity, id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking insert rows affected for %s %s: %w", entity, id, err)
	}
	if rowsAffected == 0 {
		return entitystore.ErrConflict
	}
	return nil
}

// Update runs fn inside one immediate transaction.
func (s *Store) Update(ctx context.Context, entity, id string, fn func(current []byte, found bool) ([]byte, error)) ([]byte, error) {
	tx, err := s.dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning update of %s %s: %w", entity, id, err)
	}
	defer tx.Rollback()

	var current []byte
	found := true
	err = tx.GetContext(ctx, &current, `SELECT data FROM record WHERE entity = ? AND id = ?`, entity, id)
	if errors.Is(err, sql.ErrNoRows) {
		current, found = nil, false
	} else if err != nil {
		return nil, fmt.Errorf("loading %s %s: %w", entity, id, err)
	}

	next, err := fn(current, found)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO record(entity, id, data, updated_at)
	          VALUES (?, ?, ?, ?)
	          ON CONFLICT(entity, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	if _, err := tx.ExecContext(ctx, query, entity, id, next, time.Now().UnixMilli()); err != nil {
		return nil, fmt.Errorf("writing %s %s: %w", entity, id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update of %s %s: %w", entity, id, err)
	}
	return next, nil
}

// Exists checks if a record exists.
func (s *Store) Exists(ctx context.Context, entity, id string) (bool, error) {
	var exists bool
	err := s.dbConn.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM record WHERE entity = ? AND id = ?)`, entity, id)
	if err != nil {
		return false, fmt.Errorf("checking %s %s: %w", entity, id, err)
	}
	return exists, nil
}

// Remove deletes a record. Removing an absent record is not an error.
func (s *Store) Remove(ctx context.Context, entity, id string) error {
	if _, err := s.dbConn.ExecContext(ctx, `DELETE FROM record WHERE entity = ? AND id = ?`, entity, id); err != nil {
		return fmt.Errorf("deleting %s %s: %w", entity, id, err)
	}
	return nil
}

// MatchIDs lists ids of an entity type that start with prefix.
func (s *Store) MatchIDs(ctx context.Context, entity, prefix string) ([]string, error) {
	var ids []string
	query := `SELECT id FROM record WHERE entity = ? AND id LIKE ? ESCAPE '\' ORDER BY id`
	if err := s.dbConn.SelectContext(ctx, &ids, query, entity, escapeLike(prefix)+"%"); err != nil {
		return nil, fmt.Errorf("matching %s ids: %w", entity, err)
	}
	return ids, nil
}

// IndexAdd appends id to the index; the AUTOINCREMENT key is the sequence.
func (s *Store) IndexAdd(ctx context.Context, index, id string) error {
	query := `INSERT INTO index_entry(index_name, id) VALUES (?, ?)
	          ON CONFLICT(index_name, id) DO NOTHING`
	if _, err := s.dbConn.ExecContext(ctx, query, index, id); err != nil {
		return fmt.Errorf("adding %s to index %s: %w", id, index, err)
	}
	return nil
}

// IndexRemove drops id from the index.
func (s *Store) IndexRemove(ctx context.Context, index, id string) error {
	if _, err := s.dbConn.ExecContext(ctx, `DELETE FROM index_entry WHERE index_name = ? AND id = ?`, index, id); err != nil {
		return fmt.Errorf("removing %s from index %s: %w", id, index, err)
	}
	return nil
}

// IndexRange returns up to limit entries after the given sequence.
func (s *Store) IndexRange(ctx context.Context, index string, after int64, limit int) ([]entitystore.IndexEntry, error) {
	var rows []dbIndexEntry
	query := `SELECT id, seq FROM index_entry WHERE index_name = ? AND seq > ? ORDER BY seq LIMIT ?`
	if err := s.dbConn.SelectContext(ctx, &rows, query, index, after, limit); err != nil {
		return nil, fmt.Errorf("ranging index %s: %w", index, err)
	}

	entries := make([]entitystore.IndexEntry, len(rows))
	for i, r := range rows {
		entries[i] = entitystore.IndexEntry{ID: r.ID, Seq: r.Seq}
	}
	return entries, nil
}

// Seeded reports whether the seeded marker for entity is set.
func (s *Store) Seeded(ctx context.Context, entity string) (bool, error) {
	var seeded bool
	if err := s.dbConn.GetContext(ctx, &seeded, `SELECT EXISTS(SELECT 1 FROM seeded WHERE entity = ?)`, entity); err != nil {
		return false, fmt.Errorf("reading seeded marker for %s: %w", entity, err)
	}
	return seeded, nil
}

// MarkSeeded sets the seeded marker for entity.
func (s *Store) MarkSeeded(ctx context.Context, entity string) error {
	query := `INSERT INTO seeded(entity, seeded_at) VALUES (?, ?) ON CONFLICT(entity) DO NOTHING`
	if _, err := s.dbConn.ExecContext(ctx, query, entity, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("writing seeded marker for %s: %w", entity, err)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
