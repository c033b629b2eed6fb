package entitystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"
)

// MinShortIDLength is the minimum prefix length Resolve accepts.
const MinShortIDLength = 6

// allPageSize is the page size All uses while walking an index.
const allPageSize = 100

// Definition declares one entity type.
type Definition[T any] struct {
	Name      string            // entity name, e.g. "booking"
	IndexName string            // index name, e.g. "bookings"
	ID        func(T) string    // extracts the record id
	Initial   func(id string) T // default state for Mutate on an absent record
	Validate  func(T) error     // optional; failures surface as InvalidArgument
	Seed      []T               // optional fixed initial dataset
}

// Page is a contiguous slice of an index resolved to full records. Next is
// empty when there are no more pages and encodes as a JSON null.
type Page[T any] struct {
	Items []T
	Next  string
}

type pageJSON[T any] struct {
	Items []T     `json:"items"`
	Next  *string `json:"next"`
}

// MarshalJSON implements json.Marshaler.
func (p Page[T]) MarshalJSON() ([]byte, error) {
	out := pageJSON[T]{Items: p.Items}
	if out.Items == nil {
		out.Items = []T{}
	}
	if p.Next != "" {
		out.Next = &p.Next
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var in pageJSON[T]
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Items = in.Items
	p.Next = ""
	if in.Next != nil {
		p.Next = *in.Next
	}
	return nil
}

// Entity composes a RecordStore and an Index into the create/list/seed
// operations of one entity type.
type Entity[T any] struct {
	def     Definition[T]
	backend Backend
	records *RecordStore[T]
	index   *Index
	seeding singleflight.Group
}

// New builds the façade for def over backend.
// Returns an error if the definition is incomplete.
func New[T any](backend Backend, def Definition[T]) (*Entity[T], error) {
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}
	if def.Name == "" || def.IndexName == "" {
		return nil, fmt.Errorf("entity and index names cannot be empty")
	}
	if def.ID == nil {
		return nil, fmt.Errorf("entity %s: ID func is required", def.Name)
	}

	return &Entity[T]{
		def:     def,
		backend: backend,
		records: NewRecordStore(backend, def.Name, def.Initial),
		index:   NewIndex(backend, def.Name, def.IndexName),
	}, nil
}

// Name returns the entity type name.
func (e *Entity[T]) Name() string { return e.def.Name }

// Records exposes the underlying record store.
func (e *Entity[T]) Records() *RecordStore[T] { return e.records }

// Index exposes the underlying index.
func (e *Entity[T]) Index() *Index { return e.index }

// Create stores a new record and registers its id in the index. The id must be
// non-empty and unused; a duplicate id fails with Conflict and leaves the
// existing record untouched. Returns the stored value unchanged.
func (e *Entity[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	id := e.def.ID(v)
	if strings.TrimSpace(id) == "" {
		return zero, InvalidArgument(e.def.Name, "id is required")
	}
	if e.def.Validate != nil {
		if err := e.def.Validate(v); err != nil {
			if KindOf(err) == "" {
				err = InvalidArgument(e.def.Name, err.Error())
			}
			return zero, err
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal %s %s: %w", e.def.Name, id, err)
	}
	if err := e.backend.Insert(ctx, e.def.Name, id, data); err != nil {
		if errors.Is(err, ErrConflict) {
			return zero, Conflict(e.def.Name, id, "already exists")
		}
		return zero, fmt.Errorf("failed to create %s %s: %w", e.def.Name, id, err)
	}
	if err := e.index.Add(ctx, id); err != nil {
		return zero, err
	}
	return v, nil
}

// Get returns the record with id, or NotFound.
func (e *Entity[T]) Get(ctx context.Context, id string) (T, error) {
	return e.records.Get(ctx, id)
}

// Exists checks if a record with id exists.
func (e *Entity[T]) Exists(ctx context.Context, id string) (bool, error) {
	return e.records.Exists(ctx, id)
}

// Mutate runs an atomic read-modify-write on id, starting from the initial
// state when the record is absent.
func (e *Entity[T]) Mutate(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	return e.records.Mutate(ctx, id, fn)
}

// MutateExisting runs an atomic read-modify-write on an existing record.
func (e *Entity[T]) MutateExisting(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	return e.records.MutateExisting(ctx, id, fn)
}

// Delete removes the record and its index entry.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := e.records.Delete(ctx, id); err != nil {
		return err
	}
	return e.index.Remove(ctx, id)
}

// List returns one page of records in index order. An index entry whose
// record is missing is a data-integrity fault: it is logged and skipped.
func (e *Entity[T]) List(ctx context.Context, cursor string, limit int) (Page[T], error) {
	entries, next, err := e.index.page(ctx, cursor, limit)
	if err != nil {
		return Page[T]{}, err
	}

	items := make([]T, 0, len(entries))
	for _, entry := range entries {
		v, err := e.records.Get(ctx, entry.ID)
		if err != nil {
			if IsNotFound(err) {
				logEvent("index_integrity_fault", map[string]interface{}{
					"level":  "warn",
					"entity": e.def.Name,
					"index":  e.def.IndexName,
					"id":     entry.ID,
				})
				continue
			}
			return Page[T]{}, err
		}
		items = append(items, v)
	}

	return Page[T]{Items: items, Next: next}, nil
}

// All walks the whole index and returns every record in index order.
func (e *Entity[T]) All(ctx context.Context) ([]T, error) {
	var all []T
	cursor := ""
	for {
		page, err := e.List(ctx, cursor, allPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.Next == "" {
			return all, nil
		}
		cursor = page.Next
	}
}

// Resolve maps a short id prefix to a full record id.
// An exact existing id is returned as is.
func (e *Entity[T]) Resolve(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", InvalidArgument(e.def.Name, "id is required")
	}
	ok, err := e.records.Exists(ctx, prefix)
	if err != nil {
		return "", err
	}
	if ok {
		return prefix, nil
	}

	if len(prefix) < MinShortIDLength {
		return "", InvalidArgument(e.def.Name,
			fmt.Sprintf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(prefix)))
	}

	matches, err := e.backend.MatchIDs(ctx, e.def.Name, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to search for %s: %w", e.def.Name, err)
	}
	switch len(matches) {
	case 0:
		return "", NotFound(e.def.Name, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Entity: e.def.Name, Prefix: prefix, Matches: matches}
	}
}

// Ref returns a handle bound to a single record.
func (e *Entity[T]) Ref(id string) *Ref[T] {
	return &Ref[T]{entity: e, id: id}
}

// Ref is a handle to one entity instance.
type Ref[T any] struct {
	entity *Entity[T]
	id     string
}

// ID returns the record id the handle is bound to.
func (r *Ref[T]) ID() string { return r.id }

// State returns the stored record, or NotFound.
func (r *Ref[T]) State(ctx context.Context) (T, error) {
	return r.entity.Get(ctx, r.id)
}

// Exists checks if the bound record exists.
func (r *Ref[T]) Exists(ctx context.Context) (bool, error) {
	return r.entity.Exists(ctx, r.id)
}

// Mutate runs an atomic read-modify-write on the bound record.
func (r *Ref[T]) Mutate(ctx context.Context, fn func(T) (T, error)) (T, error) {
	return r.entity.Mutate(ctx, r.id, fn)
}

// MutateExisting runs an atomic read-modify-write on the bound record,
// failing with NotFound if it does not exist.
func (r *Ref[T]) MutateExisting(ctx context.Context, fn func(T) (T, error)) (T, error) {
	return r.entity.MutateExisting(ctx, r.id, fn)
}
