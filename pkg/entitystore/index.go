package entitystore

import (
	"context"
	"fmt"
)

// Index maintains the insertion-ordered set of ids belonging to one entity
// type, independent of record content.
type Index struct {
	backend Backend
	entity  string
	name    string
}

// NewIndex creates the index called name for entity.
func NewIndex(backend Backend, entity, name string) *Index {
	return &Index{backend: backend, entity: entity, name: name}
}

// Name returns the index name.
func (ix *Index) Name() string {
	return ix.name
}

// Add appends id to the index. Adding an id that is already present is a no-op.
func (ix *Index) Add(ctx context.Context, id string) error {
	if id == "" {
		return InvalidArgument(ix.entity, "id is required")
	}
	if err := ix.backend.IndexAdd(ctx, ix.name, id); err != nil {
		return fmt.Errorf("failed to add %s to index %s: %w", id, ix.name, err)
	}
	return nil
}

// Remove drops id from the index if present.
func (ix *Index) Remove(ctx context.Context, id string) error {
	if err := ix.backend.IndexRemove(ctx, ix.name, id); err != nil {
		return fmt.Errorf("failed to remove %s from index %s: %w", id, ix.name, err)
	}
	return nil
}

// ListIDs returns up to limit ids after cursor in insertion order. An empty
// cursor starts at the beginning. next is empty once the end is reached.
// A limit below 1 is treated as 1.
func (ix *Index) ListIDs(ctx context.Context, cursor string, limit int) (ids []string, next string, err error) {
	entries, next, err := ix.page(ctx, cursor, limit)
	if err != nil {
		return nil, "", err
	}
	ids = make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids, next, nil
}

func (ix *Index) page(ctx context.Context, cursor string, limit int) ([]IndexEntry, string, error) {
	if limit < 1 {
		limit = 1
	}
	after, err := decodeCursor(ix.entity, cursor)
	if err != nil {
		return nil, "", err
	}

	// One extra entry tells us whether another page exists.
	entries, err := ix.backend.IndexRange(ctx, ix.name, after, limit+1)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read index %s: %w", ix.name, err)
	}
	if len(entries) <= limit {
		return entries, "", nil
	}
	entries = entries[:limit]
	return entries, encodeCursor(entries[len(entries)-1].Seq), nil
}
