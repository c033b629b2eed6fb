package entitystore

import (
	"context"
	"fmt"
)

// EnsureSeed populates the entity type from its seed dataset exactly once,
// gated by a persisted seeded marker. Later calls are no-ops.
//
// Concurrent calls in one process share a single seeding run. Calls racing
// from other processes may both seed; create-if-absent makes the losing side
// hit Conflict, which is swallowed here, so the store ends with exactly the
// seed dataset either way.
func (e *Entity[T]) EnsureSeed(ctx context.Context) error {
	_, err, _ := e.seeding.Do(e.def.Name, func() (interface{}, error) {
		return nil, e.seed(ctx)
	})
	return err
}

func (e *Entity[T]) seed(ctx context.Context) error {
	seeded, err := e.backend.Seeded(ctx, e.def.Name)
	if err != nil {
		return fmt.Errorf("failed to read seeded marker for %s: %w", e.def.Name, err)
	}
	if seeded {
		return nil
	}

	created, skipped := 0, 0
	for _, v := range e.def.Seed {
		if _, err := e.Create(ctx, v); err != nil {
			if !IsConflict(err) {
				return fmt.Errorf("failed to seed %s: %w", e.def.Name, err)
			}
			// Already present from an earlier partial or concurrent seed. The
			// index add may not have happened there, so repeat it.
			if err := e.index.Add(ctx, e.def.ID(v)); err != nil {
				return err
			}
			skipped++
			continue
		}
		created++
	}

	if err := e.backend.MarkSeeded(ctx, e.def.Name); err != nil {
		return fmt.Errorf("failed to set seeded marker for %s: %w", e.def.Name, err)
	}

	logEvent("entity_seeded", map[string]interface{}{
		"entity":  e.def.Name,
		"created": created,
		"skipped": skipped,
	})
	return nil
}
