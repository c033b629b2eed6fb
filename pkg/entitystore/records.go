package entitystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// RecordStore provides point access to the records of one entity type.
// Records are JSON-encoded; each call touches storage for exactly one id.
type RecordStore[T any] struct {
	backend Backend
	entity  string
	initial func(id string) T
	locks   *keyedMutex
}

// NewRecordStore creates a record store for entity. initial supplies the
// default state Mutate starts from when a record is absent; nil means the
// zero value of T.
func NewRecordStore[T any](backend Backend, entity string, initial func(id string) T) *RecordStore[T] {
	if initial == nil {
		initial = func(string) T {
			var zero T
			return zero
		}
	}
	return &RecordStore[T]{
		backend: backend,
		entity:  entity,
		initial: initial,
		locks:   newKeyedMutex(),
	}
}

// Get returns the record stored at id, or a NotFound error.
func (s *RecordStore[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	data, err := s.backend.Load(ctx, s.entity, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return zero, NotFound(s.entity, id)
		}
		return zero, fmt.Errorf("failed to load %s %s: %w", s.entity, id, err)
	}
	return s.decode(id, data)
}

// Put overwrites the record at id unconditionally.
func (s *RecordStore[T]) Put(ctx context.Context, id string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", s.entity, id, err)
	}
	if err := s.backend.Store(ctx, s.entity, id, data); err != nil {
		return fmt.Errorf("failed to store %s %s: %w", s.entity, id, err)
	}
	return nil
}

// Exists checks if a record exists without decoding it.
func (s *RecordStore[T]) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := s.backend.Exists(ctx, s.entity, id)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", s.entity, err)
	}
	return ok, nil
}

// Delete removes the record at id. Deleting an absent record is not an error.
func (s *RecordStore[T]) Delete(ctx context.Context, id string) error {
	if err := s.backend.Remove(ctx, s.entity, id); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", s.entity, id, err)
	}
	return nil
}

// Mutate applies fn to the current record, or to the initial state when the
// record is absent, and writes the result. Concurrent mutations of the same id
// never interleave. If fn fails nothing is written and its error is returned.
func (s *RecordStore[T]) Mutate(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	return s.mutate(ctx, id, false, fn)
}

// MutateExisting is Mutate for records that must already exist: it returns
// NotFound instead of starting from the initial state.
func (s *RecordStore[T]) MutateExisting(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	return s.mutate(ctx, id, true, fn)
}

func (s *RecordStore[T]) mutate(ctx context.Context, id string, mustExist bool, fn func(T) (T, error)) (T, error) {
	var zero T
	if id == "" {
		return zero, InvalidArgument(s.entity, "id is required")
	}

	// The backend linearizes across processes; the local lock keeps goroutines
	// of this process from burning optimistic retries against each other.
	unlock, err := s.locks.lock(ctx, id)
	if err != nil {
		return zero, err
	}
	defer unlock()

	var result T
	_, err = s.backend.Update(ctx, s.entity, id, func(current []byte, found bool) ([]byte, error) {
		state := s.initial(id)
		if found {
			decoded, err := s.decode(id, current)
			if err != nil {
				return nil, err
			}
			state = decoded
		} else if mustExist {
			return nil, NotFound(s.entity, id)
		}

		next, err := fn(state)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s %s: %w", s.entity, id, err)
		}
		result = next
		return data, nil
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}

func (s *RecordStore[T]) decode(id string, data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to unmarshal %s %s: %w", s.entity, id, err)
	}
	return v, nil
}
