package entitystore

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure kinds. Backends return these (possibly
// wrapped); the façade wraps them into *Error with entity and id context.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Kind classifies a store failure.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInvalidArgument Kind = "invalid_argument"
)

// Error is a typed store failure. Every failure the core reports to callers
// carries a Kind; errors.Is matches it against the sentinel of that kind.
type Error struct {
	Kind   Kind
	Entity string // entity type name, e.g. "booking"
	ID     string // record id, empty when not applicable
	Reason string
}

func (e *Error) Error() string {
	switch {
	case e.Entity != "" && e.ID != "":
		return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Reason)
	case e.Entity != "":
		return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
	default:
		return e.Reason
	}
}

// Unwrap returns the sentinel for the error's kind.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindInvalidArgument:
		return ErrInvalidArgument
	}
	return nil
}

// NotFound reports that no record exists for id.
func NotFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Reason: "not found"}
}

// Conflict reports a duplicate id or a state/interval conflict.
func Conflict(entity, id, reason string) error {
	return &Error{Kind: KindConflict, Entity: entity, ID: id, Reason: reason}
}

// InvalidArgument reports a malformed request.
func InvalidArgument(entity, reason string) error {
	return &Error{Kind: KindInvalidArgument, Entity: entity, Reason: reason}
}

// IsNotFound returns true if err is (or wraps) a not-found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict returns true if err is (or wraps) a conflict failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInvalidArgument returns true if err is (or wraps) an invalid-argument failure.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// KindOf returns the kind of err, or "" for untyped failures such as
// connection errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	}
	return ""
}

// AmbiguousError indicates a short id prefix matched several records.
type AmbiguousError struct {
	Entity  string
	Prefix  string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d %s records", e.Prefix, len(e.Matches), e.Entity)
}

// IsAmbiguous checks if an error is an AmbiguousError.
func IsAmbiguous(err error) bool {
	var ae *AmbiguousError
	return errors.As(err, &ae)
}
