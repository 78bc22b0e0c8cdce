package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the expected failure modes of a load/save cycle.
// Everything here is recoverable at the session boundary: the web layer maps
// each to a status message and the session stays usable.
var (
	// ErrMalformedIdentifier is returned when a table name does not split
	// into exactly three non-empty parts.
	ErrMalformedIdentifier = errors.New("table name must be catalog.schema.table")

	// ErrNoPrimaryKey is returned when the key registry has no key columns
	// for a table. A save cannot proceed without at least one key column.
	ErrNoPrimaryKey = errors.New("no primary key columns registered")

	// ErrIndexOutOfRange is returned when a changed-row index does not refer
	// into the current grid. This indicates a logic error upstream, never a
	// row to be silently skipped.
	ErrIndexOutOfRange = errors.New("changed row index out of range")
)

// DateCoercionError reports a date cell that could not be converted from its
// display string before write. It names the row and column so the user can
// fix the offending cell.
type DateCoercionError struct {
	Row    int
	Column string
	Raw    string
	Err    error
}

func (e *DateCoercionError) Error() string {
	return fmt.Sprintf("row %d, column %s: cannot convert %q to a date: %v", e.Row, e.Column, e.Raw, e.Err)
}

func (e *DateCoercionError) Unwrap() error { return e.Err }

// StorageError wraps a failure reported by the storage backend.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// LoadError wraps a failure to load a table for display.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load table %q: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// UserMessage is a user-facing rendering of an error. The code gives support
// staff a stable reference without exposing internals.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

// MapError converts any error from the core into a user-facing message.
func MapError(err error) UserMessage {
	var (
		dateErr *DateCoercionError
		loadErr *LoadError
		stErr   *StorageError
	)
	switch {
	case errors.Is(err, ErrMalformedIdentifier):
		return UserMessage{
			Code:    "IDENT001",
			Message: "Table name must have the form catalog.schema.table",
			Action:  "Check the table name for typos or missing parts",
		}
	case errors.Is(err, ErrNoPrimaryKey):
		return UserMessage{
			Code:    "KEY001",
			Message: "No primary key columns are registered for this table",
			Action:  "Add the table's key columns to the key registry before saving",
		}
	case errors.Is(err, ErrIndexOutOfRange):
		return UserMessage{
			Code:    "GRID001",
			Message: "A changed row no longer exists in the grid",
			Action:  "Reload the table and re-apply your edits",
		}
	case errors.As(err, &dateErr):
		return UserMessage{
			Code:    "VAL001",
			Message: dateErr.Error(),
			Action:  "Use the YYYY-MM-DD date format",
		}
	case errors.As(err, &loadErr):
		return UserMessage{
			Code:    "LOAD001",
			Message: loadErr.Error(),
			Action:  "Verify the table exists and is readable",
		}
	case errors.As(err, &stErr):
		return UserMessage{
			Code:    "DB001",
			Message: stErr.Error(),
			Action:  "Try again; if the problem persists contact support",
		}
	default:
		return UserMessage{
			Code:    "GEN001",
			Message: err.Error(),
		}
	}
}
