/*
errors.go - Centralized error types for the register core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is / errors.As; the HTTP layer translates
  these into user-facing responses.

ERROR CATEGORIES:
  1. State-machine violations - mutating or re-closing a closed day
  2. Caller-input problems - bad values, malformed ranges, duplicates
  3. Missing records - where absence is not silently tolerated

The core never retries: every failure here is reported to the caller and
recovered at the boundary immediately adjacent to the core call.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDayClosed is returned when a mutation targets a closed day.
	ErrDayClosed = errors.New("day is closed")

	// ErrAlreadyClosed is returned when closure is attempted twice for a date.
	ErrAlreadyClosed = errors.New("day already closed")

	// ErrInvalidRange is returned when a history query has malformed bounds.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrValidation is returned for caller-input problems: non-positive
	// values, empty required fields, duplicate account names.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an operation references a record whose
	// absence is an error (e.g. deleting an unknown user).
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ClosedDayError reports a rejected mutation on a closed day.
type ClosedDayError struct {
	Date string
	Op   string // "add_income", "add_expense", "delete_movement"
}

func (e *ClosedDayError) Error() string {
	return fmt.Sprintf("day %s is closed: %s rejected", e.Date, e.Op)
}

func (e *ClosedDayError) Unwrap() error { return ErrDayClosed }

// AlreadyClosedError reports a second closure attempt for a date.
type AlreadyClosedError struct {
	Date     string
	ClosedAt string
	ClosedBy string
}

func (e *AlreadyClosedError) Error() string {
	return fmt.Sprintf("day %s already closed at %s by %s", e.Date, e.ClosedAt, e.ClosedBy)
}

func (e *AlreadyClosedError) Unwrap() error { return ErrAlreadyClosed }

// InvalidRangeError reports history bounds that fail to parse as dates.
type InvalidRangeError struct {
	From string
	To   string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range %q -> %q", e.From, e.To)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// ValidationError reports a caller-input problem on a named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to caller input or a
// state-machine rejection, i.e. anything the UI should surface as a message
// rather than a fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDayClosed) ||
		errors.Is(err, ErrAlreadyClosed) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
