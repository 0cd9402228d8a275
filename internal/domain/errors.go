package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by services and repositories. Handlers map these to
// HTTP status codes at the API edge; nothing below the edge inspects status
// codes.
var (
	// ErrValidation marks malformed or missing input. Rejected before any I/O
	// and never retried.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks a requested interval that overlaps an existing
	// booking. The caller must refresh availability and re-select; the range
	// is never silently adjusted.
	ErrConflict = errors.New("booking conflict")

	// ErrNotFound marks a missing record or one the caller is not allowed to
	// touch.
	ErrNotFound = errors.New("not found")

	// ErrTransient marks a storage or network failure. Reads are safe to
	// retry; an ambiguous write outcome must be verified by re-reading
	// availability before any retry.
	ErrTransient = errors.New("transient error")

	// ErrUnauthorized marks a caller acting on a record it does not own.
	ErrUnauthorized = errors.New("unauthorized")
)

// Validationf wraps ErrValidation with a caller-facing message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a caller-facing message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a caller-facing message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Transientf wraps ErrTransient around an underlying I/O error.
func Transientf(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransient, op, err)
}
