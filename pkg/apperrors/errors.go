// Package apperrors defines the gateway's error taxonomy. Every failure
// surfaced to the HTTP boundary is classified as exactly one of these kinds.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorizedDatabase indicates the target database is not in the
	// configured whitelist, or no databases are configured at all.
	ErrUnauthorizedDatabase = errors.New("database not authorized")

	// ErrInvalidIdentifier indicates a malformed database, table, or
	// stored-procedure name.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidStatement indicates a statement that failed classification:
	// empty, non-SELECT, blocked keyword, or injection pattern.
	ErrInvalidStatement = errors.New("invalid statement")

	// ErrNotFound indicates a validated identifier that does not correspond
	// to an existing object. Only raised after a successful lookup returned
	// zero rows, never for validation failures.
	ErrNotFound = errors.New("not found")
)

// UpstreamError wraps a failure from the database collaborator. The original
// error is preserved verbatim and never reinterpreted by the gateway.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Upstream wraps err as an UpstreamError. Returns nil for a nil err.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Err: err}
}

// Rejection builds a validation error of the given kind carrying a
// human-readable reason, matchable with errors.Is against the sentinel.
func Rejection(kind error, reason string) error {
	return fmt.Errorf("%w: %s", kind, reason)
}
