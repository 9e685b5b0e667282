// Package common defines shared constants and sentinel errors used across
// client and server layers of climblog. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors. ErrorUnauthenticated means no or bad credentials were
	// supplied on an operation that requires a principal; ErrorForbidden
	// means the principal is known but the policy denies the operation.
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorForbidden       = errors.New("forbidden")

	// Token errors (invalid or malformed session token).
	ErrorInvalidToken = errors.New("invalid token")

	// Client-side error: the API endpoint could not be reached at all.
	ErrorTransport = errors.New("transport failure")
)

// ErrorValidation is the sentinel matched by ValidationError via errors.Is.
var ErrorValidation = errors.New("validation failed")

// ValidationError collects per-field problems for a single request.
// Validation does not short-circuit: callers see every failing field at once.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add appends a message for the given field.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// HasErrors reports whether any field message has been collected.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var b strings.Builder
	b.WriteString("validation failed")
	for _, f := range fields {
		fmt.Fprintf(&b, "; %s: %s", f, strings.Join(e.Fields[f], ", "))
	}
	return b.String()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
