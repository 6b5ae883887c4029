package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MsgRequired is the standard field message for a missing required value.
const MsgRequired = "is required"

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")
	ErrExtraction  = errors.New("extraction failure")
	ErrRollback    = errors.New("command rolled back")
	ErrNotReady    = errors.New("transaction not ready")
)

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, field := range keys {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError is a shorthand for a single-field ValidationError.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ConflictError reports two confirmed facts that disagree. Conflicts are
// surfaced to the user as blocking reasons and are never auto-resolved.
type ConflictError struct {
	Code     string
	Field    string
	Declared string
	Recorded string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s: declared %q, recorded %q", ErrConflict.Error(), e.Code, e.Declared, e.Recorded)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ExtractionFailure records a model call that errored or returned content
// that could not be parsed, after its retry budget was spent.
type ExtractionFailure struct {
	DocumentHash string
	Pass         int
	Attempts     int
	Err          error
}

func (e *ExtractionFailure) Error() string {
	return fmt.Sprintf("%s: document %s pass %d after %d attempts: %v",
		ErrExtraction.Error(), shortHash(e.DocumentHash), e.Pass, e.Attempts, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ExtractionFailure) Unwrap() []error {
	return []error{ErrExtraction, e.Err}
}

// RollbackError records a command whose handler kept failing after its
// retry budget; the context was restored to the pre-command snapshot.
type RollbackError struct {
	CommandKind string
	Retries     int
	Err         error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("%s: %s after %d retries: %v", ErrRollback.Error(), e.CommandKind, e.Retries, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *RollbackError) Unwrap() []error {
	return []error{ErrRollback, e.Err}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
