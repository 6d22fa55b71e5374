// Package entities defines core data structures and business entities
// for the tempo productivity tracker.
package entities

import (
	"errors"
	"fmt"
)

// Task lifecycle and business rule errors
var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrTaskArchived            = errors.New("task is archived")
	ErrTaskCompleted           = errors.New("task is already completed")
)

// ValidationError reports a missing or out-of-range field. It carries enough
// detail for callers to highlight the offending field.
type ValidationError struct {
	Field  string
	Reason string
	Value  interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error with field details.
func NewValidationError(field, reason string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Value: value}
}

// NotFoundError reports an unknown task or session id.
type NotFoundError struct {
	Kind string // "task" or "session"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NewNotFoundError creates a not-found error for an entity kind and id.
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// StorageError wraps an opaque failure from the persistence layer. The core
// does not interpret it; retries, if any, are an external concern.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a storage failure for the given operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
