// Package domain contains domain entities, value objects, and domain-specific errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain error types for consistent error handling across the application.
// These errors represent business rule violations and domain constraints.

var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict with the current state.
	ErrConflict = errors.New("conflict")

	// ErrPersistence is returned when the durable store fails to stage or commit.
	ErrPersistence = errors.New("persistence failure")
)

// DomainError wraps a base error with additional context.
// It provides a standard way to add details to domain errors.
type DomainError struct {
	// Base is the underlying error type (e.g., ErrNotFound)
	Base error

	// Message provides human-readable context
	Message string

	// Field indicates which field caused the error (for validation errors)
	Field string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Base.Error(), e.Message, e.Field)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Base.Error(), e.Message)
	}
	return e.Base.Error()
}

// Unwrap returns the base error for errors.Is/As support.
func (e *DomainError) Unwrap() error {
	return e.Base
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Base:    ErrNotFound,
		Message: resource,
	}
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Base:    ErrInvalidInput,
		Message: message,
		Field:   field,
	}
}

// NewConflictError creates a conflict error with context.
func NewConflictError(message string) *DomainError {
	return &DomainError{
		Base:    ErrConflict,
		Message: message,
	}
}

// ValidationFailedError carries every failure of a validation pass.
// It is how the service layer hands a non-empty ValidationResult back to its caller.
type ValidationFailedError struct {
	Failures []ValidationFailure
}

// NewValidationFailedError copies the failures out of result.
func NewValidationFailedError(result ValidationResult) *ValidationFailedError {
	failures := make([]ValidationFailure, len(result.Errors))
	copy(failures, result.Errors)
	return &ValidationFailedError{Failures: failures}
}

func (e *ValidationFailedError) Error() string {
	if len(e.Failures) == 0 {
		return ErrInvalidInput.Error()
	}
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), strings.Join(msgs, "; "))
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrInvalidInput
}

// PersistenceError reports a store failure while staging or committing.
// Both ErrPersistence and the store's own error are reachable through errors.Is/As.
type PersistenceError struct {
	// Op names the repository operation, e.g. "commit" or "find all contacts".
	Op  string
	Err error
}

// NewPersistenceError wraps cause. A nil cause still yields a usable error.
func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Err: cause}
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrPersistence.Error(), e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", ErrPersistence.Error(), e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Err}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsPersistence checks if an error came from the durable store.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}
