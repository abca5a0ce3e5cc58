package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by repositories.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrEventDayTaken is returned by EventRepository.Create when the organiser already has an event on that day.
	ErrEventDayTaken = errors.New("organiser already has an event on that day")
)

// storageErrorMessage is the only text a caller ever sees for a persistence failure.
const storageErrorMessage = "Database error. See server log for details."

// ValidationError reports a malformed field passed to an entity constructor.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func requiredError(field, label string) *ValidationError {
	return &ValidationError{Field: field, Message: label + " is required"}
}

// InvalidInputError reports a date that cannot be read as a calendar day.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Is lets callers match a NotFoundError with errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AuthorizationError reports an acting user without the organiser role.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// ConflictError reports a violated business rule, such as a second event on the same day.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// Is lets callers match a ConflictError with errors.Is(err, ErrConflict).
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// StorageError wraps a repository failure. Error never exposes the cause; Unwrap does, for logging.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return storageErrorMessage }

func (e *StorageError) Unwrap() error { return e.Err }

// Cause describes the wrapped failure for server-side logs.
func (e *StorageError) Cause() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// NewStorageError wraps err as a StorageError for the named operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
