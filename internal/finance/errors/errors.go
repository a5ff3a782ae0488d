package errors

import (
	"errors"
	"fmt"
)

var (
	ErrBadInput           = errors.New("bad input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrStorageUnavailable = errors.New("Database access error")
	ErrInternal           = errors.New("Database operation failed")
)

// ValidationError is returned for client data that is malformed or out of range.
// Field is optional and names the offending input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return ErrBadInput
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

// DomainError carries a client-safe message for a NotFound or Conflict outcome.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string {
	return e.Msg
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func NewNotFoundError(msg string) error {
	return &DomainError{Kind: ErrNotFound, Msg: msg}
}

func NewConflictError(msg string) error {
	return &DomainError{Kind: ErrConflict, Msg: msg}
}

var (
	ErrCategoryNotFound    = NewNotFoundError("Category not found")
	ErrRecordNotFound      = NewNotFoundError("Record not found")
	ErrCategoryNameTaken   = NewConflictError("Category name already exists (case-insensitive)")
	ErrCategoryInUse       = NewConflictError("Cannot delete category: it has associated records")
	ErrCategoryDoesntExist = NewValidationError("Category ID", "Category does not exist")
	ErrEmptyRecordUpdate   = NewValidationError("", "At least one field must be provided for update")
)

// Storage wraps a driver failure so callers can match ErrStorageUnavailable
// while logs keep the cause.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}

// Internal wraps a decoding or extraction failure.
func Internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

// IsClientError reports whether err carries a message safe to show to clients.
func IsClientError(err error) bool {
	return errors.Is(err, ErrBadInput) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict)
}
