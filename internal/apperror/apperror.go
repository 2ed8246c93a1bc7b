package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the validation taxonomy. Services wrap these in an
// *AppError; the HTTP layer maps them to status codes with errors.Is.
//
// ErrNotFound is a sentinel result rather than a fault: lookup operations
// return it for unknown ids and for malformed id strings alike, so a bad id
// never surfaces as an unhandled error past a lookup.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")
	ErrInvalidID  = errors.New("invalid identifier")
	ErrReference  = errors.New("reference not found")
	ErrDuplicate  = errors.New("duplicate")
	ErrConflict   = errors.New("conflict")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidID reports a malformed identifier supplied on a mutation path
// (e.g. a comment_id that is not 24 hex characters).
func InvalidID(field string) *AppError {
	return &AppError{
		Err:     ErrInvalidID,
		Message: fmt.Sprintf("Invalid %s", field),
		Field:   field,
	}
}

// Reference reports that a referenced entity does not exist, e.g. creating
// a post for an unknown user.
func Reference(message string) *AppError {
	return &AppError{
		Err:     ErrReference,
		Message: message,
	}
}

// Duplicate reports a uniqueness violation (username or email already taken).
func Duplicate(message string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: message,
	}
}

// Conflict reports an invariant violation, e.g. commenting an
// already-commented post.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}
