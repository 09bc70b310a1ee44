// Package apperror defines the domain error taxonomy shared by the service
// and HTTP layers.
//
// Services return these errors; the HTTP layer maps them to status codes
// with errors.Is/errors.As. The sentinel errors classify an error, the
// AppError wrapper carries the human-readable message (and, for field-level
// failures, which field caused it).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
)

type AppError struct {
	Err     error  // sentinel classifying the error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that the named resource does not exist.
// HTTP handlers map this to 404 Not Found.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports a generic rule violation on the given field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateField reports a uniqueness violation. The field name identifies
// which unique attribute collided. Callers check fields in a fixed order,
// so the first colliding field is always the one reported.
func DuplicateField(field string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("%s already exists", field),
		Field:   field,
	}
}

// InvalidNationalID reports that a CPF failed checksum validation.
func InvalidNationalID() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "invalid cpf",
		Field:   "cpf",
	}
}

// ImmutableField reports an attempt to change a field that cannot be
// changed after creation.
func ImmutableField(field string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("%s cannot be updated", field),
		Field:   field,
	}
}

// RoleNotFound reports that a referenced role does not exist at the moment
// of assignment. This is a 400-class failure (the reference is part of the
// client's payload), not a 404.
func RoleNotFound() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "role not found",
		Field:   "roleId",
	}
}

// Unauthenticated reports an authentication failure. The message is
// deliberately uniform: callers must not be able to tell a bad password
// from an unknown user or an expired token.
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "invalid authentication credentials",
	}
}
