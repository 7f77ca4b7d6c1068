package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	ErrInvalidID           = NewBadRequestError("invalid ID format")
	ErrServerConfiguration = errors.New("server configuration error")
	ErrEmptyBody           = NewValidationError(errors.New("request body cannot be empty"))
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "validation error"
	}
	return err.Err.Error()
}

// IsValidationError reports whether err (or its cause) is a ValidationError or validator.ValidationErrors.
func IsValidationError(err error) bool {
	switch errors.Cause(err).(type) {
	case *ValidationError, validator.ValidationErrors:
		return true
	}
	return false
}

// BadRequestError is a malformed request that is not tied to a payload field.
type BadRequestError struct{ msg string }

func NewBadRequestError(msg string) error { return &BadRequestError{msg} }

func (err *BadRequestError) Error() string { return err.msg }

// UnauthorizedError means missing or invalid credentials.
type UnauthorizedError struct{ msg string }

func NewUnauthorizedError(msg string) error { return &UnauthorizedError{msg} }

func (err *UnauthorizedError) Error() string { return err.msg }

func IsUnauthorized(err error) bool {
	_, ok := errors.Cause(err).(*UnauthorizedError)
	return ok
}

// NotFoundError means the requested record (or route) does not exist.
type NotFoundError struct{ msg string }

func NewNotFoundError(msg string) error { return &NotFoundError{msg} }

func (err *NotFoundError) Error() string { return err.msg }

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// ConflictError means a unique field already holds the given value.
type ConflictError struct {
	Field string
	msg   string
}

func NewConflictError(field, msg string) error { return &ConflictError{Field: field, msg: msg} }

func (err *ConflictError) Error() string { return err.msg }

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}
