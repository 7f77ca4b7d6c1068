package core

import (
	"testing"

	"github.com/pkg/errors"
)

func TestErrorHelpers(t *testing.T) {
	wrap := func(err error) error { return errors.Wrap(err, "context") }

	tests := []struct {
		name       string
		err        error
		validation bool
		unauth     bool
		notFound   bool
		conflict   bool
	}{
		{name: "validation", err: wrap(NewValidationError(nil, FieldError{Field: "title", Error: "required"})), validation: true},
		{name: "empty body", err: ErrEmptyBody, validation: true},
		{name: "unauthorized", err: wrap(NewUnauthorizedError("no")), unauth: true},
		{name: "not found", err: wrap(NewNotFoundError("nope")), notFound: true},
		{name: "conflict", err: wrap(NewConflictError("email", "taken")), conflict: true},
		{name: "bad request", err: ErrInvalidID},
		{name: "plain", err: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationError(tt.err); got != tt.validation {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.validation)
			}
			if got := IsUnauthorized(tt.err); got != tt.unauth {
				t.Errorf("IsUnauthorized() = %v, want %v", got, tt.unauth)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsConflict(tt.err); got != tt.conflict {
				t.Errorf("IsConflict() = %v, want %v", got, tt.conflict)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	if got := NewValidationError(nil).Error(); got != "validation error" {
		t.Errorf("Error() = %q", got)
	}
	if got := ErrEmptyBody.Error(); got != "request body cannot be empty" {
		t.Errorf("Error() = %q", got)
	}
}
