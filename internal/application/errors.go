package application

import (
	"errors"

	"github.com/example/course-scheduler/internal/scheduler"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a write collides with an existing record.
	ErrAlreadyExists = errors.New("application: already exists")
)

// ConflictMessage is the stable, user-facing message carried by every
// ConflictError.
const ConflictMessage = "Schedule overlaps an existing booking"

// ConflictError reports that a candidate schedule overlaps an existing
// booking. It is a recoverable, user-correctable outcome, not a failure of
// the service.
type ConflictError struct {
	Message   string
	Conflicts []scheduler.Conflict
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func newConflictError(conflicts []scheduler.Conflict) *ConflictError {
	return &ConflictError{Message: ConflictMessage, Conflicts: conflicts}
}

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
