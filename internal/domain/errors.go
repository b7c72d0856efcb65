package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the umbrella for client-input faults.
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrNegativeStopCap    = errors.New("max stops must not be negative")
	ErrNotFound           = errors.New("requested resource not found")
)

// ValidationError describes a rejected input field. It matches both ErrValidation
// and its specific cause under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// NotFoundError names a missing record. Its message is safe to show clients.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
