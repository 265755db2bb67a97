// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when an operation is attempted without a verified identity.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// Meeting-specific validation errors. All of them wrap ErrValidation.
var (
	ErrEmptyMeetingTitle     = fmt.Errorf("%w: title is required", ErrValidation)
	ErrInvalidMeetingDate    = fmt.Errorf("%w: invalid date format", ErrValidation)
	ErrEmptyMeetingCreator   = fmt.Errorf("%w: meeting creator cannot be empty", ErrValidation)
	ErrEmptyParticipantID    = fmt.Errorf("%w: participant ID is required", ErrValidation)
	ErrParticipantExists     = fmt.Errorf("%w: participant already added to meeting", ErrValidation)
	ErrParticipantNotInList  = fmt.Errorf("%w: participant not found in meeting", ErrValidation)
	ErrMeetingTimestampOrder = fmt.Errorf("%w: updatedAt cannot precede createdAt", ErrValidation)
)

// ValidationError describes a validation failure on a single field.
// It unwraps to the sentinel passed at construction so callers can
// keep using errors.Is against the domain errors.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for field. If err is nil the
// error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
