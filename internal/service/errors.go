package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in MeetingServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates the caller attempted a write reserved for the meeting's creator.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrNotParticipant indicates the caller is neither the creator nor a participant.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotParticipant = errors.New("caller is not a participant of this meeting")

	// ErrMissingIdentity indicates an operation was invoked without a verified caller.
	ErrMissingIdentity = errors.New("verified caller identity is required")
)

// MeetingServiceError is a custom error type for meeting service errors.
type MeetingServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for MeetingServiceError.
func (e *MeetingServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("meeting service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("meeting service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *MeetingServiceError) Unwrap() error {
	return e.Err
}

// NewMeetingServiceError creates a new MeetingServiceError.
func NewMeetingServiceError(operation, message string, err error) *MeetingServiceError {
	return &MeetingServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
