// Package service provides the application-level operations on meetings:
// access control, validation and the read-modify-write cycles that sit
// between the HTTP handlers and the meeting store.
//
// Services receive the caller's user id from the API layer, never from the
// request body, and return sentinel errors (ErrNotOwned, ErrNotParticipant,
// store.ErrMeetingNotFound and the domain validation errors) wrapped in a
// MeetingServiceError so the API layer can map them with errors.Is.
package service
