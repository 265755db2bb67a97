package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/meeting-api/internal/api/shared"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/phrazzld/meeting-api/internal/service"
	"github.com/phrazzld/meeting-api/internal/service/auth"
	"github.com/phrazzld/meeting-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case auth.IsAuthError(err),
		errors.Is(err, service.ErrMissingIdentity),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrNotParticipant):
		return http.StatusForbidden

	// Not found errors. A malformed meeting id cannot name an existing meeting.
	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for the error.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Unauthorized: Token expired"
	case auth.IsAuthError(err),
		errors.Is(err, service.ErrMissingIdentity),
		errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, service.ErrNotOwned):
		return "Forbidden: Only the meeting creator can perform this action"
	case errors.Is(err, service.ErrNotParticipant):
		return "Forbidden: You do not have access to this meeting"

	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrInvalidID):
		return "Meeting not found"

	case errors.Is(err, domain.ErrEmptyMeetingTitle):
		return "Title is required"
	case errors.Is(err, domain.ErrInvalidMeetingDate):
		return "Invalid date format"
	case errors.Is(err, domain.ErrEmptyParticipantID):
		return "Participant ID is required"
	case errors.Is(err, domain.ErrParticipantExists):
		return "Participant already added to meeting"
	case errors.Is(err, domain.ErrParticipantNotInList):
		return "Participant not found in meeting"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error envelope for err. For server errors the
// response uses serverMessage, when given, and carries the underlying error
// text in details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, serverMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	if status == http.StatusInternalServerError {
		if serverMessage != "" {
			message = serverMessage
		}
		shared.RespondWithErrorAndLog(w, r, status, message, err, shared.WithDetails(err.Error()))
		return
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
