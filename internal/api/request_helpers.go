package api

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/meeting-api/internal/api/middleware"
	"github.com/phrazzld/meeting-api/internal/domain"
)

// getUserIDFromContext extracts the verified caller's user id from the
// request context, where the authentication middleware placed it.
func getUserIDFromContext(r *http.Request) (string, bool) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		return "", false
	}
	return identity.UserID, true
}

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// participantParam returns the decoded participantId path segment. chi matches
// against the escaped path whenever the URL has one, so ids containing "/" or
// other reserved characters arrive still percent-encoded.
func participantParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "participantId")
	if r.URL.RawPath == "" {
		return raw, nil
	}
	return url.PathUnescape(raw)
}

// handleUserIDAndPathUUID extracts both the caller's user id and a UUID path
// parameter. It writes an error response and returns false if either fails.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (string, uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return "", uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return "", uuid.Nil, false
	}

	return userID, pathID, true
}
