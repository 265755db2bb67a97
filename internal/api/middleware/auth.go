package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/meeting-api/internal/api/shared"
	"github.com/phrazzld/meeting-api/internal/service/auth"
)

// AuthMiddleware rejects requests without a verified bearer credential.
type AuthMiddleware struct {
	verifier auth.Verifier
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(verifier auth.Verifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate verifies the bearer token in the Authorization header and
// adds the caller's identity to the request context. Requests that fail
// never reach next.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized: Invalid authorization format")
			return
		}

		identity, err := m.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Unauthorized: Token expired", err,
					shared.WithElevatedLogLevel())
			case auth.IsAuthError(err):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Unauthorized: Invalid token", err,
					shared.WithElevatedLogLevel())
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Authentication error", err, shared.WithDetails(err.Error()))
			}
			return
		}
		if identity == nil || identity.UserID == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		ctx := shared.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the verified caller from the request context.
func GetIdentity(r *http.Request) (*auth.Identity, bool) {
	return shared.IdentityFromContext(r.Context())
}
