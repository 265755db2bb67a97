package auth

import (
	"context"
	"time"
)

// Identity is the verified caller of a request.
type Identity struct {
	// UserID is the stable identifier assigned by the identity provider.
	UserID string
	Email  string
}

// Verifier checks a bearer token and returns the identity it asserts.
// Implementations return ErrInvalidToken, ErrExpiredToken or
// ErrTokenNotYetValid for tokens that fail verification. Any other error
// indicates the verifier itself could not do its job.
type Verifier interface {
	VerifyToken(ctx context.Context, tokenString string) (*Identity, error)
}

// JWTService issues and verifies HS256-signed access tokens.
type JWTService interface {
	Verifier

	// GenerateToken creates a signed JWT access token for the user.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, userID, email string) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// UserID mirrors the subject claim.
	UserID string `json:"sub,omitempty"`
	Email  string `json:"email,omitempty"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
