package mocks

import (
	"context"

	"github.com/phrazzld/meeting-api/internal/service/auth"
)

// MockVerifier implements auth.Verifier for testing.
type MockVerifier struct {
	// VerifyTokenFn allows test cases to mock the VerifyToken behavior
	VerifyTokenFn func(ctx context.Context, token string) (*auth.Identity, error)

	// Defaults used when VerifyTokenFn is nil
	Identity *auth.Identity
	Err      error

	// Calls counts VerifyToken invocations.
	Calls int
}

var _ auth.Verifier = (*MockVerifier)(nil)

// VerifyToken implements auth.Verifier.
func (m *MockVerifier) VerifyToken(ctx context.Context, token string) (*auth.Identity, error) {
	m.Calls++
	if m.VerifyTokenFn != nil {
		return m.VerifyTokenFn(ctx, token)
	}
	return m.Identity, m.Err
}

// TokenMapVerifier accepts a fixed set of tokens, each mapped to a user id.
// Unknown tokens fail with auth.ErrInvalidToken.
type TokenMapVerifier map[string]string

// VerifyToken implements auth.Verifier.
func (v TokenMapVerifier) VerifyToken(_ context.Context, token string) (*auth.Identity, error) {
	userID, ok := v[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Identity{UserID: userID}, nil
}
