// Package mocks provides centralized mock implementations for testing.
//
// Two styles are offered:
//
//   - function-field mocks (MockVerifier) for simple, stateless behavior
//   - testify/mock based mocks (TestifyMockMeetingStore) when a test needs to
//     assert which calls were made, or that none were
//
// Usage:
//
//	verifier := &mocks.MockVerifier{
//	    VerifyTokenFn: func(ctx context.Context, token string) (*auth.Identity, error) {
//	        return &auth.Identity{UserID: "user-1"}, nil
//	    },
//	}
package mocks
