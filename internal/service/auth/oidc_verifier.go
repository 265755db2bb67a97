package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/phrazzld/meeting-api/internal/config"
	"github.com/phrazzld/meeting-api/internal/platform/logger"
)

// OIDCVerifier verifies ID tokens issued by an external OpenID Connect
// provider. Signing keys are fetched from the provider's JWKS endpoint and
// cached by go-oidc.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
	issuer   string
}

var _ Verifier = (*OIDCVerifier)(nil)

// NewOIDCVerifier discovers the provider configuration for the configured
// issuer. The audience must equal the project id.
func NewOIDCVerifier(ctx context.Context, cfg config.AuthConfig) (*OIDCVerifier, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("oidc verifier requires a project id")
	}

	issuer := cfg.Issuer()
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider %s: %w", issuer, err)
	}

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ProjectID}),
		issuer:   issuer,
	}, nil
}

// NewOIDCVerifierWithKeySet builds a verifier from an explicit key set,
// skipping discovery. now may be nil.
func NewOIDCVerifierWithKeySet(issuer, audience string, keySet oidc.KeySet, now func() time.Time) *OIDCVerifier {
	return &OIDCVerifier{
		verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{
			ClientID: audience,
			Now:      now,
		}),
		issuer: issuer,
	}
}

type idTokenClaims struct {
	Email string `json:"email"`
}

// VerifyToken implements Verifier.
func (v *OIDCVerifier) VerifyToken(ctx context.Context, tokenString string) (*Identity, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	idToken, err := v.verifier.Verify(ctx, tokenString)
	if err != nil {
		var expired *oidc.TokenExpiredError
		if errors.As(err, &expired) {
			log.Debug("id token validation failed: token expired", "expiry", expired.Expiry)
			return nil, ErrExpiredToken
		}
		// go-oidc flattens a JWKS fetch failure into the signature error text.
		if strings.Contains(err.Error(), "fetching keys") {
			log.Error("signing keys could not be fetched", "error", err, "issuer", v.issuer)
			return nil, fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
		}
		log.Debug("id token validation failed", "error", err, "issuer", v.issuer)
		return nil, ErrInvalidToken
	}

	if idToken.Subject == "" {
		log.Debug("id token validation failed: empty subject")
		return nil, ErrInvalidToken
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		log.Debug("id token claims could not be decoded", "error", err)
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: idToken.Subject, Email: claims.Email}, nil
}
