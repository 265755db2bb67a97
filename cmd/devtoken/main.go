// Command devtoken mints an HS256 bearer token for local development. It
// reads the same auth configuration as the server, so the token verifies
// against a server running with auth.provider=jwt and the same secret. Store
// settings are ignored.
//
//	MEETINGS_AUTH_JWT_SECRET=... go run ./cmd/devtoken -user alice -email alice@example.com
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/phrazzld/meeting-api/internal/config"
	"github.com/phrazzld/meeting-api/internal/service/auth"
)

func main() {
	userID := flag.String("user", "", "user id placed in the sub claim (required)")
	email := flag.String("email", "", "optional email claim")
	flag.Parse()

	if err := run(context.Background(), os.Stdout, *userID, *email); err != nil {
		log.Fatalf("devtoken: %v", err)
	}
}

func run(ctx context.Context, out io.Writer, userID, email string) error {
	if userID == "" {
		return errors.New("-user is required")
	}

	authCfg, err := config.LoadAuth()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if authCfg.Provider != config.ProviderJWT {
		return fmt.Errorf("auth provider is %q, tokens can only be minted for %q",
			authCfg.Provider, config.ProviderJWT)
	}

	svc, err := auth.NewJWTService(*authCfg)
	if err != nil {
		return err
	}

	token, err := svc.GenerateToken(ctx, userID, email)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
