package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTimeout bounds how long Authorize waits for the user.
const DefaultTimeout = 5 * time.Minute

// Options tune Authorize.
type Options struct {
	// Port for the loopback callback server; 0 picks a free port.
	Port int

	// Timeout for the user to finish in the browser.
	Timeout time.Duration

	// Open shows the authorization URL to the user, usually in a browser.
	Open func(url string) error
}

// Authorize runs the authorization code flow with PKCE against conf and
// returns the token. conf.RedirectURL is set to the loopback callback.
func Authorize(ctx context.Context, conf *oauth2.Config, opts Options) (*oauth2.Token, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	server := NewCallbackServer(opts.Port, state)
	if err := server.Start(); err != nil {
		return nil, err
	}
	defer server.Stop() //nolint:errcheck

	conf.RedirectURL = server.RedirectURI()
	verifier := oauth2.GenerateVerifier()
	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)

	if opts.Open != nil {
		if err := opts.Open(authURL); err != nil {
			return nil, fmt.Errorf("open authorization URL: %w", err)
		}
	}

	code, err := server.WaitForCode(ctx, opts.Timeout)
	if err != nil {
		return nil, err
	}

	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if tok.RefreshToken == "" {
		return nil, errors.New("provider returned no refresh token")
	}
	return tok, nil
}

// generateState creates a random state parameter for CSRF protection.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
