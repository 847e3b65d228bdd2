package devauth

// Package devauth provides a config-driven AuthProvider for local development.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// Config controls the dev auth provider. UserID and Email are required.
type Config struct {
	UserID      string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Provider implements ports.AuthProvider for local development. It
// short-circuits the OAuth flow by redirecting back to our own callback with
// locally generated state and nonce; Exchange returns the configured identity
// regardless of code.
type Provider struct {
	identity domainsession.Identity
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	return &Provider{
		identity: domainsession.Identity{
			ID:          cfg.UserID,
			Email:       cfg.Email,
			DisplayName: cfg.DisplayName,
			AvatarURL:   cfg.AvatarURL,
		},
	}, nil
}

// Begin returns a local callback URL and cryptographically secure state and
// nonce. The standard handler expects GET /auth/callback?code=...&state=...
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	authURL := "/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores code/state/nonce (the handler validates those) and returns
// the configured identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainsession.Identity, error) {
	return p.identity, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}

var _ ports.AuthProvider = (*Provider)(nil)
