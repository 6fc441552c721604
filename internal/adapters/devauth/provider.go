package devauth

// Package devauth provides a config-driven auth provider for local
// development. It serves both auth modes: as an SSOProvider it
// short-circuits the OAuth dance with a local callback, and as a
// PasswordAuthenticator it accepts any password for the configured account.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	UserID          string
	Email           string
	FirstName       string
	LastName        string
	Roles           []domainauth.Role
	SessionDuration time.Duration // default 8h when zero
}

// Provider returns the single configured identity for every login attempt.
type Provider struct {
	cfg Config
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	cfg.Roles = domainauth.NormalizeRoles(cfg.Roles)
	if len(cfg.Roles) == 0 {
		cfg.Roles = []domainauth.Role{domainauth.RoleStudent}
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = 8 * time.Hour
	}
	return &Provider{cfg: cfg}, nil
}

func (p *Provider) identity() domainauth.Identity {
	return domainauth.Identity{
		UserID:    p.cfg.UserID,
		Email:     p.cfg.Email,
		FirstName: p.cfg.FirstName,
		LastName:  p.cfg.LastName,
		Roles:     append([]domainauth.Role(nil), p.cfg.Roles...),
		ExpiresAt: time.Now().Add(p.cfg.SessionDuration),
	}
}

// Authenticate implements ports.PasswordAuthenticator. The email must match
// the configured account (case-insensitively); the password is ignored.
func (p *Provider) Authenticate(_ context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	if !strings.EqualFold(creds.Email, p.cfg.Email) {
		return domainauth.Identity{}, errors.New("dev auth: unknown account")
	}
	return p.identity(), nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// The standard handler expects GET /auth/callback?code=...&state=...
	authURL := "/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by the
// handler) and returns the configured identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	return p.identity(), nil
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
