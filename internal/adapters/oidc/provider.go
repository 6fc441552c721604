package oidc

// Package oidc implements the SSOProvider port against a standards-compliant
// OIDC identity provider, for campuses that front the portal with their own
// IdP instead of local credentials.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/ports"
	"golang.org/x/oauth2"
)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	IssuerURL    string
	LogoutURL    string
	HTTPClient   *http.Client // optional, defaults to a 30s-timeout client
}

// Provider implements ports.SSOProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	logoutURL  string
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// NewProvider creates a new OIDC provider. It performs the discovery fetch
// once, at construction.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{
		logoutURL:  cfg.LogoutURL,
		httpClient: httpClient,
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: cfg.ClientID})

	p.config = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       strings.Fields(cfg.Scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// LogoutURL returns the IdP logout endpoint, empty when not configured.
func (p *Provider) LogoutURL() string { return p.logoutURL }

// Begin starts the authorization-code flow and returns the provider auth
// URL plus freshly generated state and nonce for the caller to persist.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)

	return authURL, state, nonce, nil
}

// Exchange completes the code flow, verifies the ID token and nonce, and
// returns the authenticated identity. Group names are carried through
// verbatim for the role mapper.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	claims, err := p.claimsFromIDToken(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
	}

	// Fill missing fields from the userinfo endpoint.
	if claims.Email == "" || claims.Subject == "" {
		if fillErr := p.fillFromUserInfo(ctx, token.AccessToken, &claims); fillErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", fillErr)
		}
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return domainauth.Identity{
		UserID:      claims.Subject,
		Email:       claims.Email,
		FirstName:   claims.GivenName,
		MiddleName:  claims.MiddleName,
		LastName:    claims.FamilyName,
		PhoneNumber: claims.PhoneNumber,
		Groups:      claims.Groups,
		ExpiresAt:   expiresAt,
	}, nil
}

// profileClaims covers the standard OIDC profile claims the portal consumes,
// from both the ID token and the userinfo endpoint.
type profileClaims struct {
	Subject     string   `json:"sub"`
	Email       string   `json:"email"`
	GivenName   string   `json:"given_name"`
	MiddleName  string   `json:"middle_name"`
	FamilyName  string   `json:"family_name"`
	PhoneNumber string   `json:"phone_number"`
	Groups      []string `json:"groups"`
	Nonce       string   `json:"nonce"`
}

func (p *Provider) claimsFromIDToken(ctx context.Context, tok *oauth2.Token, expectedNonce string) (profileClaims, error) {
	var claims profileClaims
	if !p.hasOpenIDScope() {
		return claims, nil
	}
	rawID, err := idTokenFrom(tok)
	if err != nil {
		return claims, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return claims, fmt.Errorf("verify id_token: %w", err)
	}
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return claims, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if expectedNonce != "" && claims.Nonce != expectedNonce {
		return profileClaims{}, errors.New("invalid nonce")
	}
	return claims, nil
}

func (p *Provider) fillFromUserInfo(ctx context.Context, accessToken string, claims *profileClaims) error {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}
	var info profileClaims
	if claimsErr := ui.Claims(&info); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}

	for _, field := range []struct {
		dst *string
		src string
	}{
		{&claims.Subject, info.Subject},
		{&claims.Email, info.Email},
		{&claims.GivenName, info.GivenName},
		{&claims.MiddleName, info.MiddleName},
		{&claims.FamilyName, info.FamilyName},
		{&claims.PhoneNumber, info.PhoneNumber},
	} {
		if *field.dst == "" {
			*field.dst = field.src
		}
	}
	if len(claims.Groups) == 0 {
		claims.Groups = info.Groups
	}
	return nil
}

// generateRandomString returns a cryptographically secure URL-safe random
// string of exactly length characters.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	var s string
	for len(s) < length {
		b := make([]byte, (length*3+3)/4)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(b)
	}
	return s[:length], nil
}

func (p *Provider) hasOpenIDScope() bool {
	return slices.Contains(p.config.Scopes, "openid")
}

func idTokenFrom(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
