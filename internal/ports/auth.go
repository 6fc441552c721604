package ports

// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
)

// Credentials carries an email/password pair for the credentials provider.
type Credentials struct {
	Email    string
	Password string
}

// PasswordAuthenticator verifies a credentials pair and returns the
// authenticated identity with its granted role set.
type PasswordAuthenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (domainauth.Identity, error)
}

// BeginInput carries inputs for initiating an SSO flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the SSO code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOProvider initiates and completes an authentication flow against an IdP.
// Used when the portal runs in oauth mode instead of local credentials.
type SSOProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// PendingLogin is the transient record created when a multi-role user has
// authenticated but not yet chosen an active role. Token is the opaque
// transient identifier handed to the client for the select-role call.
type PendingLogin struct {
	Token    string
	Identity domainauth.Identity
}

// PendingLoginStore persists pending logins with a short TTL.
type PendingLoginStore interface {
	Save(ctx context.Context, p PendingLogin) error
	Get(ctx context.Context, token string) (PendingLogin, error)
	Delete(ctx context.Context, token string) error
}

// RoleMapper maps IdP groups to application roles (oauth mode only; the
// credentials provider reads roles straight from the users table).
type RoleMapper interface {
	Map(groups []string) []domainauth.Role
}
