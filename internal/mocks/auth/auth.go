package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SSOProvider           = (*MockSSOProvider)(nil)
	_ ports.PasswordAuthenticator = (*MockPasswordAuthenticator)(nil)
	_ ports.SessionStore          = (*MemorySessionStore)(nil)
	_ ports.PendingLoginStore     = (*MemoryPendingLoginStore)(nil)
)

// MockSSOProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockSSOProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	// Internal state tracking for deterministic behavior
	callCount int
}

// NewMockSSOProvider creates a MockSSOProvider with sensible defaults.
func NewMockSSOProvider() *MockSSOProvider {
	return &MockSSOProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			UserID:    "mock-user-1",
			FirstName: "Mock",
			LastName:  "User",
			Email:     "mock.user@example.edu",
			Roles:     []domainauth.Role{domainauth.RoleStudent},
			Groups:    []string{"students"},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockSSOProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockSSOProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.UserID == "" {
		user = domainauth.Identity{
			UserID:    "mock-user-1",
			FirstName: "Mock",
			LastName:  "User",
			Email:     "mock.user@example.edu",
			Roles:     []domainauth.Role{domainauth.RoleStudent},
			Groups:    []string{"students"},
		}
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}

// MockPasswordAuthenticator verifies credentials against a fixed user table.
type MockPasswordAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error)

	// Users maps email to the identity returned for the Password below.
	Users    map[string]domainauth.Identity
	Password string
}

// NewMockPasswordAuthenticator creates a MockPasswordAuthenticator with one default user.
func NewMockPasswordAuthenticator() *MockPasswordAuthenticator {
	return &MockPasswordAuthenticator{
		Users: map[string]domainauth.Identity{
			"mock.user@example.edu": {
				UserID:    "mock-user-1",
				FirstName: "Mock",
				LastName:  "User",
				Email:     "mock.user@example.edu",
				Roles:     []domainauth.Role{domainauth.RoleStudent},
			},
		},
		Password: "password123",
	}
}

// ErrBadCredentials is returned by MockPasswordAuthenticator on mismatch.
var ErrBadCredentials = errors.New("invalid credentials")

func (m *MockPasswordAuthenticator) Authenticate(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, creds)
	}
	ident, ok := m.Users[creds.Email]
	if !ok || creds.Password != m.Password {
		return domainauth.Identity{}, ErrBadCredentials
	}
	if ident.ExpiresAt.IsZero() {
		ident.ExpiresAt = time.Now().Add(time.Hour)
	}
	return ident, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	delete(m.sessions, id)
	return nil
}

// MemoryPendingLoginStore is an in-memory pending login store for unit tests.
type MemoryPendingLoginStore struct {
	pending map[string]ports.PendingLogin
}

// NewMemoryPendingLoginStore creates a new in-memory pending login store.
func NewMemoryPendingLoginStore() *MemoryPendingLoginStore {
	return &MemoryPendingLoginStore{
		pending: make(map[string]ports.PendingLogin),
	}
}

func (m *MemoryPendingLoginStore) Save(_ context.Context, p ports.PendingLogin) error {
	if p.Token == "" {
		return errors.New("pending login token cannot be empty")
	}
	m.pending[p.Token] = p
	return nil
}

func (m *MemoryPendingLoginStore) Get(_ context.Context, token string) (ports.PendingLogin, error) {
	p, ok := m.pending[token]
	if !ok {
		return ports.PendingLogin{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryPendingLoginStore) Delete(_ context.Context, token string) error {
	delete(m.pending, token)
	return nil
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}
