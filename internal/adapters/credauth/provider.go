package credauth

// Package credauth implements the PasswordAuthenticator port against the
// portal's own users table, for deployments that do not front the portal
// with an external IdP.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong email or password. The handler
	// maps it to a generic 401 so the two cases are indistinguishable to
	// the caller.
	ErrInvalidCredentials = errors.New("credauth: invalid credentials")
	// ErrAccountDisabled signals a deactivated account.
	ErrAccountDisabled = errors.New("credauth: account disabled")
)

// UserRecord is the credential view of a user the authenticator needs.
type UserRecord struct {
	ID           string
	Email        string
	FirstName    string
	MiddleName   string
	LastName     string
	PhoneNumber  string
	PasswordHash string
	Roles        []domainauth.Role
	Active       bool
}

// UserSource looks up credential records by email. The data layer's user
// repository implements it.
type UserSource interface {
	FindCredentialsByEmail(ctx context.Context, email string) (UserRecord, error)
	// ErrNoUser must be returned (possibly wrapped) when no account exists.
}

// ErrNoUser is the sentinel a UserSource returns for an unknown email.
var ErrNoUser = errors.New("credauth: no such user")

// Provider verifies email/password pairs with bcrypt.
type Provider struct {
	users           UserSource
	sessionDuration time.Duration
}

// NewProvider constructs a credentials provider. sessionDuration bounds the
// lifetime of sessions created from a successful login; zero means 8h.
func NewProvider(users UserSource, sessionDuration time.Duration) *Provider {
	if sessionDuration == 0 {
		sessionDuration = 8 * time.Hour
	}
	return &Provider{users: users, sessionDuration: sessionDuration}
}

// Authenticate implements ports.PasswordAuthenticator.
func (p *Provider) Authenticate(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return domainauth.Identity{}, ErrInvalidCredentials
	}

	user, err := p.users.FindCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			// Burn a comparison anyway so unknown emails take as long as
			// wrong passwords.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
			return domainauth.Identity{}, ErrInvalidCredentials
		}
		return domainauth.Identity{}, fmt.Errorf("credauth: lookup user: %w", err)
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); cmpErr != nil {
		return domainauth.Identity{}, ErrInvalidCredentials
	}
	if !user.Active {
		return domainauth.Identity{}, ErrAccountDisabled
	}

	return domainauth.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		MiddleName:  user.MiddleName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		Roles:       domainauth.NormalizeRoles(user.Roles),
		ExpiresAt:   time.Now().Add(p.sessionDuration),
	}, nil
}

// HashPassword produces a bcrypt hash for storage. Shared with the password
// reset and admin user-creation flows so cost stays consistent.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("credauth: hash password: %w", err)
	}
	return string(hash), nil
}

// dummyHash is a valid bcrypt hash of an unguessable string, used to keep
// timing uniform for unknown accounts.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
