package credauth

import (
	"context"
	"errors"
	"testing"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserSource struct {
	users map[string]UserRecord
	err   error
}

func (f *fakeUserSource) FindCredentialsByEmail(_ context.Context, email string) (UserRecord, error) {
	if f.err != nil {
		return UserRecord{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return UserRecord{}, ErrNoUser
	}
	return u, nil
}

func newSource(t *testing.T, password string, active bool, roles ...domainauth.Role) *fakeUserSource {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &fakeUserSource{users: map[string]UserRecord{
		"user@example.edu": {
			ID:           "user-1",
			Email:        "user@example.edu",
			FirstName:    "Asha",
			LastName:     "Verma",
			PasswordHash: hash,
			Roles:        roles,
			Active:       active,
		},
	}}
}

func TestAuthenticate_Success(t *testing.T) {
	p := NewProvider(newSource(t, "correct horse", true, domainauth.RoleStudent, domainauth.RoleAdmin), 0)

	ident, err := p.Authenticate(context.Background(), ports.Credentials{
		Email:    "User@Example.EDU",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", ident.UserID)
	assert.ElementsMatch(t,
		[]domainauth.Role{domainauth.RoleStudent, domainauth.RoleAdmin},
		ident.Roles)
	assert.False(t, ident.ExpiresAt.IsZero())
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	p := NewProvider(newSource(t, "correct horse", true, domainauth.RoleStudent), 0)

	_, err := p.Authenticate(context.Background(), ports.Credentials{
		Email:    "user@example.edu",
		Password: "battery staple",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	p := NewProvider(newSource(t, "correct horse", true, domainauth.RoleStudent), 0)

	_, err := p.Authenticate(context.Background(), ports.Credentials{
		Email:    "ghost@example.edu",
		Password: "anything",
	})
	// Unknown email and wrong password must be indistinguishable.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_EmptyInputs(t *testing.T) {
	p := NewProvider(&fakeUserSource{}, 0)

	_, err := p.Authenticate(context.Background(), ports.Credentials{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.Authenticate(context.Background(), ports.Credentials{Email: "user@example.edu"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_DisabledAccount(t *testing.T) {
	p := NewProvider(newSource(t, "correct horse", false, domainauth.RoleStudent), 0)

	_, err := p.Authenticate(context.Background(), ports.Credentials{
		Email:    "user@example.edu",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthenticate_LookupFailure(t *testing.T) {
	p := NewProvider(&fakeUserSource{err: errors.New("connection refused")}, 0)

	_, err := p.Authenticate(context.Background(), ports.Credentials{
		Email:    "user@example.edu",
		Password: "pw",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
