package devauth

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "dev@example.edu"})
	assert.Error(t, err)

	_, err = NewProvider(Config{UserID: "dev"})
	assert.Error(t, err)

	p, err := NewProvider(Config{UserID: "dev", Email: "dev@example.edu"})
	require.NoError(t, err)

	// With no roles configured the dev account defaults to student.
	ident, err := p.Exchange(context.Background(), ports.ExchangeInput{})
	require.NoError(t, err)
	assert.Equal(t, []domainauth.Role{domainauth.RoleStudent}, ident.Roles)
}

func TestProvider_Authenticate(t *testing.T) {
	p, err := NewProvider(Config{
		UserID: "dev",
		Email:  "dev@example.edu",
		Roles:  []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleStudent},
	})
	require.NoError(t, err)

	ctx := context.Background()

	ident, err := p.Authenticate(ctx, ports.Credentials{Email: "DEV@example.edu", Password: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "dev", ident.UserID)
	assert.ElementsMatch(t,
		[]domainauth.Role{domainauth.RoleAdmin, domainauth.RoleStudent},
		ident.Roles)
	assert.True(t, ident.ExpiresAt.After(time.Now()))

	_, err = p.Authenticate(ctx, ports.Credentials{Email: "someone-else@example.edu"})
	assert.Error(t, err)
}

func TestProvider_BeginReturnsLocalCallback(t *testing.T) {
	p, err := NewProvider(Config{UserID: "dev", Email: "dev@example.edu"})
	require.NoError(t, err)

	authURL, state, nonce, err := p.Begin(context.Background(), ports.BeginInput{})
	require.NoError(t, err)
	assert.Contains(t, authURL, "/auth/callback?code=dev&state=")
	assert.Len(t, state, 24)
	assert.Len(t, nonce, 24)
	assert.NotEqual(t, state, nonce)
}
