package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
)

func TestParseUserCreateFlags(t *testing.T) {
	opts, err := parseUserCreateFlags([]string{
		"-email", "ops@campus.edu",
		"-first-name", "Ops",
		"-password", "super-secret",
		"-roles", "admin; student placement cell",
	})
	require.NoError(t, err)
	require.Equal(t, "ops@campus.edu", opts.Email)
	require.Equal(t, []domainauth.Role{domainauth.RoleAdmin, domainauth.RolePlacementCell}, opts.Roles)
}

func TestParseUserCreateFlagsRejectsUnknownRole(t *testing.T) {
	_, err := parseUserCreateFlags([]string{
		"-email", "ops@campus.edu",
		"-first-name", "Ops",
		"-password", "super-secret",
		"-roles", "superuser",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown role")
}

func TestParseUserCreateFlagsRequiresEmail(t *testing.T) {
	_, err := parseUserCreateFlags([]string{
		"-first-name", "Ops",
		"-password", "super-secret",
	})
	require.Error(t, err)
}

func TestParseClearSessionFlagsRequiresTarget(t *testing.T) {
	_, err := parseClearSessionFlags(nil)
	require.Error(t, err)

	_, err = parseClearSessionFlags([]string{"-user-id", "u1", "-all"})
	require.Error(t, err)

	opts, err := parseClearSessionFlags([]string{"-all", "-dry-run"})
	require.NoError(t, err)
	require.True(t, opts.All)
	require.True(t, opts.DryRun)
}

func TestParsePurgeResetTokenFlagsDefault(t *testing.T) {
	opts, err := parsePurgeResetTokenFlags(nil)
	require.NoError(t, err)
	require.Equal(t, 168*time.Hour, opts.OlderThan)

	_, err = parsePurgeResetTokenFlags([]string{"-older-than", "-1h"})
	require.Error(t, err)
}

func TestIsLikelyRemoteHost(t *testing.T) {
	require.False(t, isLikelyRemoteHost("localhost"))
	require.False(t, isLikelyRemoteHost("127.0.0.1"))
	require.False(t, isLikelyRemoteHost("::1"))
	require.False(t, isLikelyRemoteHost("db.local"))
	require.False(t, isLikelyRemoteHost(""))
	require.True(t, isLikelyRemoteHost("db.prod.example.com"))
	require.True(t, isLikelyRemoteHost("10.1.2.3"))
}

func TestDBResetConfirmOptionsRemoteHostForcesPrompt(t *testing.T) {
	opts := dbResetConfirmOptions{yes: true, target: "database \"portal\" on db:5432"}
	require.True(t, opts.IsYes())

	opts.remoteHost = "db.prod.example.com"
	require.False(t, opts.IsYes())
	require.Contains(t, opts.GetWarning(), "db.prod.example.com")
}
