package redis

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/ports"
	"github.com/hirespherex/portal-api/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func testSession(id string) domainauth.Session {
	return domainauth.NewSession(id, domainauth.Identity{
		UserID:    "user-123",
		Email:     "user@example.edu",
		FirstName: "Test",
		LastName:  "User",
		Roles:     []domainauth.Role{domainauth.RoleStudent, domainauth.RoleAdmin},
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}, "")
}

func TestSessionStore_SaveAndGet_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := testSession("test-session-1")
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, session.Roles, retrieved.Roles)
	assert.Equal(t, session.ActiveRole, retrieved.ActiveRole)
	assert.Equal(t, session.State, retrieved.State)
	assert.Equal(t, session.SchemaVersion, retrieved.SchemaVersion)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_SaveRejectsExpired(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)

	session := testSession("expired-session")
	session.ExpiresAt = time.Now().Add(-time.Minute)

	err := store.Save(context.Background(), session)
	assert.Error(t, err)
}

func TestSessionStore_CorruptPayloadSelfHeals(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	// Write an unparseable payload directly under the session key.
	require.NoError(t, client.Set(ctx, "session:corrupt-1", "{not json", time.Minute).Err())

	_, err := store.Get(ctx, "corrupt-1")
	assert.Equal(t, ErrNotFound, err)

	// The corrupted key must have been removed.
	exists, err := client.Exists(ctx, "session:corrupt-1").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestSessionStore_UnknownSchemaVersionDiscarded(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	payload := `{"schema_version":99,"id":"future-1","user_id":"u","roles":["student"],"active_role":"student","state":"stable","expires_at":"2099-01-01T00:00:00Z"}`
	require.NoError(t, client.Set(ctx, "session:future-1", payload, time.Minute).Err())

	_, err := store.Get(ctx, "future-1")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Delete_Idempotent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := testSession("delete-me")
	require.NoError(t, store.Save(ctx, session))

	require.NoError(t, store.Delete(ctx, "delete-me"))
	require.NoError(t, store.Delete(ctx, "delete-me"))
	require.NoError(t, store.Delete(ctx, ""))

	_, err := store.Get(ctx, "delete-me")
	assert.Equal(t, ErrNotFound, err)
}

func TestPendingLoginStore_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewPendingLoginStore(client)
	ctx := context.Background()

	pending := ports.PendingLogin{
		Token: "tok-1",
		Identity: domainauth.Identity{
			UserID: "user-9",
			Email:  "multi@example.edu",
			Roles:  []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleStudent},
		},
	}
	require.NoError(t, store.Save(ctx, pending))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, pending.Identity.UserID, got.Identity.UserID)
	assert.Equal(t, pending.Identity.Roles, got.Identity.Roles)

	require.NoError(t, store.Delete(ctx, "tok-1"))
	_, err = store.Get(ctx, "tok-1")
	assert.Equal(t, ErrNotFound, err)
}
