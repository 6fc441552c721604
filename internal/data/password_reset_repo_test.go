package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirespherex/portal-api/internal/testutil"
)

func TestPasswordResetRepo_CreateInvalidatesPriorTokens(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewPasswordResetRepo(db)
		user := mustCreateUser(t, db)
		expires := time.Now().Add(time.Hour)

		first, err := repo.Create(ctx, user.ID, "hash-one", expires)
		require.NoError(t, err)
		assert.Nil(t, first.UsedAt)

		second, err := repo.Create(ctx, user.ID, "hash-two", expires)
		require.NoError(t, err)
		assert.Nil(t, second.UsedAt)

		stale, err := repo.GetByHash(ctx, "hash-one")
		require.NoError(t, err)
		assert.NotNil(t, stale.UsedAt)
	})
}

func TestPasswordResetRepo_MarkUsedIsSingleShot(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewPasswordResetRepo(db)
		user := mustCreateUser(t, db)

		token, err := repo.Create(ctx, user.ID, "hash-once", time.Now().Add(time.Hour))
		require.NoError(t, err)

		require.NoError(t, repo.MarkUsed(ctx, token.ID))
		require.ErrorIs(t, repo.MarkUsed(ctx, token.ID), ErrResetTokenNotFound)
	})
}

func TestPasswordResetRepo_GetByHashMissing(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewPasswordResetRepo(db)
		_, err := repo.GetByHash(context.Background(), "no-such-hash")
		require.ErrorIs(t, err, ErrResetTokenNotFound)
	})
}

func TestPasswordResetRepo_PurgeExpired(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewPasswordResetRepo(db)
		user := mustCreateUser(t, db)

		// Pin the repo clock far in the future so both tokens fall past the
		// purge horizon.
		now := time.Now()
		_, err := repo.Create(ctx, user.ID, "hash-old", now.Add(-48*time.Hour))
		require.NoError(t, err)

		repo.clock = &FixedClock{Instant: now.Add(240 * time.Hour)}
		purged, err := repo.PurgeExpired(ctx, 168*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(1), purged)

		repo.clock = systemClock{}
		fresh, err := repo.Create(ctx, user.ID, "hash-fresh", now.Add(time.Hour))
		require.NoError(t, err)

		purged, err = repo.PurgeExpired(ctx, 168*time.Hour)
		require.NoError(t, err)
		assert.Zero(t, purged)

		got, err := repo.GetByHash(ctx, "hash-fresh")
		require.NoError(t, err)
		assert.Equal(t, fresh.ID, got.ID)
	})
}
