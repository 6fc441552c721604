package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
	"github.com/hirespherex/portal-api/internal/testutil"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		created, err := repo.Create(ctx, &model.CreateUserRequest{
			Email:     "asha.verma@example.edu",
			FirstName: "Asha",
			LastName:  testutil.StringPtr("Verma"),
			Roles:     []domainauth.Role{domainauth.RoleStudent, domainauth.RoleAdmin},
		}, "bcrypt-hash")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.True(t, created.Active)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "asha.verma@example.edu", got.Email)
		assert.Equal(t, "bcrypt-hash", got.PasswordHash)
		assert.ElementsMatch(t,
			[]domainauth.Role{domainauth.RoleStudent, domainauth.RoleAdmin}, got.Roles)
	})
}

func TestUserRepo_GetByEmailNormalizesInput(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		created := mustCreateUser(t, db)

		got, err := repo.GetByEmail(context.Background(), "  "+created.Email+"  ")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})
}

func TestUserRepo_DuplicateEmailIsConflict(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		created := mustCreateUser(t, db)

		_, err := repo.Create(ctx, &model.CreateUserRequest{
			Email:     created.Email,
			FirstName: "Duplicate",
			Roles:     []domainauth.Role{domainauth.RoleStudent},
		}, "hash")
		require.ErrorIs(t, err, ErrUserEmailExists)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestUserRepo_GetMissingUser(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepo_UpdateReplacesRoleGrants(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		created := mustCreateUser(t, db, domainauth.RoleStudent)

		roles := []domainauth.Role{domainauth.RolePlacementCell}
		updated, err := repo.Update(ctx, created.ID, model.UpdateUserRequest{
			FirstName: testutil.StringPtr("Renamed"),
			Roles:     &roles,
			Active:    testutil.BoolPtr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.FirstName)
		assert.False(t, updated.Active)
		assert.Equal(t, []domainauth.Role{domainauth.RolePlacementCell}, updated.Roles)
	})
}

func TestUserRepo_UpdatePassword(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		created := mustCreateUser(t, db)

		require.NoError(t, repo.UpdatePassword(ctx, created.ID, "new-hash"))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)

		err = repo.UpdatePassword(ctx, "00000000-0000-0000-0000-000000000000", "x")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepo_ListWithOptions(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		student := mustCreateUser(t, db, domainauth.RoleStudent)
		cell := mustCreateUser(t, db, domainauth.RolePlacementCell)

		all, err := repo.ListWithOptions(ctx, model.UsersListOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		role := domainauth.RolePlacementCell
		cellOnly, err := repo.ListWithOptions(ctx, model.UsersListOptions{Role: &role})
		require.NoError(t, err)
		require.Len(t, cellOnly, 1)
		assert.Equal(t, cell.ID, cellOnly[0].ID)

		q := student.Email
		matched, err := repo.ListWithOptions(ctx, model.UsersListOptions{Q: &q})
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, student.ID, matched[0].ID)
	})
}

func TestUserRepo_DeleteCascadesRolesButNotStudents(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		plain := mustCreateUser(t, db)
		deleted, err := repo.Delete(ctx, plain.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, plain.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		enrolled := mustCreateUser(t, db)
		mustCreateStudent(t, db, enrolled.ID)
		_, err = repo.Delete(ctx, enrolled.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsForeignKey(err))
	})
}
