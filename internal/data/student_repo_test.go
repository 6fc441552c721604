package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
	"github.com/hirespherex/portal-api/internal/testutil"
)

func TestStudentRepo_CreateAndGet(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStudentRepo(db)
		user := mustCreateUser(t, db)

		created, err := repo.Create(ctx, &model.CreateStudentProfileRequest{
			UserID:           user.ID,
			EnrollmentNumber: "EN2024042",
			Program:          testutil.StringPtr("B.Tech CSE"),
			CGPA:             testutil.Float64Ptr(8.4),
			JoiningYear:      2024,
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, created.UserID)
		assert.False(t, created.Verified)
		assert.False(t, created.Placed)

		got, err := repo.GetByEnrollmentNumber(ctx, "EN2024042")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.UserID)
		require.NotNil(t, got.CGPA)
		assert.InDelta(t, 8.4, *got.CGPA, 0.001)
	})
}

func TestStudentRepo_CreateUnknownUserIsForeignKey(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewStudentRepo(db)
		_, err := repo.Create(context.Background(), &model.CreateStudentProfileRequest{
			UserID:           "00000000-0000-0000-0000-000000000000",
			EnrollmentNumber: "EN2024043",
			JoiningYear:      2024,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsForeignKey(err))
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestStudentRepo_DuplicateEnrollmentIsConflict(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStudentRepo(db)
		first := mustCreateStudent(t, db, mustCreateUser(t, db).ID)

		other := mustCreateUser(t, db)
		_, err := repo.Create(ctx, &model.CreateStudentProfileRequest{
			UserID:           other.ID,
			EnrollmentNumber: first.EnrollmentNumber,
			JoiningYear:      2024,
		})
		require.ErrorIs(t, err, ErrEnrollmentExists)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestStudentRepo_VerifyRequiresAcademicRecord(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStudentRepo(db)
		student := mustCreateStudent(t, db, mustCreateUser(t, db).ID)

		_, err := repo.Update(ctx, student.UserID, model.UpdateStudentProfileRequest{
			Verified: testutil.BoolPtr(true),
		})
		require.ErrorIs(t, err, ErrStudentNotVerifiable)
		assert.True(t, apperrors.IsValidation(err))

		updated, err := repo.Update(ctx, student.UserID, model.UpdateStudentProfileRequest{
			CGPA:       testutil.Float64Ptr(7.9),
			TenthPct:   testutil.Float64Ptr(91.2),
			TwelfthPct: testutil.Float64Ptr(88.0),
			Verified:   testutil.BoolPtr(true),
		})
		require.NoError(t, err)
		assert.True(t, updated.Verified)
	})
}

func TestStudentRepo_ListFiltersByVerified(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStudentRepo(db)

		verified := mustCreateStudent(t, db, mustCreateUser(t, db).ID)
		_, err := repo.Update(ctx, verified.UserID, model.UpdateStudentProfileRequest{
			CGPA:       testutil.Float64Ptr(9.1),
			TenthPct:   testutil.Float64Ptr(95.0),
			TwelfthPct: testutil.Float64Ptr(92.0),
			Verified:   testutil.BoolPtr(true),
		})
		require.NoError(t, err)
		mustCreateStudent(t, db, mustCreateUser(t, db).ID)

		got, err := repo.ListWithOptions(ctx, model.StudentsListOptions{
			Verified: testutil.BoolPtr(true),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, verified.UserID, got[0].UserID)
	})
}

func TestStudentRepo_DeleteMissingProfile(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewStudentRepo(db)
		deleted, err := repo.Delete(context.Background(), "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
