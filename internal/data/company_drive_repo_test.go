package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
	"github.com/hirespherex/portal-api/internal/testutil"
)

func TestCompanyDriveRepo_CreateAndGet(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewCompanyDriveRepo(db)
		placement := mustCreatePlacementDrive(t, db)
		company := mustCreateCompany(t, db)

		created, err := repo.Create(ctx, testutil.NewCompanyDriveRequest(placement.ID, company.ID).
			WithDriveType(model.DriveTypeInternship).
			WithWorkMode(model.WorkModeRemote).
			WithRounds(`[{"name":"aptitude"},{"name":"tech interview"}]`).
			Build())
		require.NoError(t, err)
		assert.Equal(t, model.DriveStatusOpen, created.Status)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.DriveTypeInternship, got.DriveType)
		assert.Equal(t, model.WorkModeRemote, got.WorkMode)
		assert.JSONEq(t, `[{"name":"aptitude"},{"name":"tech interview"}]`, string(got.Rounds))
	})
}

func TestCompanyDriveRepo_DuplicatePairingIsConflict(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewCompanyDriveRepo(db)
		placement := mustCreatePlacementDrive(t, db)
		company := mustCreateCompany(t, db)
		mustCreateCompanyDrive(t, db, placement.ID, company.ID)

		_, err := repo.Create(ctx, testutil.NewCompanyDriveRequest(placement.ID, company.ID).Build())
		require.ErrorIs(t, err, ErrCompanyDriveExists)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestCompanyDriveRepo_CreateUnknownParentIsForeignKey(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCompanyDriveRepo(db)
		company := mustCreateCompany(t, db)

		_, err := repo.Create(context.Background(),
			testutil.NewCompanyDriveRequest("00000000-0000-0000-0000-000000000000", company.ID).Build())
		require.Error(t, err)
		assert.True(t, apperrors.IsForeignKey(err))
	})
}

func TestCompanyDriveRepo_CloseExpired(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewCompanyDriveRepo(db)
		placement := mustCreatePlacementDrive(t, db)

		expired, err := repo.Create(ctx,
			testutil.NewCompanyDriveRequest(placement.ID, mustCreateCompany(t, db).ID).
				WithDeadline(time.Now().Add(-time.Hour)).
				Build())
		require.NoError(t, err)

		open, err := repo.Create(ctx,
			testutil.NewCompanyDriveRequest(placement.ID, mustCreateCompany(t, db).ID).
				WithDeadline(time.Now().Add(time.Hour)).
				Build())
		require.NoError(t, err)

		closed, err := repo.CloseExpired(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(1), closed)

		got, err := repo.GetByID(ctx, expired.ID)
		require.NoError(t, err)
		assert.Equal(t, model.DriveStatusClosed, got.Status)

		got, err = repo.GetByID(ctx, open.ID)
		require.NoError(t, err)
		assert.Equal(t, model.DriveStatusOpen, got.Status)

		// Second pass finds nothing left to close.
		closed, err = repo.CloseExpired(ctx, 100)
		require.NoError(t, err)
		assert.Zero(t, closed)
	})
}

func TestCompanyDriveRepo_DeleteBlockedWhileJobsExist(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewCompanyDriveRepo(db)
		placement := mustCreatePlacementDrive(t, db)
		drive := mustCreateCompanyDrive(t, db, placement.ID, mustCreateCompany(t, db).ID)

		_, err := NewJobRepo(db).Create(ctx, testutil.NewJobRequest(drive.ID).Build())
		require.NoError(t, err)

		_, err = repo.Delete(ctx, drive.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsForeignKey(err))
	})
}

func TestJobRepo_CreateUnknownDriveIsForeignKey(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewJobRepo(db)
		_, err := repo.Create(context.Background(),
			testutil.NewJobRequest("00000000-0000-0000-0000-000000000000").Build())
		require.Error(t, err)
		assert.True(t, apperrors.IsForeignKey(err))
		assert.ErrorIs(t, err, ErrCompanyDriveNotFound)
	})
}
