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

func TestCompanyRepo_CreateAndGet(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewCompanyRepo(db)

		size := model.CompanySize51To500
		created, err := repo.Create(ctx, &model.CreateCompanyRequest{
			Name:        "Initech",
			Email:       "recruiting@initech.example",
			PhoneNumber: "+15550002222",
			CompanySize: &size,
			WebsiteURL:  testutil.StringPtr("https://initech.example"),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		got, err := repo.GetByName(ctx, "Initech")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		require.NotNil(t, got.CompanySize)
		assert.Equal(t, model.CompanySize51To500, *got.CompanySize)
	})
}

func TestCompanyRepo_DuplicateNameIsConflict(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewCompanyRepo(db)
		created := mustCreateCompany(t, db)

		_, err := repo.Create(ctx, &model.CreateCompanyRequest{
			Name:        created.Name,
			Email:       "other@example.com",
			PhoneNumber: "+15550009999",
		})
		require.ErrorIs(t, err, ErrCompanyExists)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestCompanyRepo_ListFiltersByNameSubstring(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewCompanyRepo(db)

		_, err := repo.Create(ctx, &model.CreateCompanyRequest{
			Name: "Globex", Email: "g@example.com", PhoneNumber: "+15550003333",
		})
		require.NoError(t, err)
		_, err = repo.Create(ctx, &model.CreateCompanyRequest{
			Name: "Initrode", Email: "i@example.com", PhoneNumber: "+15550004444",
		})
		require.NoError(t, err)

		q := "glob"
		matched, err := repo.ListWithOptions(ctx, model.CompaniesListOptions{Q: &q})
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, "Globex", matched[0].Name)
	})
}

func TestCompanyRepo_Update(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewCompanyRepo(db)
		created := mustCreateCompany(t, db)

		updated, err := repo.Update(ctx, created.ID, model.UpdateCompanyRequest{
			Headquarters: testutil.StringPtr("Pune"),
			YearFounded:  testutil.IntPtr(2009),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Headquarters)
		assert.Equal(t, "Pune", *updated.Headquarters)
		require.NotNil(t, updated.YearFounded)
		assert.Equal(t, 2009, *updated.YearFounded)
	})
}

func TestCompanyRepo_DeleteBlockedWhileDrivesExist(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewCompanyRepo(db)

		company := mustCreateCompany(t, db)
		placement := mustCreatePlacementDrive(t, db)
		mustCreateCompanyDrive(t, db, placement.ID, company.ID)

		_, err := repo.Delete(ctx, company.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsForeignKey(err))

		unused := mustCreateCompany(t, db)
		deleted, err := repo.Delete(ctx, unused.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
	})
}
