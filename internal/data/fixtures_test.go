package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/domain/model"
)

// Integration tests below run against the docker-compose test database and
// skip when it is unreachable. Each test starts from empty portal tables.

var fixtureSeq int

func nextSeq() int {
	fixtureSeq++
	return fixtureSeq
}

func mustCreateUser(t *testing.T, db *sql.DB, roles ...domainauth.Role) *model.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []domainauth.Role{domainauth.RoleStudent}
	}
	n := nextSeq()
	user, err := NewUserRepo(db).Create(context.Background(), &model.CreateUserRequest{
		Email:     fmt.Sprintf("user%d@example.edu", n),
		FirstName: fmt.Sprintf("User%d", n),
		Roles:     roles,
	}, "hashed-password")
	require.NoError(t, err)
	return user
}

func mustCreateCompany(t *testing.T, db *sql.DB) *model.Company {
	t.Helper()
	n := nextSeq()
	company, err := NewCompanyRepo(db).Create(context.Background(), &model.CreateCompanyRequest{
		Name:        fmt.Sprintf("Company %d", n),
		Email:       fmt.Sprintf("careers%d@example.com", n),
		PhoneNumber: fmt.Sprintf("+1555000%04d", n),
	})
	require.NoError(t, err)
	return company
}

func mustCreatePlacementDrive(t *testing.T, db *sql.DB) *model.PlacementDrive {
	t.Helper()
	drive, err := NewPlacementDriveRepo(db).Create(context.Background(), &model.CreatePlacementDriveRequest{
		Title: fmt.Sprintf("Placement Season %d", nextSeq()),
	})
	require.NoError(t, err)
	return drive
}

func mustCreateCompanyDrive(t *testing.T, db *sql.DB, placementDriveID, companyID string) *model.CompanyDrive {
	t.Helper()
	drive, err := NewCompanyDriveRepo(db).Create(context.Background(), &model.CreateCompanyDriveRequest{
		PlacementDriveID: placementDriveID,
		CompanyID:        companyID,
		DriveType:        model.DriveTypeFullTime,
		WorkMode:         model.WorkModeOnsite,
	})
	require.NoError(t, err)
	return drive
}

func mustCreateStudent(t *testing.T, db *sql.DB, userID string) *model.StudentProfile {
	t.Helper()
	profile, err := NewStudentRepo(db).Create(context.Background(), &model.CreateStudentProfileRequest{
		UserID:           userID,
		EnrollmentNumber: fmt.Sprintf("EN2024%03d", nextSeq()),
		JoiningYear:      2024,
	})
	require.NoError(t, err)
	return profile
}
