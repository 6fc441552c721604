// Package core defines the contracts between the service layer and the data
// layer for the placement portal.
package core

import (
	"context"
	"time"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListWithOptions(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) (bool, error)
}

// RoleLoader loads the granted role set for a user. Split from UserRepository
// so session refresh paths can depend on the narrowest contract.
type RoleLoader interface {
	RolesForUser(ctx context.Context, userID string) ([]domainauth.Role, error)
}

// CompanyRepository defines the interface for company data operations.
type CompanyRepository interface {
	Create(ctx context.Context, req *model.CreateCompanyRequest) (*model.Company, error)
	GetByID(ctx context.Context, id string) (*model.Company, error)
	GetByName(ctx context.Context, name string) (*model.Company, error)
	ListWithOptions(ctx context.Context, opts model.CompaniesListOptions) ([]*model.Company, error)
	Update(ctx context.Context, id string, req model.UpdateCompanyRequest) (*model.Company, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PlacementDriveRepository defines the interface for placement drive data operations.
type PlacementDriveRepository interface {
	Create(ctx context.Context, req *model.CreatePlacementDriveRequest) (*model.PlacementDrive, error)
	GetByID(ctx context.Context, id string) (*model.PlacementDrive, error)
	ListWithOptions(ctx context.Context, opts model.PlacementDrivesListOptions) ([]*model.PlacementDrive, error)
	Update(ctx context.Context, id string, req model.UpdatePlacementDriveRequest) (*model.PlacementDrive, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CompanyDriveRepository defines the interface for company drive data operations.
type CompanyDriveRepository interface {
	Create(ctx context.Context, req *model.CreateCompanyDriveRequest) (*model.CompanyDrive, error)
	GetByID(ctx context.Context, id string) (*model.CompanyDrive, error)
	ListWithOptions(ctx context.Context, opts model.CompanyDrivesListOptions) ([]*model.CompanyDrive, error)
	Update(ctx context.Context, id string, req model.UpdateCompanyDriveRequest) (*model.CompanyDrive, error)
	Delete(ctx context.Context, id string) (bool, error)
	CloseExpired(ctx context.Context, batchSize int) (int64, error)
}

// JobRepository defines the interface for job posting data operations.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	ListWithOptions(ctx context.Context, opts model.JobsListOptions) ([]*model.Job, error)
	Update(ctx context.Context, id string, req model.UpdateJobRequest) (*model.Job, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StudentRepository defines the interface for student profile data operations.
type StudentRepository interface {
	Create(ctx context.Context, req *model.CreateStudentProfileRequest) (*model.StudentProfile, error)
	GetByUserID(ctx context.Context, userID string) (*model.StudentProfile, error)
	GetByEnrollmentNumber(ctx context.Context, enrollment string) (*model.StudentProfile, error)
	ListWithOptions(ctx context.Context, opts model.StudentsListOptions) ([]*model.StudentProfile, error)
	Update(ctx context.Context, userID string, req model.UpdateStudentProfileRequest) (*model.StudentProfile, error)
	Delete(ctx context.Context, userID string) (bool, error)
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, companyDriveID, studentUserID, resumeURL string) (*model.Application, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	ListWithOptions(ctx context.Context, opts model.ApplicationsListOptions) ([]*model.Application, error)
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus, offeredJobID *string) (*model.Application, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PasswordResetRepository defines the interface for password reset token data operations.
type PasswordResetRepository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*model.PasswordResetToken, error)
	GetByHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}
