// Package mocks provides mock implementations for testing the placement portal.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mock for UserRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_repository_mock.go github.com/hirespherex/portal-api/internal/core UserRepository

// Generate mock for CompanyRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=company_repository_mock.go github.com/hirespherex/portal-api/internal/core CompanyRepository

// Generate mock for PlacementDriveRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=placement_drive_repository_mock.go github.com/hirespherex/portal-api/internal/core PlacementDriveRepository

// Generate mock for CompanyDriveRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=company_drive_repository_mock.go github.com/hirespherex/portal-api/internal/core CompanyDriveRepository

// Generate mock for JobRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_repository_mock.go github.com/hirespherex/portal-api/internal/core JobRepository

// Generate mock for StudentRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=student_repository_mock.go github.com/hirespherex/portal-api/internal/core StudentRepository

// Generate mock for ApplicationRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=application_repository_mock.go github.com/hirespherex/portal-api/internal/core ApplicationRepository

// Generate mock for PasswordResetRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=password_reset_repository_mock.go github.com/hirespherex/portal-api/internal/core PasswordResetRepository
