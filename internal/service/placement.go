package service

import (
	"context"

	"github.com/hirespherex/portal-api/internal/core"
	"github.com/hirespherex/portal-api/internal/domain/model"
)

// PlacementServiceOptions groups dependencies for PlacementService.
type PlacementServiceOptions struct {
	Drives        core.PlacementDriveRepository
	CompanyDrives core.CompanyDriveRepository
}

// PlacementService orchestrates placement drives and the per-company drives
// nested under them.
type PlacementService struct {
	drives        core.PlacementDriveRepository
	companyDrives core.CompanyDriveRepository
}

// NewPlacementService constructs a new PlacementService.
func NewPlacementService(opts PlacementServiceOptions) *PlacementService {
	return &PlacementService{
		drives:        opts.Drives,
		companyDrives: opts.CompanyDrives,
	}
}

// CreateDrive validates and persists a placement drive.
func (s *PlacementService) CreateDrive(ctx context.Context, req *model.CreatePlacementDriveRequest) (*model.PlacementDrive, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.drives.Create(ctx, req)
}

// GetDrive retrieves a placement drive by ID.
func (s *PlacementService) GetDrive(ctx context.Context, id string) (*model.PlacementDrive, error) {
	return s.drives.GetByID(ctx, id)
}

// ListDrives returns a page of placement drives.
func (s *PlacementService) ListDrives(ctx context.Context, opts model.PlacementDrivesListOptions) ([]*model.PlacementDrive, error) {
	return s.drives.ListWithOptions(ctx, opts)
}

// UpdateDrive applies a partial update to a placement drive.
func (s *PlacementService) UpdateDrive(ctx context.Context, id string, req model.UpdatePlacementDriveRequest) (*model.PlacementDrive, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.drives.Update(ctx, id, req)
}

// DeleteDrive removes a placement drive. Returns false when none existed.
func (s *PlacementService) DeleteDrive(ctx context.Context, id string) (bool, error) {
	return s.drives.Delete(ctx, id)
}

// CreateCompanyDrive validates and persists a company's participation in a
// placement drive. A company may join a given drive at most once.
func (s *PlacementService) CreateCompanyDrive(ctx context.Context, req *model.CreateCompanyDriveRequest) (*model.CompanyDrive, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.companyDrives.Create(ctx, req)
}

// GetCompanyDrive retrieves a company drive by ID.
func (s *PlacementService) GetCompanyDrive(ctx context.Context, id string) (*model.CompanyDrive, error) {
	return s.companyDrives.GetByID(ctx, id)
}

// ListCompanyDrives returns a page of company drives with optional filters.
func (s *PlacementService) ListCompanyDrives(ctx context.Context, opts model.CompanyDrivesListOptions) ([]*model.CompanyDrive, error) {
	return s.companyDrives.ListWithOptions(ctx, opts)
}

// UpdateCompanyDrive applies a partial update to a company drive. Closing a
// drive here is the mechanism that stops new applications.
func (s *PlacementService) UpdateCompanyDrive(ctx context.Context, id string, req model.UpdateCompanyDriveRequest) (*model.CompanyDrive, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.companyDrives.Update(ctx, id, req)
}

// DeleteCompanyDrive removes a company drive. Returns false when none existed.
func (s *PlacementService) DeleteCompanyDrive(ctx context.Context, id string) (bool, error) {
	return s.companyDrives.Delete(ctx, id)
}
