package service

import (
	"context"

	"github.com/hirespherex/portal-api/internal/core"
	"github.com/hirespherex/portal-api/internal/domain/model"
)

// CompanyServiceOptions groups dependencies for CompanyService.
type CompanyServiceOptions struct {
	Companies core.CompanyRepository
}

// CompanyService orchestrates company CRUD.
type CompanyService struct {
	companies core.CompanyRepository
}

// NewCompanyService constructs a new CompanyService.
func NewCompanyService(opts CompanyServiceOptions) *CompanyService {
	return &CompanyService{companies: opts.Companies}
}

// Create validates and persists a company.
func (s *CompanyService) Create(ctx context.Context, req *model.CreateCompanyRequest) (*model.Company, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.companies.Create(ctx, req)
}

// GetByID retrieves a company by ID.
func (s *CompanyService) GetByID(ctx context.Context, id string) (*model.Company, error) {
	return s.companies.GetByID(ctx, id)
}

// GetByName retrieves a company by its unique name.
func (s *CompanyService) GetByName(ctx context.Context, name string) (*model.Company, error) {
	return s.companies.GetByName(ctx, name)
}

// ListWithOptions returns a page of companies with optional filters.
func (s *CompanyService) ListWithOptions(ctx context.Context, opts model.CompaniesListOptions) ([]*model.Company, error) {
	return s.companies.ListWithOptions(ctx, opts)
}

// Update applies a partial update to a company.
func (s *CompanyService) Update(ctx context.Context, id string, req model.UpdateCompanyRequest) (*model.Company, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.companies.Update(ctx, id, req)
}

// Delete removes a company. Returns false when no company existed.
func (s *CompanyService) Delete(ctx context.Context, id string) (bool, error) {
	return s.companies.Delete(ctx, id)
}
