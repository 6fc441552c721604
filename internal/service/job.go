package service

import (
	"context"

	"github.com/hirespherex/portal-api/internal/core"
	"github.com/hirespherex/portal-api/internal/domain/model"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Jobs core.JobRepository
}

// JobService orchestrates job postings under company drives.
type JobService struct {
	jobs core.JobRepository
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) *JobService {
	return &JobService{jobs: opts.Jobs}
}

// Create validates and persists a job posting.
func (s *JobService) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.jobs.Create(ctx, req)
}

// GetByID retrieves a job posting by ID.
func (s *JobService) GetByID(ctx context.Context, id string) (*model.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

// ListWithOptions returns a page of job postings with optional filters.
func (s *JobService) ListWithOptions(ctx context.Context, opts model.JobsListOptions) ([]*model.Job, error) {
	return s.jobs.ListWithOptions(ctx, opts)
}

// Update applies a partial update to a job posting.
func (s *JobService) Update(ctx context.Context, id string, req model.UpdateJobRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.jobs.Update(ctx, id, req)
}

// Delete removes a job posting. Returns false when no job existed.
func (s *JobService) Delete(ctx context.Context, id string) (bool, error) {
	return s.jobs.Delete(ctx, id)
}
