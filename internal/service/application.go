package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hirespherex/portal-api/internal/core"
	"github.com/hirespherex/portal-api/internal/data"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
)

// Sentinel errors surfaced by ApplicationService.
var (
	ErrDriveClosed          = errors.New("company drive is not accepting applications")
	ErrStudentNotEligible   = errors.New("student does not meet the drive's eligibility criteria")
	ErrInvalidTransition    = errors.New("application status transition not allowed")
	ErrOfferedJobMismatch   = errors.New("offered job does not belong to the application's company drive")
	ErrAlreadyPlaced        = errors.New("student is already placed and the drive disallows multiple offers")
	ErrStudentNotRegistered = errors.New("student profile not found")
)

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Applications  core.ApplicationRepository
	CompanyDrives core.CompanyDriveRepository
	Jobs          core.JobRepository
	Students      core.StudentRepository
	Now           func() time.Time
}

// ApplicationService orchestrates the application funnel: applying to open
// drives with eligibility checks, and status transitions through the hiring
// pipeline.
type ApplicationService struct {
	applications  core.ApplicationRepository
	companyDrives core.CompanyDriveRepository
	jobs          core.JobRepository
	students      core.StudentRepository
	now           func() time.Time
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ApplicationService{
		applications:  opts.Applications,
		companyDrives: opts.CompanyDrives,
		jobs:          opts.Jobs,
		students:      opts.Students,
		now:           now,
	}
}

// Apply submits a student's application to a company drive. The drive must
// be open and within its deadline, and the student must satisfy the
// eligibility cutoffs of every job posted under the drive (a drive with no
// postings gates only on verification).
func (s *ApplicationService) Apply(ctx context.Context, studentUserID string, req *model.CreateApplicationRequest) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	drive, err := s.companyDrives.GetByID(ctx, req.CompanyDriveID)
	if err != nil {
		return nil, err
	}
	if !drive.AcceptsApplications(s.now()) {
		return nil, ErrDriveClosed
	}

	profile, err := s.students.GetByUserID(ctx, studentUserID)
	if err != nil {
		if errors.Is(err, data.ErrStudentNotFound) {
			return nil, ErrStudentNotRegistered
		}
		return nil, err
	}
	if profile.Placed && !drive.MultipleOffers {
		return nil, ErrAlreadyPlaced
	}

	if eligErr := s.checkDriveEligibility(ctx, drive.ID, profile); eligErr != nil {
		return nil, eligErr
	}

	return s.applications.Create(ctx, drive.ID, studentUserID, req.ResumeURL)
}

// checkDriveEligibility requires the student to qualify for at least one
// job posted under the drive. Drives without postings gate on verification
// only.
func (s *ApplicationService) checkDriveEligibility(ctx context.Context, companyDriveID string, profile *model.StudentProfile) error {
	jobs, err := s.jobs.ListWithOptions(ctx, model.JobsListOptions{CompanyDriveID: &companyDriveID, Limit: 100})
	if err != nil {
		return fmt.Errorf("list drive jobs: %w", err)
	}
	if len(jobs) == 0 {
		if !profile.Verified {
			return fmt.Errorf("%w: profile is not verified", ErrStudentNotEligible)
		}
		return nil
	}

	var reasons []string
	for _, job := range jobs {
		result, evalErr := CheckEligibility(job, profile)
		if evalErr != nil {
			return evalErr
		}
		if result.Eligible {
			return nil
		}
		reasons = append(reasons, result.Reasons...)
	}
	return fmt.Errorf("%w: %s", ErrStudentNotEligible, strings.Join(dedupe(reasons), "; "))
}

// GetByID retrieves an application by ID.
func (s *ApplicationService) GetByID(ctx context.Context, id string) (*model.Application, error) {
	return s.applications.GetByID(ctx, id)
}

// ListWithOptions returns a page of applications with optional filters.
func (s *ApplicationService) ListWithOptions(ctx context.Context, opts model.ApplicationsListOptions) ([]*model.Application, error) {
	return s.applications.ListWithOptions(ctx, opts)
}

// UpdateStatus moves an application through the funnel, enforcing the
// transition graph. An offer must name a job belonging to the same company
// drive.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, req model.UpdateApplicationStatusRequest) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, req.Status)
	}

	if req.Status == model.ApplicationStatusOffered {
		job, jobErr := s.jobs.GetByID(ctx, *req.OfferedJobID)
		if jobErr != nil {
			return nil, jobErr
		}
		if job.CompanyDriveID != app.CompanyDriveID {
			return nil, ErrOfferedJobMismatch
		}
	}

	updated, err := s.applications.UpdateStatus(ctx, id, req.Status, req.OfferedJobID)
	if err != nil {
		return nil, err
	}

	// Accepting an offer marks the student placed.
	if req.Status == model.ApplicationStatusAccepted {
		placed := true
		if _, markErr := s.students.Update(ctx, app.StudentUserID, model.UpdateStudentProfileRequest{Placed: &placed}); markErr != nil {
			return nil, fmt.Errorf("mark student placed: %w", markErr)
		}
	}

	return updated, nil
}

// RespondToOffer records a student's answer to an offer on their own
// application. Only the applicant may respond, and only while an offer is
// outstanding. Accepting marks the student placed.
func (s *ApplicationService) RespondToOffer(ctx context.Context, id, studentUserID string, accept bool) (*model.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.StudentUserID != studentUserID {
		return nil, apperrors.Forbidden("application belongs to a different student")
	}

	next := model.ApplicationStatusDeclined
	if accept {
		next = model.ApplicationStatusAccepted
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, next)
	}

	updated, err := s.applications.UpdateStatus(ctx, id, next, nil)
	if err != nil {
		return nil, err
	}

	if accept {
		placed := true
		if _, markErr := s.students.Update(ctx, app.StudentUserID, model.UpdateStudentProfileRequest{Placed: &placed}); markErr != nil {
			return nil, fmt.Errorf("mark student placed: %w", markErr)
		}
	}

	return updated, nil
}

// Withdraw deletes a student's application while it is still in the applied
// state. Later states must go through the funnel.
func (s *ApplicationService) Withdraw(ctx context.Context, id, studentUserID string) (bool, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			return false, nil
		}
		return false, err
	}
	if app.StudentUserID != studentUserID {
		return false, apperrors.Forbidden("application belongs to a different student")
	}
	if app.Status != model.ApplicationStatusApplied {
		return false, fmt.Errorf("%w: cannot withdraw once %s", ErrInvalidTransition, app.Status)
	}
	return s.applications.Delete(ctx, id)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
