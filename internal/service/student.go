package service

import (
	"context"
	"errors"

	"github.com/hirespherex/portal-api/internal/core"
	"github.com/hirespherex/portal-api/internal/domain/model"
)

// ErrStudentNotVerifiable is returned when verification is requested for a
// profile missing its academic record.
var ErrStudentNotVerifiable = errors.New("student profile cannot be verified without an academic record")

// StudentServiceOptions groups dependencies for StudentService.
type StudentServiceOptions struct {
	Students core.StudentRepository
}

// StudentService orchestrates student profile management. Verification and
// placed-status transitions are placement-cell operations; handlers gate
// them by active role before calling in.
type StudentService struct {
	students core.StudentRepository
}

// NewStudentService constructs a new StudentService.
func NewStudentService(opts StudentServiceOptions) *StudentService {
	return &StudentService{students: opts.Students}
}

// Create validates and persists a student profile.
func (s *StudentService) Create(ctx context.Context, req *model.CreateStudentProfileRequest) (*model.StudentProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.students.Create(ctx, req)
}

// GetByUserID retrieves a student profile by its owning user ID.
func (s *StudentService) GetByUserID(ctx context.Context, userID string) (*model.StudentProfile, error) {
	return s.students.GetByUserID(ctx, userID)
}

// GetByEnrollmentNumber retrieves a student profile by enrollment number.
func (s *StudentService) GetByEnrollmentNumber(ctx context.Context, enrollment string) (*model.StudentProfile, error) {
	return s.students.GetByEnrollmentNumber(ctx, enrollment)
}

// ListWithOptions returns a page of student profiles with optional filters.
func (s *StudentService) ListWithOptions(ctx context.Context, opts model.StudentsListOptions) ([]*model.StudentProfile, error) {
	return s.students.ListWithOptions(ctx, opts)
}

// Update applies a partial update to a student profile.
func (s *StudentService) Update(ctx context.Context, userID string, req model.UpdateStudentProfileRequest) (*model.StudentProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.students.Update(ctx, userID, req)
}

// Verify marks a profile as verified by the placement cell. A profile
// without a complete academic record cannot be verified.
func (s *StudentService) Verify(ctx context.Context, userID string) (*model.StudentProfile, error) {
	profile, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.HasAcademicRecord() {
		return nil, ErrStudentNotVerifiable
	}
	verified := true
	return s.students.Update(ctx, userID, model.UpdateStudentProfileRequest{Verified: &verified})
}

// Delete removes a student profile. Returns false when none existed.
func (s *StudentService) Delete(ctx context.Context, userID string) (bool, error) {
	return s.students.Delete(ctx, userID)
}
