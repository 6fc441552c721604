package testutil

import (
	"encoding/json"
	"time"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/domain/model"
)

// UserRequestBuilder provides a fluent interface for building CreateUserRequest objects for testing.
type UserRequestBuilder struct {
	req *model.CreateUserRequest
}

// NewUserRequest creates a new UserRequestBuilder with sensible defaults.
func NewUserRequest() *UserRequestBuilder {
	return &UserRequestBuilder{
		req: &model.CreateUserRequest{
			Email:     "test.user@example.edu",
			FirstName: "Test",
			LastName:  StringPtr("User"),
			Password:  "correct-horse-battery",
			Roles:     []domainauth.Role{domainauth.RoleStudent},
		},
	}
}

// WithEmail sets the email address.
func (b *UserRequestBuilder) WithEmail(email string) *UserRequestBuilder {
	b.req.Email = email
	return b
}

// WithName sets the first and last names.
func (b *UserRequestBuilder) WithName(first, last string) *UserRequestBuilder {
	b.req.FirstName = first
	b.req.LastName = &last
	return b
}

// WithPhoneNumber sets the phone number.
func (b *UserRequestBuilder) WithPhoneNumber(phone string) *UserRequestBuilder {
	b.req.PhoneNumber = &phone
	return b
}

// WithPassword sets the password.
func (b *UserRequestBuilder) WithPassword(password string) *UserRequestBuilder {
	b.req.Password = password
	return b
}

// WithRoles sets the granted roles.
func (b *UserRequestBuilder) WithRoles(roles ...domainauth.Role) *UserRequestBuilder {
	b.req.Roles = roles
	return b
}

// Build returns the constructed CreateUserRequest.
func (b *UserRequestBuilder) Build() *model.CreateUserRequest {
	return b.req
}

// CompanyRequestBuilder provides a fluent interface for building CreateCompanyRequest objects for testing.
type CompanyRequestBuilder struct {
	req *model.CreateCompanyRequest
}

// NewCompanyRequest creates a new CompanyRequestBuilder with sensible defaults.
func NewCompanyRequest() *CompanyRequestBuilder {
	return &CompanyRequestBuilder{
		req: &model.CreateCompanyRequest{
			Name:        "Acme Corporation",
			Email:       "careers@acme.example",
			PhoneNumber: "+15550001111",
		},
	}
}

// WithName sets the company name.
func (b *CompanyRequestBuilder) WithName(name string) *CompanyRequestBuilder {
	b.req.Name = name
	return b
}

// WithEmail sets the company email.
func (b *CompanyRequestBuilder) WithEmail(email string) *CompanyRequestBuilder {
	b.req.Email = email
	return b
}

// WithPhoneNumber sets the company phone number.
func (b *CompanyRequestBuilder) WithPhoneNumber(phone string) *CompanyRequestBuilder {
	b.req.PhoneNumber = phone
	return b
}

// WithCompanySize sets the company size bucket.
func (b *CompanyRequestBuilder) WithCompanySize(size model.CompanySize) *CompanyRequestBuilder {
	b.req.CompanySize = &size
	return b
}

// WithWebsite sets the company website URL.
func (b *CompanyRequestBuilder) WithWebsite(url string) *CompanyRequestBuilder {
	b.req.WebsiteURL = &url
	return b
}

// Build returns the constructed CreateCompanyRequest.
func (b *CompanyRequestBuilder) Build() *model.CreateCompanyRequest {
	return b.req
}

// CompanyDriveRequestBuilder provides a fluent interface for building CreateCompanyDriveRequest objects for testing.
type CompanyDriveRequestBuilder struct {
	req *model.CreateCompanyDriveRequest
}

// NewCompanyDriveRequest creates a new CompanyDriveRequestBuilder with sensible defaults.
// The placement drive and company IDs must be supplied by the caller.
func NewCompanyDriveRequest(placementDriveID, companyID string) *CompanyDriveRequestBuilder {
	return &CompanyDriveRequestBuilder{
		req: &model.CreateCompanyDriveRequest{
			PlacementDriveID: placementDriveID,
			CompanyID:        companyID,
			DriveType:        model.DriveTypeFullTime,
			WorkMode:         model.WorkModeOnsite,
		},
	}
}

// WithDriveType sets the drive type.
func (b *CompanyDriveRequestBuilder) WithDriveType(dt model.DriveType) *CompanyDriveRequestBuilder {
	b.req.DriveType = dt
	return b
}

// WithWorkMode sets the work mode.
func (b *CompanyDriveRequestBuilder) WithWorkMode(wm model.WorkMode) *CompanyDriveRequestBuilder {
	b.req.WorkMode = wm
	return b
}

// WithDeadline sets the application deadline.
func (b *CompanyDriveRequestBuilder) WithDeadline(deadline time.Time) *CompanyDriveRequestBuilder {
	b.req.ApplicationDeadline = &deadline
	return b
}

// WithRounds sets the interview rounds payload.
func (b *CompanyDriveRequestBuilder) WithRounds(rounds string) *CompanyDriveRequestBuilder {
	b.req.Rounds = json.RawMessage(rounds)
	return b
}

// WithLocations sets the locations payload.
func (b *CompanyDriveRequestBuilder) WithLocations(locations string) *CompanyDriveRequestBuilder {
	b.req.Locations = json.RawMessage(locations)
	return b
}

// Build returns the constructed CreateCompanyDriveRequest.
func (b *CompanyDriveRequestBuilder) Build() *model.CreateCompanyDriveRequest {
	return b.req
}

// JobRequestBuilder provides a fluent interface for building CreateJobRequest objects for testing.
type JobRequestBuilder struct {
	req *model.CreateJobRequest
}

// NewJobRequest creates a new JobRequestBuilder with sensible defaults.
// The company drive ID must be supplied by the caller.
func NewJobRequest(companyDriveID string) *JobRequestBuilder {
	return &JobRequestBuilder{
		req: &model.CreateJobRequest{
			CompanyDriveID: companyDriveID,
			Title:          "Software Engineer",
		},
	}
}

// WithTitle sets the job title.
func (b *JobRequestBuilder) WithTitle(title string) *JobRequestBuilder {
	b.req.Title = title
	return b
}

// WithMinCGPA sets the minimum CGPA cutoff.
func (b *JobRequestBuilder) WithMinCGPA(cgpa float64) *JobRequestBuilder {
	b.req.MinCGPA = &cgpa
	return b
}

// WithMaxBacklogs sets the maximum active backlogs allowed.
func (b *JobRequestBuilder) WithMaxBacklogs(n int) *JobRequestBuilder {
	b.req.MaxBacklogs = &n
	return b
}

// WithPackageRange sets the offered package range.
func (b *JobRequestBuilder) WithPackageRange(minPkg, maxPkg float64) *JobRequestBuilder {
	b.req.PackageMin = &minPkg
	b.req.PackageMax = &maxPkg
	return b
}

// WithExtraCriteria sets the extra eligibility expression.
func (b *JobRequestBuilder) WithExtraCriteria(expr string) *JobRequestBuilder {
	b.req.ExtraCriteria = &expr
	return b
}

// WithDetails sets the free-form details payload.
func (b *JobRequestBuilder) WithDetails(details string) *JobRequestBuilder {
	b.req.Details = json.RawMessage(details)
	return b
}

// Build returns the constructed CreateJobRequest.
func (b *JobRequestBuilder) Build() *model.CreateJobRequest {
	return b.req
}

// StudentProfileRequestBuilder provides a fluent interface for building CreateStudentProfileRequest objects for testing.
type StudentProfileRequestBuilder struct {
	req *model.CreateStudentProfileRequest
}

// NewStudentProfileRequest creates a new StudentProfileRequestBuilder with sensible defaults.
// The user ID must be supplied by the caller.
func NewStudentProfileRequest(userID string) *StudentProfileRequestBuilder {
	return &StudentProfileRequestBuilder{
		req: &model.CreateStudentProfileRequest{
			UserID:           userID,
			EnrollmentNumber: "EN2024001",
			JoiningYear:      2024,
		},
	}
}

// WithEnrollmentNumber sets the enrollment number.
func (b *StudentProfileRequestBuilder) WithEnrollmentNumber(en string) *StudentProfileRequestBuilder {
	b.req.EnrollmentNumber = en
	return b
}

// WithAcademics sets the academic record fields.
func (b *StudentProfileRequestBuilder) WithAcademics(cgpa, tenthPct, twelfthPct float64) *StudentProfileRequestBuilder {
	b.req.CGPA = &cgpa
	b.req.TenthPct = &tenthPct
	b.req.TwelfthPct = &twelfthPct
	return b
}

// WithBacklogs sets the active backlog count.
func (b *StudentProfileRequestBuilder) WithBacklogs(n int) *StudentProfileRequestBuilder {
	b.req.ActiveBacklogs = &n
	return b
}

// WithJoiningYear sets the joining year.
func (b *StudentProfileRequestBuilder) WithJoiningYear(year int) *StudentProfileRequestBuilder {
	b.req.JoiningYear = year
	return b
}

// WithResumeURL sets the resume URL.
func (b *StudentProfileRequestBuilder) WithResumeURL(url string) *StudentProfileRequestBuilder {
	b.req.ResumeURL = &url
	return b
}

// Build returns the constructed CreateStudentProfileRequest.
func (b *StudentProfileRequestBuilder) Build() *model.CreateStudentProfileRequest {
	return b.req
}

// Common test session helpers.

// TestIdentity returns an identity with the given roles for session tests.
func TestIdentity(roles ...domainauth.Role) domainauth.Identity {
	return domainauth.Identity{
		UserID:    "user-1",
		Email:     "test.user@example.edu",
		FirstName: "Test",
		LastName:  "User",
		Roles:     roles,
		ExpiresAt: TestTime().Add(8 * time.Hour),
	}
}
