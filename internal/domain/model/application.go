package model

import (
	"errors"
	"strings"
	"time"
)

// ApplicationStatus tracks an application through the hiring funnel.
// Applied is the entry state; Offered may move to Accepted or Declined;
// Rejected is terminal.
type ApplicationStatus string

const (
	ApplicationStatusApplied  ApplicationStatus = "applied"
	ApplicationStatusOffered  ApplicationStatus = "offered"
	ApplicationStatusRejected ApplicationStatus = "rejected"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusDeclined ApplicationStatus = "declined"
)

// Valid reports whether the application status is supported.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusApplied, ApplicationStatusOffered, ApplicationStatusRejected,
		ApplicationStatusAccepted, ApplicationStatusDeclined:
		return true
	default:
		return false
	}
}

// ParseApplicationStatus normalizes a status string and reports whether it is supported.
func ParseApplicationStatus(value string) (ApplicationStatus, bool) {
	s := ApplicationStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// CanTransitionTo reports whether the funnel permits moving from s to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case ApplicationStatusApplied:
		return next == ApplicationStatusOffered || next == ApplicationStatusRejected
	case ApplicationStatusOffered:
		return next == ApplicationStatusAccepted || next == ApplicationStatusDeclined
	default:
		return false
	}
}

// Application is a student's application to a company drive. The
// (company_drive_id, student_user_id) pair is unique; a student applies to a
// given company drive at most once.
type Application struct {
	ID             string            `json:"id"                       db:"id"`
	CompanyDriveID string            `json:"company_drive_id"         db:"company_drive_id"`
	StudentUserID  string            `json:"student_user_id"          db:"student_user_id"`
	Status         ApplicationStatus `json:"status"                   db:"status"`
	OfferedJobID   *string           `json:"offered_job_id,omitempty" db:"offered_job_id"`
	ResumeURL      string            `json:"resume_url"               db:"resume_url"`
	AppliedAt      time.Time         `json:"applied_at"               db:"applied_at"`
	UpdatedAt      time.Time         `json:"updated_at"               db:"updated_at"`
}

// ApplicationsListOptions controls paging and filtering for listing applications.
type ApplicationsListOptions struct {
	Limit          int
	Offset         int
	CompanyDriveID *string
	StudentUserID  *string
	Status         *ApplicationStatus
	Sort           string // allowed: "applied_at", "updated_at"
	Dir            string // allowed: "asc", "desc"
}

// CreateApplicationRequest represents parameters to create an Application.
// StudentUserID comes from the session, never the request body.
type CreateApplicationRequest struct {
	CompanyDriveID string `json:"company_drive_id"`
	ResumeURL      string `json:"resume_url"`
}

// UpdateApplicationStatusRequest moves an application through the funnel.
// OfferedJobID is required when the new status is offered.
type UpdateApplicationStatusRequest struct {
	Status       ApplicationStatus `json:"status"`
	OfferedJobID *string           `json:"offered_job_id,omitempty"`
}

// Validate validates CreateApplicationRequest.
func (r *CreateApplicationRequest) Validate() error {
	if strings.TrimSpace(r.CompanyDriveID) == "" {
		return errors.New("company_drive_id is required")
	}
	r.ResumeURL = strings.TrimSpace(r.ResumeURL)
	if r.ResumeURL == "" {
		return errors.New("resume_url is required")
	}
	return nil
}

// Validate validates UpdateApplicationStatusRequest.
func (r *UpdateApplicationStatusRequest) Validate() error {
	status, ok := ParseApplicationStatus(string(r.Status))
	if !ok {
		return errors.New("invalid status")
	}
	r.Status = status
	if status == ApplicationStatusOffered && (r.OfferedJobID == nil || strings.TrimSpace(*r.OfferedJobID) == "") {
		return errors.New("offered_job_id is required when status is offered")
	}
	if status != ApplicationStatusOffered && r.OfferedJobID != nil {
		return errors.New("offered_job_id is only allowed when status is offered")
	}
	return nil
}
