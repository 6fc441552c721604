package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxJobTitleLen = 255

// Job is a position offered under a company drive. Cutoff fields are nil
// when the company imposes no such cutoff. ExtraCriteria, when set, is a
// JMESPath expression evaluated against a student's profile document; it
// must return true for the student to be eligible.
type Job struct {
	ID             string          `json:"id"                        db:"id"`
	CompanyDriveID string          `json:"company_drive_id"          db:"company_drive_id"`
	Title          string          `json:"title"                     db:"title"`
	Description    *string         `json:"description,omitempty"     db:"description"`
	MinCGPA        *float64        `json:"min_cgpa,omitempty"        db:"min_cgpa"`
	MinTenthPct    *float64        `json:"min_tenth_pct,omitempty"   db:"min_tenth_pct"`
	MinTwelfthPct  *float64        `json:"min_twelfth_pct,omitempty" db:"min_twelfth_pct"`
	MaxBacklogs    *int            `json:"max_backlogs,omitempty"    db:"max_backlogs"`
	PackageMin     *float64        `json:"package_min,omitempty"     db:"package_min"`
	PackageMax     *float64        `json:"package_max,omitempty"     db:"package_max"`
	Stipend        *float64        `json:"stipend,omitempty"         db:"stipend"`
	ExtraCriteria  *string         `json:"extra_criteria,omitempty"  db:"extra_criteria"`
	Details        json.RawMessage `json:"details,omitempty"         db:"details"`
	PostedAt       time.Time       `json:"posted_at"                 db:"posted_at"`
	UpdatedAt      time.Time       `json:"updated_at"                db:"updated_at"`
}

// JobsListOptions controls paging and filtering for listing jobs.
type JobsListOptions struct {
	Limit          int
	Offset         int
	CompanyDriveID *string
	Q              *string // substring match on title (ILIKE)
	Sort           string  // allowed: "posted_at", "title"
	Dir            string  // allowed: "asc", "desc"
}

// CreateJobRequest represents parameters to create a Job.
type CreateJobRequest struct {
	CompanyDriveID string          `json:"company_drive_id"`
	Title          string          `json:"title"`
	Description    *string         `json:"description,omitempty"`
	MinCGPA        *float64        `json:"min_cgpa,omitempty"`
	MinTenthPct    *float64        `json:"min_tenth_pct,omitempty"`
	MinTwelfthPct  *float64        `json:"min_twelfth_pct,omitempty"`
	MaxBacklogs    *int            `json:"max_backlogs,omitempty"`
	PackageMin     *float64        `json:"package_min,omitempty"`
	PackageMax     *float64        `json:"package_max,omitempty"`
	Stipend        *float64        `json:"stipend,omitempty"`
	ExtraCriteria  *string         `json:"extra_criteria,omitempty"`
	Details        json.RawMessage `json:"details,omitempty"`
}

// UpdateJobRequest represents parameters to update a Job.
type UpdateJobRequest struct {
	Title         *string         `json:"title,omitempty"`
	Description   *string         `json:"description,omitempty"`
	MinCGPA       *float64        `json:"min_cgpa,omitempty"`
	MinTenthPct   *float64        `json:"min_tenth_pct,omitempty"`
	MinTwelfthPct *float64        `json:"min_twelfth_pct,omitempty"`
	MaxBacklogs   *int            `json:"max_backlogs,omitempty"`
	PackageMin    *float64        `json:"package_min,omitempty"`
	PackageMax    *float64        `json:"package_max,omitempty"`
	Stipend       *float64        `json:"stipend,omitempty"`
	ExtraCriteria *string         `json:"extra_criteria,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
}

func validateJobCutoffs(minCGPA, minTenth, minTwelfth *float64, maxBacklogs *int) error {
	if minCGPA != nil && (*minCGPA < 0 || *minCGPA > 10) {
		return errors.New("min_cgpa must be between 0 and 10")
	}
	if minTenth != nil && (*minTenth < 0 || *minTenth > 100) {
		return errors.New("min_tenth_pct must be between 0 and 100")
	}
	if minTwelfth != nil && (*minTwelfth < 0 || *minTwelfth > 100) {
		return errors.New("min_twelfth_pct must be between 0 and 100")
	}
	if maxBacklogs != nil && *maxBacklogs < 0 {
		return errors.New("max_backlogs cannot be negative")
	}
	return nil
}

func validatePackageRange(minPkg, maxPkg *float64) error {
	if minPkg != nil && *minPkg < 0 {
		return errors.New("package_min cannot be negative")
	}
	if maxPkg != nil && *maxPkg < 0 {
		return errors.New("package_max cannot be negative")
	}
	if minPkg != nil && maxPkg != nil && *maxPkg < *minPkg {
		return errors.New("package_max cannot be less than package_min")
	}
	return nil
}

// Validate validates CreateJobRequest.
func (r *CreateJobRequest) Validate() error {
	if strings.TrimSpace(r.CompanyDriveID) == "" {
		return errors.New("company_drive_id is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Title) > maxJobTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if err := validateJobCutoffs(r.MinCGPA, r.MinTenthPct, r.MinTwelfthPct, r.MaxBacklogs); err != nil {
		return err
	}
	if err := validatePackageRange(r.PackageMin, r.PackageMax); err != nil {
		return err
	}
	if r.ExtraCriteria != nil && strings.TrimSpace(*r.ExtraCriteria) == "" {
		return errors.New("extra_criteria cannot be blank when set")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateJobRequest.
func (r *UpdateJobRequest) HasUpdates() bool {
	return r.Title != nil || r.Description != nil || r.MinCGPA != nil || r.MinTenthPct != nil ||
		r.MinTwelfthPct != nil ||
		r.MaxBacklogs != nil ||
		r.PackageMin != nil ||
		r.PackageMax != nil ||
		r.Stipend != nil ||
		r.ExtraCriteria != nil ||
		r.Details != nil
}

// Validate validates UpdateJobRequest.
func (r *UpdateJobRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(t) > maxJobTitleLen {
			return errors.New("title cannot exceed 255 characters")
		}
		*r.Title = t
	}
	if err := validateJobCutoffs(r.MinCGPA, r.MinTenthPct, r.MinTwelfthPct, r.MaxBacklogs); err != nil {
		return err
	}
	if err := validatePackageRange(r.PackageMin, r.PackageMax); err != nil {
		return err
	}
	if r.ExtraCriteria != nil && strings.TrimSpace(*r.ExtraCriteria) == "" {
		return errors.New("extra_criteria cannot be blank when set")
	}
	return nil
}
