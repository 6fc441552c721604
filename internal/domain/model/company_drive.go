package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DriveType is the engagement type a company offers in a drive.
type DriveType string

const (
	DriveTypeFullTime   DriveType = "full_time"
	DriveTypeInternship DriveType = "internship"
	DriveTypeContract   DriveType = "contract"
)

// Valid reports whether the drive type is supported.
func (t DriveType) Valid() bool {
	switch t {
	case DriveTypeFullTime, DriveTypeInternship, DriveTypeContract:
		return true
	default:
		return false
	}
}

// ParseDriveType normalizes a drive type string and reports whether it is supported.
func ParseDriveType(value string) (DriveType, bool) {
	t := DriveType(strings.ToLower(strings.TrimSpace(value)))
	if t.Valid() {
		return t, true
	}
	return "", false
}

// WorkMode is where the work happens.
type WorkMode string

const (
	WorkModeOnsite WorkMode = "onsite"
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
)

// Valid reports whether the work mode is supported.
func (m WorkMode) Valid() bool {
	switch m {
	case WorkModeOnsite, WorkModeRemote, WorkModeHybrid:
		return true
	default:
		return false
	}
}

// ParseWorkMode normalizes a work mode string and reports whether it is supported.
func ParseWorkMode(value string) (WorkMode, bool) {
	m := WorkMode(strings.ToLower(strings.TrimSpace(value)))
	if m.Valid() {
		return m, true
	}
	return "", false
}

// DriveStatus is the application window state of a company drive.
type DriveStatus string

const (
	DriveStatusOpen   DriveStatus = "open"
	DriveStatusClosed DriveStatus = "closed"
)

// Valid reports whether the drive status is supported.
func (s DriveStatus) Valid() bool {
	return s == DriveStatusOpen || s == DriveStatusClosed
}

// ParseDriveStatus normalizes a status string and reports whether it is supported.
func ParseDriveStatus(value string) (DriveStatus, bool) {
	s := DriveStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// CompanyDrive is one company's participation in a placement drive. The
// (placement_drive_id, company_id) pair is unique; a company joins a drive
// at most once.
type CompanyDrive struct {
	ID                  string          `json:"id"                             db:"id"`
	PlacementDriveID    string          `json:"placement_drive_id"             db:"placement_drive_id"`
	CompanyID           string          `json:"company_id"                     db:"company_id"`
	DriveType           DriveType       `json:"drive_type"                     db:"drive_type"`
	WorkMode            WorkMode        `json:"work_mode"                      db:"work_mode"`
	Status              DriveStatus     `json:"status"                         db:"status"`
	ApplicationDeadline *time.Time      `json:"application_deadline,omitempty" db:"application_deadline"`
	Rounds              json.RawMessage `json:"rounds,omitempty"               db:"rounds"`
	Locations           json.RawMessage `json:"locations,omitempty"            db:"locations"`
	MultipleOffers      bool            `json:"multiple_offers"                db:"multiple_offers"`
	CreatedAt           time.Time       `json:"created_at"                     db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"                     db:"updated_at"`
}

// CompanyDrivesListOptions controls paging and filtering for listing company drives.
type CompanyDrivesListOptions struct {
	Limit            int
	Offset           int
	PlacementDriveID *string
	CompanyID        *string
	Status           *DriveStatus
	DriveType        *DriveType
	Sort             string // allowed: "created_at", "application_deadline"
	Dir              string // allowed: "asc", "desc"
}

// CreateCompanyDriveRequest represents parameters to create a CompanyDrive.
type CreateCompanyDriveRequest struct {
	PlacementDriveID    string          `json:"placement_drive_id"`
	CompanyID           string          `json:"company_id"`
	DriveType           DriveType       `json:"drive_type"`
	WorkMode            WorkMode        `json:"work_mode"`
	ApplicationDeadline *time.Time      `json:"application_deadline,omitempty"`
	Rounds              json.RawMessage `json:"rounds,omitempty"`
	Locations           json.RawMessage `json:"locations,omitempty"`
	MultipleOffers      *bool           `json:"multiple_offers,omitempty"`
}

// UpdateCompanyDriveRequest represents parameters to update a CompanyDrive.
// The parent drive and company are fixed at creation.
type UpdateCompanyDriveRequest struct {
	DriveType           *DriveType      `json:"drive_type,omitempty"`
	WorkMode            *WorkMode       `json:"work_mode,omitempty"`
	Status              *DriveStatus    `json:"status,omitempty"`
	ApplicationDeadline *time.Time      `json:"application_deadline,omitempty"`
	Rounds              json.RawMessage `json:"rounds,omitempty"`
	Locations           json.RawMessage `json:"locations,omitempty"`
	MultipleOffers      *bool           `json:"multiple_offers,omitempty"`
}

// Validate validates CreateCompanyDriveRequest.
func (r *CreateCompanyDriveRequest) Validate() error {
	if strings.TrimSpace(r.PlacementDriveID) == "" {
		return errors.New("placement_drive_id is required")
	}
	if strings.TrimSpace(r.CompanyID) == "" {
		return errors.New("company_id is required")
	}
	dt, ok := ParseDriveType(string(r.DriveType))
	if !ok {
		return errors.New("invalid drive_type")
	}
	r.DriveType = dt
	wm, ok := ParseWorkMode(string(r.WorkMode))
	if !ok {
		return errors.New("invalid work_mode")
	}
	r.WorkMode = wm
	return nil
}

// HasUpdates reports whether any field is set in UpdateCompanyDriveRequest.
func (r *UpdateCompanyDriveRequest) HasUpdates() bool {
	return r.DriveType != nil || r.WorkMode != nil || r.Status != nil ||
		r.ApplicationDeadline != nil ||
		r.Rounds != nil ||
		r.Locations != nil ||
		r.MultipleOffers != nil
}

// Validate validates UpdateCompanyDriveRequest.
func (r *UpdateCompanyDriveRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.DriveType != nil {
		dt, ok := ParseDriveType(string(*r.DriveType))
		if !ok {
			return errors.New("invalid drive_type")
		}
		*r.DriveType = dt
	}
	if r.WorkMode != nil {
		wm, ok := ParseWorkMode(string(*r.WorkMode))
		if !ok {
			return errors.New("invalid work_mode")
		}
		*r.WorkMode = wm
	}
	if r.Status != nil {
		st, ok := ParseDriveStatus(string(*r.Status))
		if !ok {
			return errors.New("invalid status")
		}
		*r.Status = st
	}
	return nil
}

// AcceptsApplications reports whether the drive is open and, when a deadline
// is set, the deadline has not passed at the given instant.
func (d CompanyDrive) AcceptsApplications(now time.Time) bool {
	if d.Status != DriveStatusOpen {
		return false
	}
	if d.ApplicationDeadline != nil && now.After(*d.ApplicationDeadline) {
		return false
	}
	return true
}
