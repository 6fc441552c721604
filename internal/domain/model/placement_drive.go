package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxDriveTitleLen = 255

// PlacementDrive is a recruiting season, e.g. "2026 Summer Internships".
// Company drives hang off it.
type PlacementDrive struct {
	ID        string     `json:"id"                   db:"id"`
	Title     string     `json:"title"                db:"title"`
	StartDate *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"   db:"end_date"`
	CreatedAt time.Time  `json:"created_at"           db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"           db:"updated_at"`
}

// PlacementDrivesListOptions controls paging and filtering for listing drives.
type PlacementDrivesListOptions struct {
	Limit  int
	Offset int
	Q      *string // substring match on title (ILIKE)
	Sort   string  // allowed: "created_at", "title", "start_date"
	Dir    string  // allowed: "asc", "desc"
}

// CreatePlacementDriveRequest represents parameters to create a PlacementDrive.
type CreatePlacementDriveRequest struct {
	Title     string     `json:"title"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// UpdatePlacementDriveRequest represents parameters to update a PlacementDrive.
type UpdatePlacementDriveRequest struct {
	Title     *string    `json:"title,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Validate validates CreatePlacementDriveRequest.
func (r *CreatePlacementDriveRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Title) > maxDriveTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return errors.New("end_date cannot be before start_date")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdatePlacementDriveRequest.
func (r *UpdatePlacementDriveRequest) HasUpdates() bool {
	return r.Title != nil || r.StartDate != nil || r.EndDate != nil
}

// Validate validates UpdatePlacementDriveRequest.
func (r *UpdatePlacementDriveRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(t) > maxDriveTitleLen {
			return errors.New("title cannot exceed 255 characters")
		}
		*r.Title = t
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return errors.New("end_date cannot be before start_date")
	}
	return nil
}
