package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const maxCompanyNameLen = 255

// CompanySize buckets a company's headcount.
type CompanySize string

const (
	CompanySizeSelf     CompanySize = "self"
	CompanySize1To10    CompanySize = "1-10"
	CompanySize11To50   CompanySize = "11-50"
	CompanySize51To500  CompanySize = "51-500"
	CompanySizeAbove500 CompanySize = "500+"
)

// Valid reports whether the company size bucket is supported.
func (s CompanySize) Valid() bool {
	switch s {
	case CompanySizeSelf, CompanySize1To10, CompanySize11To50, CompanySize51To500, CompanySizeAbove500:
		return true
	default:
		return false
	}
}

// ParseCompanySize normalizes a size string and reports whether it is supported.
func ParseCompanySize(value string) (CompanySize, bool) {
	s := CompanySize(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Company represents a recruiting company. Name, email and phone number are
// unique across companies.
type Company struct {
	ID           string       `json:"id"                      db:"id"`
	Name         string       `json:"name"                    db:"name"`
	Email        string       `json:"email"                   db:"email"`
	PhoneNumber  string       `json:"phone_number"            db:"phone_number"`
	WebsiteURL   *string      `json:"website_url,omitempty"   db:"website_url"`
	Description  *string      `json:"description,omitempty"   db:"description"`
	LogoURL      *string      `json:"logo_url,omitempty"      db:"logo_url"`
	YearFounded  *int         `json:"year_founded,omitempty"  db:"year_founded"`
	CompanySize  *CompanySize `json:"company_size,omitempty"  db:"company_size"`
	Headquarters *string      `json:"headquarters,omitempty"  db:"headquarters"`
	CreatedAt    time.Time    `json:"created_at"              db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"              db:"updated_at"`
}

// CompaniesListOptions controls paging and filtering for listing companies.
type CompaniesListOptions struct {
	Limit  int
	Offset int
	Q      *string      // substring match on name (ILIKE)
	Size   *CompanySize // exact match
	Sort   string       // allowed: "created_at", "name"
	Dir    string       // allowed: "asc", "desc"
}

// CreateCompanyRequest represents parameters to create a Company.
type CreateCompanyRequest struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PhoneNumber  string       `json:"phone_number"`
	WebsiteURL   *string      `json:"website_url,omitempty"`
	Description  *string      `json:"description,omitempty"`
	LogoURL      *string      `json:"logo_url,omitempty"`
	YearFounded  *int         `json:"year_founded,omitempty"`
	CompanySize  *CompanySize `json:"company_size,omitempty"`
	Headquarters *string      `json:"headquarters,omitempty"`
}

// UpdateCompanyRequest represents parameters to update a Company.
type UpdateCompanyRequest struct {
	Name         *string      `json:"name,omitempty"`
	Email        *string      `json:"email,omitempty"`
	PhoneNumber  *string      `json:"phone_number,omitempty"`
	WebsiteURL   *string      `json:"website_url,omitempty"`
	Description  *string      `json:"description,omitempty"`
	LogoURL      *string      `json:"logo_url,omitempty"`
	YearFounded  *int         `json:"year_founded,omitempty"`
	CompanySize  *CompanySize `json:"company_size,omitempty"`
	Headquarters *string      `json:"headquarters,omitempty"`
}

// Validate validates CreateCompanyRequest.
func (r *CreateCompanyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Name) > maxCompanyNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is not a valid address")
	}
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	if r.PhoneNumber == "" {
		return errors.New("phone_number is required")
	}
	if r.YearFounded != nil && (*r.YearFounded < 1800 || *r.YearFounded > time.Now().Year()) {
		return errors.New("year_founded is out of range")
	}
	if r.CompanySize != nil {
		size, ok := ParseCompanySize(string(*r.CompanySize))
		if !ok {
			return errors.New("invalid company_size")
		}
		*r.CompanySize = size
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateCompanyRequest.
func (r *UpdateCompanyRequest) HasUpdates() bool {
	return r.Name != nil || r.Email != nil || r.PhoneNumber != nil || r.WebsiteURL != nil ||
		r.Description != nil ||
		r.LogoURL != nil ||
		r.YearFounded != nil ||
		r.CompanySize != nil ||
		r.Headquarters != nil
}

// Validate validates UpdateCompanyRequest.
func (r *UpdateCompanyRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxCompanyNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
		*r.Name = n
	}
	if r.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*r.Email))
		if e == "" {
			return errors.New("email cannot be empty")
		}
		if _, err := mail.ParseAddress(e); err != nil {
			return errors.New("email is not a valid address")
		}
		*r.Email = e
	}
	if r.PhoneNumber != nil && strings.TrimSpace(*r.PhoneNumber) == "" {
		return errors.New("phone_number cannot be empty")
	}
	if r.YearFounded != nil && (*r.YearFounded < 1800 || *r.YearFounded > time.Now().Year()) {
		return errors.New("year_founded is out of range")
	}
	if r.CompanySize != nil {
		size, ok := ParseCompanySize(string(*r.CompanySize))
		if !ok {
			return errors.New("invalid company_size")
		}
		*r.CompanySize = size
	}
	return nil
}
