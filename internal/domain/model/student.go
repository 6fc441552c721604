package model

import (
	"errors"
	"strings"
	"time"
)

// Gender choices mirror the enrollment form.
type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderOther       Gender = "other"
	GenderUndisclosed Gender = "prefer not to say"
)

// Valid reports whether the gender value is supported.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUndisclosed:
		return true
	default:
		return false
	}
}

// ParseGender normalizes a gender string and reports whether it is supported.
func ParseGender(value string) (Gender, bool) {
	g := Gender(strings.ToLower(strings.TrimSpace(value)))
	if g.Valid() {
		return g, true
	}
	return "", false
}

// StudentProfile extends a user account with academic data. UserID is the
// primary key; EnrollmentNumber is unique. A profile may only be marked
// verified once CGPA and both school percentages are on file.
type StudentProfile struct {
	UserID           string     `json:"user_id"                     db:"user_id"`
	EnrollmentNumber string     `json:"enrollment_number"           db:"enrollment_number"`
	Program          *string    `json:"program,omitempty"           db:"program"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"     db:"date_of_birth"`
	Gender           *Gender    `json:"gender,omitempty"            db:"gender"`
	Address          *string    `json:"address,omitempty"           db:"address"`
	City             *string    `json:"city,omitempty"              db:"city"`
	PostalCode       *string    `json:"postal_code,omitempty"       db:"postal_code"`
	CGPA             *float64   `json:"cgpa,omitempty"              db:"cgpa"`
	TenthPct         *float64   `json:"tenth_pct,omitempty"         db:"tenth_pct"`
	TwelfthPct       *float64   `json:"twelfth_pct,omitempty"       db:"twelfth_pct"`
	ActiveBacklogs   int        `json:"active_backlogs"             db:"active_backlogs"`
	JoiningYear      int        `json:"joining_year"                db:"joining_year"`
	ResumeURL        *string    `json:"resume_url,omitempty"        db:"resume_url"`
	Placed           bool       `json:"placed"                      db:"placed"`
	Verified         bool       `json:"verified"                    db:"verified"`
	CreatedAt        time.Time  `json:"created_at"                  db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"                  db:"updated_at"`
}

// HasAcademicRecord reports whether the academic fields required for
// verification are all present.
func (p StudentProfile) HasAcademicRecord() bool {
	return p.CGPA != nil && p.TenthPct != nil && p.TwelfthPct != nil
}

// StudentsListOptions controls paging and filtering for listing students.
type StudentsListOptions struct {
	Limit       int
	Offset      int
	Q           *string // substring match on enrollment number (ILIKE)
	Program     *string
	Verified    *bool
	Placed      *bool
	JoiningYear *int
	Sort        string // allowed: "created_at", "enrollment_number", "cgpa"
	Dir         string // allowed: "asc", "desc"
}

// CreateStudentProfileRequest represents parameters to create a StudentProfile.
type CreateStudentProfileRequest struct {
	UserID           string     `json:"user_id"`
	EnrollmentNumber string     `json:"enrollment_number"`
	Program          *string    `json:"program,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Gender           *Gender    `json:"gender,omitempty"`
	Address          *string    `json:"address,omitempty"`
	City             *string    `json:"city,omitempty"`
	PostalCode       *string    `json:"postal_code,omitempty"`
	CGPA             *float64   `json:"cgpa,omitempty"`
	TenthPct         *float64   `json:"tenth_pct,omitempty"`
	TwelfthPct       *float64   `json:"twelfth_pct,omitempty"`
	ActiveBacklogs   *int       `json:"active_backlogs,omitempty"`
	JoiningYear      int        `json:"joining_year"`
	ResumeURL        *string    `json:"resume_url,omitempty"`
}

// UpdateStudentProfileRequest represents parameters to update a StudentProfile.
// Verified and Placed are placement-cell-only transitions and travel on the
// same request; the service enforces who may set them.
type UpdateStudentProfileRequest struct {
	Program        *string    `json:"program,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Gender         *Gender    `json:"gender,omitempty"`
	Address        *string    `json:"address,omitempty"`
	City           *string    `json:"city,omitempty"`
	PostalCode     *string    `json:"postal_code,omitempty"`
	CGPA           *float64   `json:"cgpa,omitempty"`
	TenthPct       *float64   `json:"tenth_pct,omitempty"`
	TwelfthPct     *float64   `json:"twelfth_pct,omitempty"`
	ActiveBacklogs *int       `json:"active_backlogs,omitempty"`
	JoiningYear    *int       `json:"joining_year,omitempty"`
	ResumeURL      *string    `json:"resume_url,omitempty"`
	Placed         *bool      `json:"placed,omitempty"`
	Verified       *bool      `json:"verified,omitempty"`
}

func validateAcademics(cgpa, tenth, twelfth *float64, backlogs *int) error {
	if cgpa != nil && (*cgpa < 0 || *cgpa > 10) {
		return errors.New("cgpa must be between 0 and 10")
	}
	if tenth != nil && (*tenth < 0 || *tenth > 100) {
		return errors.New("tenth_pct must be between 0 and 100")
	}
	if twelfth != nil && (*twelfth < 0 || *twelfth > 100) {
		return errors.New("twelfth_pct must be between 0 and 100")
	}
	if backlogs != nil && *backlogs < 0 {
		return errors.New("active_backlogs cannot be negative")
	}
	return nil
}

// Validate validates CreateStudentProfileRequest.
func (r *CreateStudentProfileRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	r.EnrollmentNumber = strings.ToUpper(strings.TrimSpace(r.EnrollmentNumber))
	if r.EnrollmentNumber == "" {
		return errors.New("enrollment_number is required")
	}
	if r.JoiningYear < 1990 || r.JoiningYear > time.Now().Year()+1 {
		return errors.New("joining_year is out of range")
	}
	if r.Gender != nil {
		g, ok := ParseGender(string(*r.Gender))
		if !ok {
			return errors.New("invalid gender")
		}
		*r.Gender = g
	}
	return validateAcademics(r.CGPA, r.TenthPct, r.TwelfthPct, r.ActiveBacklogs)
}

// HasUpdates reports whether any field is set in UpdateStudentProfileRequest.
func (r *UpdateStudentProfileRequest) HasUpdates() bool {
	return r.Program != nil || r.DateOfBirth != nil || r.Gender != nil || r.Address != nil ||
		r.City != nil ||
		r.PostalCode != nil ||
		r.CGPA != nil ||
		r.TenthPct != nil ||
		r.TwelfthPct != nil ||
		r.ActiveBacklogs != nil ||
		r.JoiningYear != nil ||
		r.ResumeURL != nil ||
		r.Placed != nil ||
		r.Verified != nil
}

// Validate validates UpdateStudentProfileRequest.
func (r *UpdateStudentProfileRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.JoiningYear != nil && (*r.JoiningYear < 1990 || *r.JoiningYear > time.Now().Year()+1) {
		return errors.New("joining_year is out of range")
	}
	if r.Gender != nil {
		g, ok := ParseGender(string(*r.Gender))
		if !ok {
			return errors.New("invalid gender")
		}
		*r.Gender = g
	}
	return validateAcademics(r.CGPA, r.TenthPct, r.TwelfthPct, r.ActiveBacklogs)
}
