package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
)

const (
	maxNameLen     = 150
	minPasswordLen = 8
)

// User represents a portal account. Roles come from the user_roles join
// table; PasswordHash never leaves the data layer in API responses.
type User struct {
	ID           string            `json:"id"                     db:"id"`
	Email        string            `json:"email"                  db:"email"`
	FirstName    string            `json:"first_name"             db:"first_name"`
	MiddleName   *string           `json:"middle_name,omitempty"  db:"middle_name"`
	LastName     *string           `json:"last_name,omitempty"    db:"last_name"`
	PhoneNumber  *string           `json:"phone_number,omitempty" db:"phone_number"`
	PasswordHash string            `json:"-"                      db:"password_hash"`
	Roles        []domainauth.Role `json:"roles"                  db:"-"`
	Active       bool              `json:"active"                 db:"active"`
	CreatedAt    time.Time         `json:"created_at"             db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"             db:"updated_at"`
}

// UsersListOptions controls paging and filtering for listing users.
type UsersListOptions struct {
	Limit  int
	Offset int
	Q      *string // substring match on email or first/last name (ILIKE)
	Role   *domainauth.Role
	Active *bool
	Sort   string // allowed: "created_at", "email"
	Dir    string // allowed: "asc", "desc"
}

// CreateUserRequest represents parameters to create a User. Password is the
// plaintext to hash; the service never stores it.
type CreateUserRequest struct {
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	MiddleName  *string           `json:"middle_name,omitempty"`
	LastName    *string           `json:"last_name,omitempty"`
	PhoneNumber *string           `json:"phone_number,omitempty"`
	Password    string            `json:"password"`
	Roles       []domainauth.Role `json:"roles"`
}

// UpdateUserRequest represents parameters to update a User.
type UpdateUserRequest struct {
	Email       *string            `json:"email,omitempty"`
	FirstName   *string            `json:"first_name,omitempty"`
	MiddleName  *string            `json:"middle_name,omitempty"`
	LastName    *string            `json:"last_name,omitempty"`
	PhoneNumber *string            `json:"phone_number,omitempty"`
	Roles       *[]domainauth.Role `json:"roles,omitempty"`
	Active      *bool              `json:"active,omitempty"`
}

// Validate validates CreateUserRequest. Roles must be non-empty and drawn
// from the closed role set.
func (r *CreateUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is not a valid address")
	}
	if strings.TrimSpace(r.FirstName) == "" {
		return errors.New("first_name is required")
	}
	if utf8.RuneCountInString(r.FirstName) > maxNameLen {
		return errors.New("first_name cannot exceed 150 characters")
	}
	if len(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	roles, err := validateRoles(r.Roles)
	if err != nil {
		return err
	}
	r.Roles = roles
	return nil
}

// HasUpdates reports whether any field is set in UpdateUserRequest.
func (r *UpdateUserRequest) HasUpdates() bool {
	return r.Email != nil || r.FirstName != nil || r.MiddleName != nil || r.LastName != nil ||
		r.PhoneNumber != nil ||
		r.Roles != nil ||
		r.Active != nil
}

// Validate validates UpdateUserRequest.
func (r *UpdateUserRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
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
	if r.FirstName != nil && strings.TrimSpace(*r.FirstName) == "" {
		return errors.New("first_name cannot be empty")
	}
	if r.Roles != nil {
		roles, err := validateRoles(*r.Roles)
		if err != nil {
			return err
		}
		*r.Roles = roles
	}
	return nil
}

func validateRoles(in []domainauth.Role) ([]domainauth.Role, error) {
	if len(in) == 0 {
		return nil, errors.New("at least one role is required")
	}
	for _, role := range in {
		if !role.Normalize().Known() {
			return nil, errors.New("unknown role: " + string(role))
		}
	}
	return domainauth.NormalizeRoles(in), nil
}
