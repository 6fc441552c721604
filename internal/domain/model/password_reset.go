package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// PasswordResetToken is a single-use, time-boxed token mailed to a user who
// requested a password reset. Only the hash of the token is stored.
type PasswordResetToken struct {
	ID        string     `json:"id"         db:"id"`
	UserID    string     `json:"user_id"    db:"user_id"`
	TokenHash string     `json:"-"          db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty" db:"used_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Usable reports whether the token can still redeem a reset at the given instant.
func (t PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// RequestPasswordResetRequest starts the reset flow for an email address.
type RequestPasswordResetRequest struct {
	Email string `json:"email"`
}

// ConfirmPasswordResetRequest redeems a token with a new password.
type ConfirmPasswordResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Validate validates RequestPasswordResetRequest.
func (r *RequestPasswordResetRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is not a valid address")
	}
	return nil
}

// Validate validates ConfirmPasswordResetRequest.
func (r *ConfirmPasswordResetRequest) Validate() error {
	r.Token = strings.TrimSpace(r.Token)
	if r.Token == "" {
		return errors.New("token is required")
	}
	if len(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
