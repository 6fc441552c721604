// Package errors defines the typed application error used across the data,
// service, and HTTP layers. Repositories attach a code when they classify a
// database failure; handlers branch on the code to pick a status without
// knowing which sentinel produced it.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError for transport-level handling.
type ErrorCode string

const (
	// ErrCodeNotFound marks a lookup that matched no rows.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict marks a uniqueness or state conflict.
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation marks rejected input.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeForeignKey marks a broken or still-held reference.
	ErrCodeForeignKey ErrorCode = "foreign_key"
	// ErrCodeUnauthorized marks a missing or expired session.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden marks an authenticated caller lacking the role.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeInternal marks everything else.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError carries a classification code alongside the message. Field is set
// when the error concerns a single input field.
type AppError struct {
	Code    ErrorCode
	Message string
	Field   string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound builds a not_found error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Conflict builds a conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Validation builds a validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField builds a validation error tied to one input field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// ForeignKey builds a foreign_key error.
func ForeignKey(message string) *AppError {
	return &AppError{Code: ErrCodeForeignKey, Message: message}
}

// ForeignKeyf builds a foreign_key error with a formatted message.
func ForeignKeyf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeForeignKey, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized builds an unauthorized error.
func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message}
}

// Forbidden builds a forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// Internal builds an internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Wrap attaches a code and message to an existing error. The cause stays
// reachable through errors.Is and errors.As, so sentinel comparisons keep
// working on the wrapped value. Returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound reports whether err carries the not_found code.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict reports whether err carries the conflict code.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation reports whether err carries the validation code.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsForeignKey reports whether err carries the foreign_key code.
func IsForeignKey(err error) bool { return isCode(err, ErrCodeForeignKey) }

// IsUnauthorized reports whether err carries the unauthorized code.
func IsUnauthorized(err error) bool { return isCode(err, ErrCodeUnauthorized) }

// IsForbidden reports whether err carries the forbidden code.
func IsForbidden(err error) bool { return isCode(err, ErrCodeForbidden) }

// GetCode extracts the ErrorCode from err, defaulting to internal for plain
// errors.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetField extracts the offending field name, when set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
