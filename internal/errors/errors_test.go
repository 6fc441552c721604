package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	assert.Equal(t, "company not found", NotFound("company not found").Error())

	wrapped := Wrap(errors.New("duplicate key"), ErrCodeConflict, "email already registered")
	assert.Equal(t, "email already registered: duplicate key", wrapped.Error())
}

func TestConstructorsSetCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"not found", NotFound("x"), ErrCodeNotFound},
		{"conflict", Conflict("x"), ErrCodeConflict},
		{"validation", Validation("x"), ErrCodeValidation},
		{"validation field", ValidationField("email", "x"), ErrCodeValidation},
		{"foreign key", ForeignKey("x"), ErrCodeForeignKey},
		{"foreign key formatted", ForeignKeyf("%s in use", "company"), ErrCodeForeignKey},
		{"unauthorized", Unauthorized("x"), ErrCodeUnauthorized},
		{"forbidden", Forbidden("x"), ErrCodeForbidden},
		{"internal", Internal("x"), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestForeignKeyfFormatsMessage(t *testing.T) {
	err := ForeignKeyf("%s is still referenced by other records", "company")
	assert.Equal(t, "company is still referenced by other records", err.Message)
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeConflict, "ignored"))
}

func TestWrapPreservesSentinelIdentity(t *testing.T) {
	sentinel := NotFound("drive not found")
	wrapped := Wrap(sentinel, ErrCodeForeignKey, "drive does not exist")

	// The outer code wins for classification, the cause stays matchable.
	assert.True(t, IsForeignKey(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.True(t, errors.Is(wrapped, sentinel))
}

func TestPredicatesSeeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("delete company: %w", ForeignKey("company is in use"))
	assert.True(t, IsForeignKey(err))
	assert.False(t, IsConflict(err))
}

func TestPredicatesRejectPlainErrors(t *testing.T) {
	plain := errors.New("boom")
	assert.False(t, IsNotFound(plain))
	assert.False(t, IsConflict(plain))
	assert.False(t, IsValidation(plain))
	assert.False(t, IsForeignKey(plain))
	assert.False(t, IsUnauthorized(plain))
	assert.False(t, IsForbidden(plain))
	assert.False(t, IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeConflict, GetCode(Conflict("x")))
	assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", Validation("bad input"))
	assert.Equal(t, ErrCodeValidation, GetCode(wrapped))
}

func TestGetField(t *testing.T) {
	err := ValidationField("phone_number", "must be 10 digits")
	require.Equal(t, "phone_number", GetField(err))
	assert.Equal(t, "", GetField(Validation("no field")))
	assert.Equal(t, "", GetField(errors.New("plain")))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("pq: constraint violated")
	err := Wrap(cause, ErrCodeConflict, "enrollment already exists")
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Nil(t, errors.Unwrap(NotFound("no cause")))
}
