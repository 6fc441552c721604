package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/hirespherex/portal-api/internal/adapters/credauth"
	"github.com/hirespherex/portal-api/internal/core"
	"github.com/hirespherex/portal-api/internal/data"
)

// Sentinel errors surfaced by PasswordResetService.
var (
	ErrResetTokenInvalid = errors.New("password reset token is invalid or expired")
)

// defaultResetTokenTTL bounds how long a reset link stays valid.
const defaultResetTokenTTL = 30 * time.Minute

// PasswordResetServiceOptions groups dependencies for PasswordResetService.
type PasswordResetServiceOptions struct {
	Users    core.UserRepository
	Tokens   core.PasswordResetRepository
	TokenTTL time.Duration
	Now      func() time.Time
}

// PasswordResetService issues and redeems single-use password reset tokens.
// Only a SHA-256 hash of the token is persisted; the raw token travels in
// the emailed link and is never stored.
type PasswordResetService struct {
	users    core.UserRepository
	tokens   core.PasswordResetRepository
	tokenTTL time.Duration
	now      func() time.Time
}

// NewPasswordResetService constructs a new PasswordResetService.
func NewPasswordResetService(opts PasswordResetServiceOptions) *PasswordResetService {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultResetTokenTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &PasswordResetService{
		users:    opts.Users,
		tokens:   opts.Tokens,
		tokenTTL: ttl,
		now:      now,
	}
}

// RequestReset issues a reset token for the account with the given email.
// To avoid leaking which emails exist, an unknown address returns an empty
// token and no error; callers send mail only when a token comes back.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	raw, err := generateResetToken()
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := s.now().Add(s.tokenTTL)
	if _, err := s.tokens.Create(ctx, user.ID, hashResetToken(raw), expiresAt); err != nil {
		return "", fmt.Errorf("persist reset token: %w", err)
	}

	return raw, nil
}

// ValidateToken reports whether a raw token is usable without consuming it.
// Used by the reset form to fail fast before the user types a new password.
func (s *PasswordResetService) ValidateToken(ctx context.Context, raw string) error {
	_, err := s.usableToken(ctx, raw)
	return err
}

// ConfirmReset redeems a token: it sets the new password and marks the token
// used so it cannot be replayed.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, raw, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	token, err := s.usableToken(ctx, raw)
	if err != nil {
		return err
	}

	hash, err := credauth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, token.UserID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.tokens.MarkUsed(ctx, token.ID); err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}

	return nil
}

// PurgeExpired deletes stale tokens. Intended to run periodically.
func (s *PasswordResetService) PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.tokens.PurgeExpired(ctx, olderThan)
}

func (s *PasswordResetService) usableToken(ctx context.Context, raw string) (*tokenRecord, error) {
	if raw == "" {
		return nil, ErrResetTokenInvalid
	}
	token, err := s.tokens.GetByHash(ctx, hashResetToken(raw))
	if err != nil {
		if errors.Is(err, data.ErrResetTokenNotFound) {
			return nil, ErrResetTokenInvalid
		}
		return nil, fmt.Errorf("look up reset token: %w", err)
	}
	if !token.Usable(s.now()) {
		return nil, ErrResetTokenInvalid
	}
	return &tokenRecord{ID: token.ID, UserID: token.UserID}, nil
}

type tokenRecord struct {
	ID     string
	UserID string
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
