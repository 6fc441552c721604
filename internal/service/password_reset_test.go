package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirespherex/portal-api/internal/data"
	"github.com/hirespherex/portal-api/internal/domain/model"
	"github.com/hirespherex/portal-api/internal/mocks"
	"github.com/hirespherex/portal-api/internal/testutil"
)

const testUserEmail = "jane.doe@example.edu"

func newResetFixture(t *testing.T) (*PasswordResetService, *mocks.MockUserRepository, *mocks.MockPasswordResetRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUserRepository(ctrl)
	tokens := mocks.NewMockPasswordResetRepository(ctrl)
	svc := NewPasswordResetService(PasswordResetServiceOptions{
		Users:    users,
		Tokens:   tokens,
		TokenTTL: 30 * time.Minute,
		Now:      testutil.FixedTimeFunc(testutil.TestTime()),
	})
	return svc, users, tokens
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	svc, users, tokens := newResetFixture(t)
	ctx := context.Background()

	users.EXPECT().GetByEmail(ctx, testUserEmail).Return(&model.User{ID: "user-1", Email: testUserEmail}, nil)

	var storedHash string
	tokens.EXPECT().
		Create(ctx, "user-1", gomock.Any(), testutil.TestTime().Add(30*time.Minute)).
		DoAndReturn(func(_ context.Context, userID, tokenHash string, expiresAt time.Time) (*model.PasswordResetToken, error) {
			storedHash = tokenHash
			return &model.PasswordResetToken{ID: "token-1", UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}, nil
		})

	raw, err := svc.RequestReset(ctx, testUserEmail)

	require.NoError(t, err)
	assert.Len(t, raw, 64)
	// Only the hash is persisted, never the raw token.
	assert.NotEqual(t, raw, storedHash)
	assert.Equal(t, hashResetToken(raw), storedHash)
}

func TestPasswordResetService_RequestReset_UnknownEmailIsSilent(t *testing.T) {
	svc, users, _ := newResetFixture(t)
	ctx := context.Background()

	users.EXPECT().GetByEmail(ctx, "nobody@example.edu").Return(nil, data.ErrUserNotFound)

	raw, err := svc.RequestReset(ctx, "nobody@example.edu")

	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestPasswordResetService_ConfirmReset(t *testing.T) {
	svc, users, tokens := newResetFixture(t)
	ctx := context.Background()

	raw := "3f786850e387550fdab836ed7e6dc881de23001b3f786850e387550fdab836ed"
	token := &model.PasswordResetToken{
		ID:        "token-1",
		UserID:    "user-1",
		TokenHash: hashResetToken(raw),
		ExpiresAt: testutil.TestTime().Add(10 * time.Minute),
	}

	tokens.EXPECT().GetByHash(ctx, hashResetToken(raw)).Return(token, nil)
	users.EXPECT().UpdatePassword(ctx, "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, passwordHash string) error {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("new-password-1")))
			return nil
		})
	tokens.EXPECT().MarkUsed(ctx, "token-1").Return(nil)

	err := svc.ConfirmReset(ctx, raw, "new-password-1")

	require.NoError(t, err)
}

func TestPasswordResetService_ConfirmReset_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		password string
		setup    func(tokens *mocks.MockPasswordResetRepository)
		wantErr  string
	}{
		{
			name:     "short password",
			raw:      "abc",
			password: "short",
			wantErr:  "at least 8 characters",
		},
		{
			name:     "unknown token",
			raw:      "deadbeef",
			password: "new-password-1",
			setup: func(tokens *mocks.MockPasswordResetRepository) {
				tokens.EXPECT().GetByHash(gomock.Any(), gomock.Any()).Return(nil, data.ErrResetTokenNotFound)
			},
			wantErr: ErrResetTokenInvalid.Error(),
		},
		{
			name:     "expired token",
			raw:      "deadbeef",
			password: "new-password-1",
			setup: func(tokens *mocks.MockPasswordResetRepository) {
				tokens.EXPECT().GetByHash(gomock.Any(), gomock.Any()).Return(&model.PasswordResetToken{
					ID:        "token-1",
					UserID:    "user-1",
					ExpiresAt: testutil.TestTime().Add(-time.Minute),
				}, nil)
			},
			wantErr: ErrResetTokenInvalid.Error(),
		},
		{
			name:     "already used token",
			raw:      "deadbeef",
			password: "new-password-1",
			setup: func(tokens *mocks.MockPasswordResetRepository) {
				tokens.EXPECT().GetByHash(gomock.Any(), gomock.Any()).Return(&model.PasswordResetToken{
					ID:        "token-1",
					UserID:    "user-1",
					ExpiresAt: testutil.TestTime().Add(time.Minute),
					UsedAt:    testutil.TimePtr(testutil.TestTime().Add(-time.Minute)),
				}, nil)
			},
			wantErr: ErrResetTokenInvalid.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, tokens := newResetFixture(t)
			if tt.setup != nil {
				tt.setup(tokens)
			}

			err := svc.ConfirmReset(context.Background(), tt.raw, tt.password)

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPasswordResetService_ValidateToken(t *testing.T) {
	svc, _, tokens := newResetFixture(t)
	ctx := context.Background()

	raw := "feedface"
	tokens.EXPECT().GetByHash(ctx, hashResetToken(raw)).Return(&model.PasswordResetToken{
		ID:        "token-1",
		UserID:    "user-1",
		ExpiresAt: testutil.TestTime().Add(time.Minute),
	}, nil)

	require.NoError(t, svc.ValidateToken(ctx, raw))
	assert.ErrorIs(t, svc.ValidateToken(ctx, ""), ErrResetTokenInvalid)
}

func TestPasswordResetService_PurgeExpired(t *testing.T) {
	svc, _, tokens := newResetFixture(t)
	ctx := context.Background()

	tokens.EXPECT().PurgeExpired(ctx, 24*time.Hour).Return(int64(3), nil)

	n, err := svc.PurgeExpired(ctx, 24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
