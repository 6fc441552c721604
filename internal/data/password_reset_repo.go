package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hirespherex/portal-api/internal/data/pgxutil"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
)

// ErrResetTokenNotFound is returned when no reset token matches the hash.
var ErrResetTokenNotFound = apperrors.NotFound("password reset token not found")

// PasswordResetRepo provides database operations for password reset tokens.
type PasswordResetRepo struct {
	DB    *sql.DB
	clock Clock
}

// NewPasswordResetRepo creates a new PasswordResetRepo.
func NewPasswordResetRepo(db *sql.DB) *PasswordResetRepo {
	return &PasswordResetRepo{DB: db, clock: systemClock{}}
}

const resetTokenColumnsSQL = `id, user_id, token_hash, expires_at, used_at, created_at`

// Create stores a token hash for a user. Any previous unused tokens for the
// same user are invalidated first so only the latest mail works.
func (r *PasswordResetRepo) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*model.PasswordResetToken, error) {
	var out model.PasswordResetToken
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE password_reset_tokens SET used_at = now()
			WHERE user_id = $1 AND used_at IS NULL`, userID); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, `
			INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
			VALUES ($1, $2, $3)
			RETURNING `+resetTokenColumnsSQL,
			userID, tokenHash, expiresAt)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PasswordResetToken])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reset token: %w", err)
	}
	return &out, nil
}

// GetByHash retrieves a token record by its hash.
func (r *PasswordResetRepo) GetByHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	var out model.PasswordResetToken
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+resetTokenColumnsSQL+` FROM password_reset_tokens WHERE token_hash = $1`,
			tokenHash)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PasswordResetToken])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &out, nil
}

// MarkUsed consumes a token so it cannot redeem a second reset.
func (r *PasswordResetRepo) MarkUsed(ctx context.Context, id string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE password_reset_tokens SET used_at = now()
			WHERE id = $1 AND used_at IS NULL`, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	if affected == 0 {
		return ErrResetTokenNotFound
	}
	return nil
}

// PurgeExpired removes tokens whose expiry is older than the given horizon.
// Returns the number of rows removed.
func (r *PasswordResetRepo) PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := r.clock.Now().UTC().Add(-olderThan)
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`DELETE FROM password_reset_tokens WHERE expires_at < $1`, cutoff)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge reset tokens: %w", err)
	}
	return rows, nil
}
