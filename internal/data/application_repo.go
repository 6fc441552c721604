package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hirespherex/portal-api/internal/data/database"
	"github.com/hirespherex/portal-api/internal/data/pgxutil"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
)

// Sentinels carry an error code so the HTTP layer can classify them without
// per-sentinel switches. errors.Is still matches them by identity.
var (
	// ErrApplicationNotFound is returned when an application is not found.
	ErrApplicationNotFound = apperrors.NotFound("application not found")
	// ErrApplicationExists is returned when the student already applied to
	// this company drive.
	ErrApplicationExists = apperrors.Conflict("student already applied to this company drive")
)

// ApplicationRepo provides database operations for drive applications.
type ApplicationRepo struct {
	DB *sql.DB
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db}
}

const applicationColumnsSQL = `id, company_drive_id, student_user_id, status, offered_job_id,
	resume_url, applied_at, updated_at`

// Create inserts a new application in the applied state.
func (r *ApplicationRepo) Create(ctx context.Context, companyDriveID, studentUserID, resumeURL string) (*model.Application, error) {
	var out model.Application
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO applications (company_drive_id, student_user_id, resume_url)
			VALUES ($1, $2, $3)
			RETURNING `+applicationColumnsSQL,
			companyDriveID, studentUserID, resumeURL,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return nil, ErrApplicationExists
			case pgerrcode.ForeignKeyViolation:
				return nil, ErrCompanyDriveNotFound
			}
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+applicationColumnsSQL+` FROM applications WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &out, nil
}

// ListWithOptions retrieves applications with optional filters and sorting.
func (r *ApplicationRepo) ListWithOptions(ctx context.Context, opts model.ApplicationsListOptions) ([]*model.Application, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns("id", "company_drive_id", "student_user_id", "status",
			"offered_job_id", "resume_url", "applied_at", "updated_at"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.CompanyDriveID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("company_drive_id", database.Equal, *opts.CompanyDriveID),
		))
	}
	if opts.StudentUserID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("student_user_id", database.Equal, *opts.StudentUserID),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status)),
		))
	}
	sortCol, sortDir := sortColumnAndDir(opts.Sort, opts.Dir, map[string]string{
		"applied_at": "applied_at",
		"updated_at": "updated_at",
	}, "applied_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	query, args := database.BuildListQuery(database.NewListQueryOptions("applications", queryOpts...))

	var rowsOut []model.Application
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Application])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	res := make([]*model.Application, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateStatus moves an application to a new status, optionally recording
// the offered job. Funnel rules are enforced in the service layer.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus, offeredJobID *string) (*model.Application, error) {
	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var rows pgx.Rows
		var err error
		if offeredJobID != nil {
			rows, err = conn.Query(ctx, `
				UPDATE applications SET status = $1, offered_job_id = $2, updated_at = now()
				WHERE id = $3 RETURNING `+applicationColumnsSQL,
				string(status), strings.TrimSpace(*offeredJobID), id)
		} else {
			rows, err = conn.Query(ctx, `
				UPDATE applications SET status = $1, updated_at = now()
				WHERE id = $2 RETURNING `+applicationColumnsSQL,
				string(status), id)
		}
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return &out, nil
}

// Delete withdraws an application.
func (r *ApplicationRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return rows > 0, nil
}
