package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hirespherex/portal-api/internal/data/database"
	"github.com/hirespherex/portal-api/internal/data/pgxutil"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
)

// ErrJobNotFound is returned when a job is not found.
var ErrJobNotFound = apperrors.NotFound("job not found")

// JobRepo provides database operations for job postings.
type JobRepo struct {
	DB *sql.DB
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db}
}

const jobColumnsSQL = `id, company_drive_id, title, description, min_cgpa, min_tenth_pct,
	min_twelfth_pct, max_backlogs, package_min, package_max, stipend, extra_criteria, details,
	posted_at, updated_at`

// Create inserts a new job posting.
func (r *JobRepo) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, errors.New("create job request is required")
	}

	var out model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO jobs (company_drive_id, title, description, min_cgpa, min_tenth_pct,
				min_twelfth_pct, max_backlogs, package_min, package_max, stipend, extra_criteria, details)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING `+jobColumnsSQL,
			req.CompanyDriveID, req.Title, req.Description, req.MinCGPA, req.MinTenthPct,
			req.MinTwelfthPct, req.MaxBacklogs, req.PackageMin, req.PackageMax, req.Stipend,
			req.ExtraCriteria, req.Details,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, apperrors.Wrap(ErrCompanyDriveNotFound, apperrors.ErrCodeForeignKey, "company drive does not exist")
		}
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+jobColumnsSQL+` FROM jobs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &out, nil
}

// ListWithOptions retrieves jobs with optional filters and sorting.
func (r *JobRepo) ListWithOptions(ctx context.Context, opts model.JobsListOptions) ([]*model.Job, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns("id", "company_drive_id", "title", "description", "min_cgpa",
			"min_tenth_pct", "min_twelfth_pct", "max_backlogs", "package_min", "package_max",
			"stipend", "extra_criteria", "details", "posted_at", "updated_at"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.CompanyDriveID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("company_drive_id", database.Equal, *opts.CompanyDriveID),
		))
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("title", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	sortCol, sortDir := sortColumnAndDir(opts.Sort, opts.Dir, map[string]string{
		"posted_at": "posted_at",
		"title":     "title",
	}, "posted_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	query, args := database.BuildListQuery(database.NewListQueryOptions("jobs", queryOpts...))

	var rowsOut []model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Job])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	res := make([]*model.Job, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a job posting.
func (r *JobRepo) Update(ctx context.Context, id string, req model.UpdateJobRequest) (*model.Job, error) {
	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, `SELECT `+jobColumnsSQL+` FROM jobs WHERE id = $1`, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
			return e
		}
		args = append(args, id)
		query := "UPDATE jobs SET " + setClause + ", updated_at = now() WHERE id = $" +
			strconv.Itoa(len(args)) + " RETURNING " + jobColumnsSQL
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return &out, nil
}

// Delete deletes a job by ID.
func (r *JobRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, mapDeleteErr(err, "job")
	}
	return rows > 0, nil
}

func (r *JobRepo) buildUpdateClause(req model.UpdateJobRequest) (string, []any) {
	setParts := make([]string, 0, 11)
	args := make([]any, 0, 12)

	add := func(col string, v any) {
		args = append(args, v)
		setParts = append(setParts, col+" = $"+strconv.Itoa(len(args)))
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.MinCGPA != nil {
		add("min_cgpa", *req.MinCGPA)
	}
	if req.MinTenthPct != nil {
		add("min_tenth_pct", *req.MinTenthPct)
	}
	if req.MinTwelfthPct != nil {
		add("min_twelfth_pct", *req.MinTwelfthPct)
	}
	if req.MaxBacklogs != nil {
		add("max_backlogs", *req.MaxBacklogs)
	}
	if req.PackageMin != nil {
		add("package_min", *req.PackageMin)
	}
	if req.PackageMax != nil {
		add("package_max", *req.PackageMax)
	}
	if req.Stipend != nil {
		add("stipend", *req.Stipend)
	}
	if req.ExtraCriteria != nil {
		add("extra_criteria", *req.ExtraCriteria)
	}
	if req.Details != nil {
		add("details", req.Details)
	}
	if len(setParts) == 0 {
		return "", nil
	}
	return strings.Join(setParts, ", "), args
}
