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

var (
	// ErrCompanyDriveNotFound is returned when a company drive is not found.
	ErrCompanyDriveNotFound = apperrors.NotFound("company drive not found")
	// ErrCompanyDriveExists is returned when the company already participates
	// in the placement drive.
	ErrCompanyDriveExists = apperrors.Conflict("company already participates in this drive")
)

// CompanyDriveRepo provides database operations for company drives.
type CompanyDriveRepo struct {
	DB *sql.DB
}

// NewCompanyDriveRepo creates a new CompanyDriveRepo.
func NewCompanyDriveRepo(db *sql.DB) *CompanyDriveRepo {
	return &CompanyDriveRepo{DB: db}
}

const companyDriveColumnsSQL = `id, placement_drive_id, company_id, drive_type, work_mode, status,
	application_deadline, rounds, locations, multiple_offers, created_at, updated_at`

// Create inserts a new company drive. Status starts open.
func (r *CompanyDriveRepo) Create(ctx context.Context, req *model.CreateCompanyDriveRequest) (*model.CompanyDrive, error) {
	if req == nil {
		return nil, errors.New("create company drive request is required")
	}

	multipleOffers := false
	if req.MultipleOffers != nil {
		multipleOffers = *req.MultipleOffers
	}

	var out model.CompanyDrive
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO company_drives (placement_drive_id, company_id, drive_type, work_mode,
				application_deadline, rounds, locations, multiple_offers)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+companyDriveColumnsSQL,
			req.PlacementDriveID, req.CompanyID, req.DriveType, req.WorkMode,
			req.ApplicationDeadline, req.Rounds, req.Locations, multipleOffers,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.CompanyDrive])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a company drive by ID.
func (r *CompanyDriveRepo) GetByID(ctx context.Context, id string) (*model.CompanyDrive, error) {
	var out model.CompanyDrive
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+companyDriveColumnsSQL+` FROM company_drives WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.CompanyDrive])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyDriveNotFound
		}
		return nil, fmt.Errorf("failed to get company drive: %w", err)
	}
	return &out, nil
}

// ListWithOptions retrieves company drives with optional filters and sorting.
func (r *CompanyDriveRepo) ListWithOptions(ctx context.Context, opts model.CompanyDrivesListOptions) ([]*model.CompanyDrive, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns("id", "placement_drive_id", "company_id", "drive_type", "work_mode",
			"status", "application_deadline", "rounds", "locations", "multiple_offers",
			"created_at", "updated_at"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.PlacementDriveID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("placement_drive_id", database.Equal, *opts.PlacementDriveID),
		))
	}
	if opts.CompanyID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("company_id", database.Equal, *opts.CompanyID),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status)),
		))
	}
	if opts.DriveType != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("drive_type", database.Equal, string(*opts.DriveType)),
		))
	}
	sortCol, sortDir := sortColumnAndDir(opts.Sort, opts.Dir, map[string]string{
		"created_at":           "created_at",
		"application_deadline": "application_deadline",
	}, "created_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	query, args := database.BuildListQuery(database.NewListQueryOptions("company_drives", queryOpts...))

	var rowsOut []model.CompanyDrive
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.CompanyDrive])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list company drives: %w", err)
	}
	res := make([]*model.CompanyDrive, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a company drive.
func (r *CompanyDriveRepo) Update(ctx context.Context, id string, req model.UpdateCompanyDriveRequest) (*model.CompanyDrive, error) {
	var out model.CompanyDrive
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx,
				`SELECT `+companyDriveColumnsSQL+` FROM company_drives WHERE id = $1`, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.CompanyDrive])
			return e
		}
		args = append(args, id)
		query := "UPDATE company_drives SET " + setClause + ", updated_at = now() WHERE id = $" +
			strconv.Itoa(len(args)) + " RETURNING " + companyDriveColumnsSQL
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.CompanyDrive])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// Delete deletes a company drive by ID. Jobs and applications cascade.
func (r *CompanyDriveRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM company_drives WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, mapDeleteErr(err, "company drive")
	}
	return rows > 0, nil
}

// CloseExpired moves open company drives whose application deadline has
// passed to the closed status. Batched so large backlogs do not hold locks.
func (r *CompanyDriveRepo) CloseExpired(ctx context.Context, batchSize int) (int64, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE company_drives SET status = $1, updated_at = now()
			WHERE id IN (
				SELECT id FROM company_drives
				WHERE status = $2 AND application_deadline < now()
				LIMIT $3
			)`,
			string(model.DriveStatusClosed), string(model.DriveStatusOpen), batchSize,
		)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to close expired company drives: %w", err)
	}
	return rows, nil
}

// --- helpers ---

func (r *CompanyDriveRepo) buildUpdateClause(req model.UpdateCompanyDriveRequest) (string, []any) {
	setParts := make([]string, 0, 7)
	args := make([]any, 0, 8)

	add := func(col string, v any) {
		args = append(args, v)
		setParts = append(setParts, col+" = $"+strconv.Itoa(len(args)))
	}

	if req.DriveType != nil {
		add("drive_type", string(*req.DriveType))
	}
	if req.WorkMode != nil {
		add("work_mode", string(*req.WorkMode))
	}
	if req.Status != nil {
		add("status", string(*req.Status))
	}
	if req.ApplicationDeadline != nil {
		add("application_deadline", *req.ApplicationDeadline)
	}
	if req.Rounds != nil {
		add("rounds", req.Rounds)
	}
	if req.Locations != nil {
		add("locations", req.Locations)
	}
	if req.MultipleOffers != nil {
		add("multiple_offers", *req.MultipleOffers)
	}
	if len(setParts) == 0 {
		return "", nil
	}
	return strings.Join(setParts, ", "), args
}

func (r *CompanyDriveRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrCompanyDriveNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrCompanyDriveExists
		case pgerrcode.ForeignKeyViolation:
			return apperrors.Wrap(err, apperrors.ErrCodeForeignKey, "placement drive or company does not exist")
		}
	}
	return err
}
