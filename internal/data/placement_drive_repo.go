package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hirespherex/portal-api/internal/data/database"
	"github.com/hirespherex/portal-api/internal/data/pgxutil"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
)

// ErrPlacementDriveNotFound is returned when a placement drive is not found.
var ErrPlacementDriveNotFound = apperrors.NotFound("placement drive not found")

// PlacementDriveRepo provides database operations for placement drives.
type PlacementDriveRepo struct {
	DB *sql.DB
}

// NewPlacementDriveRepo creates a new PlacementDriveRepo.
func NewPlacementDriveRepo(db *sql.DB) *PlacementDriveRepo {
	return &PlacementDriveRepo{DB: db}
}

const placementDriveColumnsSQL = `id, title, start_date, end_date, created_at, updated_at`

// Create inserts a new placement drive.
func (r *PlacementDriveRepo) Create(ctx context.Context, req *model.CreatePlacementDriveRequest) (*model.PlacementDrive, error) {
	if req == nil {
		return nil, errors.New("create placement drive request is required")
	}

	var out model.PlacementDrive
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO placement_drives (title, start_date, end_date)
			VALUES ($1, $2, $3)
			RETURNING `+placementDriveColumnsSQL,
			req.Title, req.StartDate, req.EndDate,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PlacementDrive])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create placement drive: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a placement drive by ID.
func (r *PlacementDriveRepo) GetByID(ctx context.Context, id string) (*model.PlacementDrive, error) {
	var out model.PlacementDrive
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+placementDriveColumnsSQL+` FROM placement_drives WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PlacementDrive])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlacementDriveNotFound
		}
		return nil, fmt.Errorf("failed to get placement drive: %w", err)
	}
	return &out, nil
}

// ListWithOptions retrieves placement drives with optional filters and sorting.
func (r *PlacementDriveRepo) ListWithOptions(ctx context.Context, opts model.PlacementDrivesListOptions) ([]*model.PlacementDrive, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns("id", "title", "start_date", "end_date", "created_at", "updated_at"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("title", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	sortCol, sortDir := sortColumnAndDir(opts.Sort, opts.Dir, map[string]string{
		"created_at": "created_at",
		"title":      "title",
		"start_date": "start_date",
	}, "created_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	query, args := database.BuildListQuery(database.NewListQueryOptions("placement_drives", queryOpts...))

	var rowsOut []model.PlacementDrive
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.PlacementDrive])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list placement drives: %w", err)
	}
	res := make([]*model.PlacementDrive, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a placement drive.
func (r *PlacementDriveRepo) Update(ctx context.Context, id string, req model.UpdatePlacementDriveRequest) (*model.PlacementDrive, error) {
	var out model.PlacementDrive
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setParts := make([]string, 0, 3)
		args := make([]any, 0, 4)
		if req.Title != nil {
			args = append(args, *req.Title)
			setParts = append(setParts, "title = $"+strconv.Itoa(len(args)))
		}
		if req.StartDate != nil {
			args = append(args, *req.StartDate)
			setParts = append(setParts, "start_date = $"+strconv.Itoa(len(args)))
		}
		if req.EndDate != nil {
			args = append(args, *req.EndDate)
			setParts = append(setParts, "end_date = $"+strconv.Itoa(len(args)))
		}
		if len(setParts) == 0 {
			rows, err := conn.Query(ctx,
				`SELECT `+placementDriveColumnsSQL+` FROM placement_drives WHERE id = $1`, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PlacementDrive])
			return e
		}
		args = append(args, id)
		query := "UPDATE placement_drives SET " + strings.Join(setParts, ", ") +
			", updated_at = now() WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + placementDriveColumnsSQL
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PlacementDrive])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlacementDriveNotFound
		}
		return nil, fmt.Errorf("failed to update placement drive: %w", err)
	}
	return &out, nil
}

// Delete deletes a placement drive by ID. Company drives cascade.
func (r *PlacementDriveRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM placement_drives WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, mapDeleteErr(err, "placement drive")
	}
	return rows > 0, nil
}
