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
	// ErrCompanyNotFound is returned when a company is not found.
	ErrCompanyNotFound = apperrors.NotFound("company not found")
	// ErrCompanyExists is returned when a create/update collides on the
	// unique name, email, or phone number.
	ErrCompanyExists = apperrors.Conflict("company with this name, email, or phone already exists")
)

// CompanyRepo provides database operations for companies.
type CompanyRepo struct {
	DB *sql.DB
}

// NewCompanyRepo creates a new CompanyRepo.
func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{DB: db}
}

const companyColumnsSQL = `id, name, email, phone_number, website_url, description, logo_url,
	year_founded, company_size, headquarters, created_at, updated_at`

// Create inserts a new company.
func (r *CompanyRepo) Create(ctx context.Context, req *model.CreateCompanyRequest) (*model.Company, error) {
	if req == nil {
		return nil, errors.New("create company request is required")
	}

	var out model.Company
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO companies (name, email, phone_number, website_url, description, logo_url,
				year_founded, company_size, headquarters)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+companyColumnsSQL,
			req.Name, req.Email, req.PhoneNumber, req.WebsiteURL, req.Description, req.LogoURL,
			req.YearFounded, req.CompanySize, req.Headquarters,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Company])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a company by ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*model.Company, error) {
	return r.getByQuery(ctx, `SELECT `+companyColumnsSQL+` FROM companies WHERE id = $1`, id)
}

// GetByName retrieves a company by its unique name.
func (r *CompanyRepo) GetByName(ctx context.Context, name string) (*model.Company, error) {
	return r.getByQuery(ctx,
		`SELECT `+companyColumnsSQL+` FROM companies WHERE name = $1`,
		strings.TrimSpace(name))
}

// ListWithOptions retrieves companies with optional filters and sorting.
func (r *CompanyRepo) ListWithOptions(ctx context.Context, opts model.CompaniesListOptions) ([]*model.Company, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns("id", "name", "email", "phone_number", "website_url", "description",
			"logo_url", "year_founded", "company_size", "headquarters", "created_at", "updated_at"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Size != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("company_size", database.Equal, string(*opts.Size)),
		))
	}
	sortCol, sortDir := sortColumnAndDir(opts.Sort, opts.Dir, map[string]string{
		"created_at": "created_at",
		"name":       "name",
	}, "created_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	query, args := database.BuildListQuery(database.NewListQueryOptions("companies", queryOpts...))

	var rowsOut []model.Company
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Company])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	res := make([]*model.Company, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a company.
func (r *CompanyRepo) Update(ctx context.Context, id string, req model.UpdateCompanyRequest) (*model.Company, error) {
	var out model.Company
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, `SELECT `+companyColumnsSQL+` FROM companies WHERE id = $1`, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Company])
			return e
		}
		args = append(args, id)
		query := "UPDATE companies SET " + setClause + ", updated_at = now() WHERE id = $" +
			strconv.Itoa(len(args)) + " RETURNING " + companyColumnsSQL
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Company])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// Delete deletes a company by ID.
func (r *CompanyRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, mapDeleteErr(err, "company")
	}
	return rows > 0, nil
}

// --- helpers ---

func (r *CompanyRepo) getByQuery(ctx context.Context, q string, args ...any) (*model.Company, error) {
	var out model.Company
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Company])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &out, nil
}

func (r *CompanyRepo) buildUpdateClause(req model.UpdateCompanyRequest) (string, []any) {
	setParts := make([]string, 0, 9)
	args := make([]any, 0, 9)
	nextIdx := func() int { return len(args) + 1 }

	add := func(col string, v any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, nextIdx()))
		args = append(args, v)
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.PhoneNumber != nil {
		add("phone_number", strings.TrimSpace(*req.PhoneNumber))
	}
	if req.WebsiteURL != nil {
		add("website_url", *req.WebsiteURL)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.LogoURL != nil {
		add("logo_url", *req.LogoURL)
	}
	if req.YearFounded != nil {
		add("year_founded", *req.YearFounded)
	}
	if req.CompanySize != nil {
		add("company_size", string(*req.CompanySize))
	}
	if req.Headquarters != nil {
		add("headquarters", *req.Headquarters)
	}
	if len(setParts) == 0 {
		return "", nil
	}
	return strings.Join(setParts, ", "), args
}

func (r *CompanyRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrCompanyNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrCompanyExists
	}
	return err
}
