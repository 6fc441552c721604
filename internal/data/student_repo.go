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
	// ErrStudentNotFound is returned when a student profile is not found.
	ErrStudentNotFound = apperrors.NotFound("student profile not found")
	// ErrEnrollmentExists is returned when the enrollment number is taken.
	ErrEnrollmentExists = apperrors.Conflict("enrollment number already exists")
	// ErrStudentNotVerifiable is returned when verification is attempted
	// without a complete academic record.
	ErrStudentNotVerifiable = apperrors.Validation("student profile lacks academic record required for verification")
)

// StudentRepo provides database operations for student profiles.
type StudentRepo struct {
	DB *sql.DB
}

// NewStudentRepo creates a new StudentRepo.
func NewStudentRepo(db *sql.DB) *StudentRepo {
	return &StudentRepo{DB: db}
}

const studentColumnsSQL = `user_id, enrollment_number, program, date_of_birth, gender, address,
	city, postal_code, cgpa, tenth_pct, twelfth_pct, active_backlogs, joining_year, resume_url,
	placed, verified, created_at, updated_at`

// Create inserts a new student profile.
func (r *StudentRepo) Create(ctx context.Context, req *model.CreateStudentProfileRequest) (*model.StudentProfile, error) {
	if req == nil {
		return nil, errors.New("create student profile request is required")
	}

	backlogs := 0
	if req.ActiveBacklogs != nil {
		backlogs = *req.ActiveBacklogs
	}

	var out model.StudentProfile
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO student_profiles (user_id, enrollment_number, program, date_of_birth,
				gender, address, city, postal_code, cgpa, tenth_pct, twelfth_pct,
				active_backlogs, joining_year, resume_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING `+studentColumnsSQL,
			req.UserID, req.EnrollmentNumber, req.Program, req.DateOfBirth, req.Gender,
			req.Address, req.City, req.PostalCode, req.CGPA, req.TenthPct, req.TwelfthPct,
			backlogs, req.JoiningYear, req.ResumeURL,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StudentProfile])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByUserID retrieves a student profile by its user ID.
func (r *StudentRepo) GetByUserID(ctx context.Context, userID string) (*model.StudentProfile, error) {
	return r.getByQuery(ctx,
		`SELECT `+studentColumnsSQL+` FROM student_profiles WHERE user_id = $1`, userID)
}

// GetByEnrollmentNumber retrieves a student profile by enrollment number.
func (r *StudentRepo) GetByEnrollmentNumber(ctx context.Context, enrollment string) (*model.StudentProfile, error) {
	return r.getByQuery(ctx,
		`SELECT `+studentColumnsSQL+` FROM student_profiles WHERE enrollment_number = $1`,
		strings.ToUpper(strings.TrimSpace(enrollment)))
}

// ListWithOptions retrieves student profiles with optional filters and sorting.
func (r *StudentRepo) ListWithOptions(ctx context.Context, opts model.StudentsListOptions) ([]*model.StudentProfile, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns("user_id", "enrollment_number", "program", "date_of_birth", "gender",
			"address", "city", "postal_code", "cgpa", "tenth_pct", "twelfth_pct",
			"active_backlogs", "joining_year", "resume_url", "placed", "verified",
			"created_at", "updated_at"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("enrollment_number", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Program != nil && strings.TrimSpace(*opts.Program) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("program", database.Equal, strings.TrimSpace(*opts.Program)),
		))
	}
	if opts.Verified != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("verified", database.Equal, *opts.Verified),
		))
	}
	if opts.Placed != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("placed", database.Equal, *opts.Placed),
		))
	}
	if opts.JoiningYear != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("joining_year", database.Equal, *opts.JoiningYear),
		))
	}
	sortCol, sortDir := sortColumnAndDir(opts.Sort, opts.Dir, map[string]string{
		"created_at":        "created_at",
		"enrollment_number": "enrollment_number",
		"cgpa":              "cgpa",
	}, "created_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	query, args := database.BuildListQuery(database.NewListQueryOptions("student_profiles", queryOpts...))

	var rowsOut []model.StudentProfile
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.StudentProfile])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list student profiles: %w", err)
	}
	res := make([]*model.StudentProfile, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a student profile.
func (r *StudentRepo) Update(ctx context.Context, userID string, req model.UpdateStudentProfileRequest) (*model.StudentProfile, error) {
	var out model.StudentProfile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx,
				`SELECT `+studentColumnsSQL+` FROM student_profiles WHERE user_id = $1`, userID)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StudentProfile])
			return e
		}
		args = append(args, userID)
		query := "UPDATE student_profiles SET " + setClause + ", updated_at = now() WHERE user_id = $" +
			strconv.Itoa(len(args)) + " RETURNING " + studentColumnsSQL
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StudentProfile])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// Delete deletes a student profile by user ID.
func (r *StudentRepo) Delete(ctx context.Context, userID string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM student_profiles WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, mapDeleteErr(err, "student profile")
	}
	return rows > 0, nil
}

// --- helpers ---

func (r *StudentRepo) getByQuery(ctx context.Context, q string, args ...any) (*model.StudentProfile, error) {
	var out model.StudentProfile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StudentProfile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return &out, nil
}

func (r *StudentRepo) buildUpdateClause(req model.UpdateStudentProfileRequest) (string, []any) {
	setParts := make([]string, 0, 14)
	args := make([]any, 0, 15)

	add := func(col string, v any) {
		args = append(args, v)
		setParts = append(setParts, col+" = $"+strconv.Itoa(len(args)))
	}

	if req.Program != nil {
		add("program", *req.Program)
	}
	if req.DateOfBirth != nil {
		add("date_of_birth", *req.DateOfBirth)
	}
	if req.Gender != nil {
		add("gender", string(*req.Gender))
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.City != nil {
		add("city", *req.City)
	}
	if req.PostalCode != nil {
		add("postal_code", *req.PostalCode)
	}
	if req.CGPA != nil {
		add("cgpa", *req.CGPA)
	}
	if req.TenthPct != nil {
		add("tenth_pct", *req.TenthPct)
	}
	if req.TwelfthPct != nil {
		add("twelfth_pct", *req.TwelfthPct)
	}
	if req.ActiveBacklogs != nil {
		add("active_backlogs", *req.ActiveBacklogs)
	}
	if req.JoiningYear != nil {
		add("joining_year", *req.JoiningYear)
	}
	if req.ResumeURL != nil {
		add("resume_url", *req.ResumeURL)
	}
	if req.Placed != nil {
		add("placed", *req.Placed)
	}
	if req.Verified != nil {
		add("verified", *req.Verified)
	}
	if len(setParts) == 0 {
		return "", nil
	}
	return strings.Join(setParts, ", "), args
}

func (r *StudentRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrStudentNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrEnrollmentExists
		case pgerrcode.CheckViolation:
			if pgErr.ConstraintName == "verified_student_has_academics" {
				return ErrStudentNotVerifiable
			}
		case pgerrcode.ForeignKeyViolation:
			return apperrors.Wrap(ErrUserNotFound, apperrors.ErrCodeForeignKey, "user does not exist")
		}
	}
	return err
}
