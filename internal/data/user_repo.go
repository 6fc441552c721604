package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hirespherex/portal-api/internal/adapters/credauth"
	"github.com/hirespherex/portal-api/internal/data/database"
	"github.com/hirespherex/portal-api/internal/data/pgxutil"
	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = apperrors.NotFound("user not found")
	// ErrUserEmailExists is returned when a create/update collides on email.
	ErrUserEmailExists = apperrors.Conflict("user email already exists")
)

// userRow is the users-table projection without the roles join.
type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	FirstName    string    `db:"first_name"`
	MiddleName   *string   `db:"middle_name"`
	LastName     *string   `db:"last_name"`
	PhoneNumber  *string   `db:"phone_number"`
	PasswordHash string    `db:"password_hash"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UserRepo provides database operations for users and their role grants.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumnsSQL = `id, email, first_name, middle_name, last_name, phone_number, password_hash, active, created_at, updated_at`

// Create inserts a user and its role grants in one transaction. The caller
// supplies the password hash; plaintext never reaches this layer.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest, passwordHash string) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}

	var out model.User
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			INSERT INTO users (email, first_name, middle_name, last_name, phone_number, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			RETURNING `+userColumnsSQL,
			req.Email, req.FirstName, req.MiddleName, req.LastName, req.PhoneNumber, passwordHash,
		)
		if err != nil {
			return err
		}
		row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
		if err != nil {
			return err
		}
		out = row.toUser(req.Roles)
		return insertRoles(ctx, tx, out.ID, req.Roles)
	})
	if err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a user with its roles.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx, `SELECT `+userColumnsSQL+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user with its roles by email (stored lowercase).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByQuery(ctx,
		`SELECT `+userColumnsSQL+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
}

// FindCredentialsByEmail implements credauth.UserSource.
func (r *UserRepo) FindCredentialsByEmail(ctx context.Context, email string) (credauth.UserRecord, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return credauth.UserRecord{}, credauth.ErrNoUser
		}
		return credauth.UserRecord{}, err
	}
	rec := credauth.UserRecord{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		PasswordHash: user.PasswordHash,
		Roles:        user.Roles,
		Active:       user.Active,
	}
	if user.MiddleName != nil {
		rec.MiddleName = *user.MiddleName
	}
	if user.LastName != nil {
		rec.LastName = *user.LastName
	}
	if user.PhoneNumber != nil {
		rec.PhoneNumber = *user.PhoneNumber
	}
	return rec, nil
}

// ListWithOptions retrieves users with optional filters and sorting. Role
// grants are loaded in a second query to keep the listing flat.
func (r *UserRepo) ListWithOptions(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns("id", "email", "first_name", "middle_name", "last_name",
			"phone_number", "password_hash", "active", "created_at", "updated_at"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("email", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Active != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("active", database.Equal, *opts.Active),
		))
	}
	sortCol, sortDir := sortColumnAndDir(opts.Sort, opts.Dir, map[string]string{
		"created_at": "created_at",
		"email":      "email",
	}, "created_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	query, args := database.BuildListQuery(database.NewListQueryOptions("users", queryOpts...))

	var rowsOut []userRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[userRow])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*model.User, len(rowsOut))
	ids := make([]string, len(rowsOut))
	for i := range rowsOut {
		u := rowsOut[i].toUser(nil)
		users[i] = &u
		ids[i] = u.ID
	}
	roleMap, err := r.rolesForUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Roles = roleMap[u.ID]
	}
	if opts.Role != nil {
		filtered := users[:0]
		for _, u := range users {
			if domainauth.ContainsRole(u.Roles, *opts.Role) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	return users, nil
}

// Update updates user fields and, when Roles is set, replaces the grant set.
func (r *UserRepo) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	var row userRow
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		setClause, args := r.buildUpdateClause(req)
		var rows pgx.Rows
		var err error
		if setClause == "" {
			rows, err = tx.Query(ctx, `SELECT `+userColumnsSQL+` FROM users WHERE id = $1`, id)
		} else {
			args = append(args, id)
			query := "UPDATE users SET " + setClause + ", updated_at = now() WHERE id = $" +
				strconv.Itoa(len(args)) + " RETURNING " + userColumnsSQL
			rows, err = tx.Query(ctx, query, args...)
		}
		if err != nil {
			return err
		}
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
		if err != nil {
			return err
		}
		if req.Roles != nil {
			if _, err = tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
				return err
			}
			return insertRoles(ctx, tx, id, *req.Roles)
		}
		return nil
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}

	roles, err := r.rolesForUser(ctx, id)
	if err != nil {
		return nil, err
	}
	out := row.toUser(roles)
	return &out, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
			passwordHash, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete deletes a user by ID. Role grants cascade.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, mapDeleteErr(err, "user")
	}
	return rows > 0, nil
}

// --- helpers ---

func (row userRow) toUser(roles []domainauth.Role) model.User {
	return model.User{
		ID:           row.ID,
		Email:        row.Email,
		FirstName:    row.FirstName,
		MiddleName:   row.MiddleName,
		LastName:     row.LastName,
		PhoneNumber:  row.PhoneNumber,
		PasswordHash: row.PasswordHash,
		Roles:        roles,
		Active:       row.Active,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func insertRoles(ctx context.Context, tx pgx.Tx, userID string, roles []domainauth.Role) error {
	for _, role := range domainauth.NormalizeRoles(roles) {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, string(role)); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepo) getByQuery(ctx context.Context, q string, args ...any) (*model.User, error) {
	var row userRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	roles, err := r.rolesForUser(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	out := row.toUser(roles)
	return &out, nil
}

// RolesForUser returns the granted role set for a user. Used by session
// refresh paths that need current roles without loading the full user.
func (r *UserRepo) RolesForUser(ctx context.Context, userID string) ([]domainauth.Role, error) {
	return r.rolesForUser(ctx, userID)
}

func (r *UserRepo) rolesForUser(ctx context.Context, id string) ([]domainauth.Role, error) {
	roleMap, err := r.rolesForUsers(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return roleMap[id], nil
}

func (r *UserRepo) rolesForUsers(ctx context.Context, ids []string) (map[string][]domainauth.Role, error) {
	out := make(map[string][]domainauth.Role, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT user_id, role FROM user_roles WHERE user_id = ANY($1) ORDER BY role`, ids)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var userID, role string
			if scanErr := rows.Scan(&userID, &role); scanErr != nil {
				return scanErr
			}
			out[userID] = append(out[userID], domainauth.Role(role))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}
	return out, nil
}

func (r *UserRepo) buildUpdateClause(req model.UpdateUserRequest) (string, []any) {
	setParts := make([]string, 0, 6)
	args := make([]any, 0, 7)
	nextIdx := func() int { return len(args) + 1 }

	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, *req.Email)
	}
	if req.FirstName != nil {
		setParts = append(setParts, fmt.Sprintf("first_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.FirstName))
	}
	if req.MiddleName != nil {
		setParts = append(setParts, fmt.Sprintf("middle_name = $%d", nextIdx()))
		args = append(args, *req.MiddleName)
	}
	if req.LastName != nil {
		setParts = append(setParts, fmt.Sprintf("last_name = $%d", nextIdx()))
		args = append(args, *req.LastName)
	}
	if req.PhoneNumber != nil {
		setParts = append(setParts, fmt.Sprintf("phone_number = $%d", nextIdx()))
		args = append(args, *req.PhoneNumber)
	}
	if req.Active != nil {
		setParts = append(setParts, fmt.Sprintf("active = $%d", nextIdx()))
		args = append(args, *req.Active)
	}
	if len(setParts) == 0 {
		return "", nil
	}
	return strings.Join(setParts, ", "), args
}

func (r *UserRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrUserEmailExists
	}
	return err
}
