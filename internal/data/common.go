package data

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/hirespherex/portal-api/internal/errors"
)

const (
	orderAsc  = "ASC"
	orderDesc = "DESC"

	defaultListLimit = 50
)

// sortColumnAndDir validates a requested sort column against the allowed set
// and normalizes the direction, falling back to the given defaults. Keeps
// user input out of ORDER BY clauses.
func sortColumnAndDir(sort, dir string, allowed map[string]string, defCol string) (string, string) {
	col := defCol
	direction := orderDesc

	if sort != "" {
		if valid, ok := allowed[strings.ToLower(strings.TrimSpace(sort))]; ok {
			col = valid
		}
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		direction = orderAsc
	case "desc":
		direction = orderDesc
	}
	return col, direction
}

// clampPage normalizes limit/offset for list queries.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// mapDeleteErr classifies a failed DELETE. A foreign key violation means the
// row is still referenced, which callers surface as a conflict rather than a
// server error.
func mapDeleteErr(err error, entity string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return apperrors.ForeignKeyf("%s is still referenced by other records", entity)
	}
	return fmt.Errorf("failed to delete %s: %w", entity, err)
}
