// Package database assembles parameterized list queries from typed options.
// Identifiers are quoted with pgx.Identifier and values always travel as
// placeholders, so callers can splice user-supplied filters without building
// SQL by hand.
package database

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is a SQL comparison operator.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	GreaterThanOrEqual ConditionType = ">="
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	Like               ConditionType = "LIKE"
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"
)

// unset marks Limit/Offset as "not requested"; zero is a legal value for both.
const unset = -1

// Condition is one WHERE predicate.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

// WhereCond builds a predicate comparing a column against a value.
func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// ListQueryOptions collects everything BuildListQuery needs.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions applies opts over defaults for the given table.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  unset,
		Offset: unset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns selects specific columns instead of *.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition appends one predicate; predicates combine with AND.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy sets the sort column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets LIMIT; zero is accepted, negative values are ignored.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets OFFSET; zero is accepted, negative values are ignored.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// BuildListQuery renders the options into a SELECT statement plus its
// positional arguments.
//
//	opts := NewListQueryOptions("student_profiles",
//		WithColumns("user_id", "enrollment_number"),
//		WithCondition(WhereCond("verified", Equal, true)),
//		WithOrderBy("created_at", "DESC"),
//		WithLimit(25),
//	)
//	query, args := BuildListQuery(opts)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString("SELECT ")
	query.WriteString(columnList(options.Columns))
	query.WriteString(" FROM ")
	query.WriteString(quoteIdent(options.Table))

	where, args := whereClause(options.Conditions)
	query.WriteString(where)

	if options.OrderBy != "" {
		query.WriteString(" ORDER BY ")
		query.WriteString(quoteIdent(options.OrderBy))
		if dir := strings.ToUpper(options.OrderDir); dir == "ASC" || dir == "DESC" {
			query.WriteString(" ")
			query.WriteString(dir)
		}
	}

	if options.Limit != unset {
		query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)+1))
		args = append(args, options.Limit)
	}
	if options.Offset != unset {
		query.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)+1))
		args = append(args, options.Offset)
	}

	return query.String(), args
}

func columnList(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
	}
	return strings.Join(quoted, ", ")
}

// quoteIdent quotes an identifier, splitting on '.' so qualified names like
// "students.user_id" quote each part separately.
func quoteIdent(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

func whereClause(conditions []Condition) (string, []any) {
	preds := make([]string, 0, len(conditions))
	var args []any

	for _, cond := range conditions {
		if cond.Field == "" {
			continue
		}
		field := quoteIdent(cond.Field)

		if cond.Type == In {
			pred, inArgs := inPredicate(field, cond.Value, len(args)+1)
			if pred == "" {
				continue
			}
			preds = append(preds, pred)
			args = append(args, inArgs...)
			continue
		}

		preds = append(preds, fmt.Sprintf("%s %s $%d", field, cond.Type, len(args)+1))
		args = append(args, cond.Value)
	}

	if len(preds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(preds, " AND "), args
}

// inPredicate expands a slice value into "field IN ($n, $n+1, ...)". Empty or
// non-slice values yield no predicate rather than invalid SQL.
func inPredicate(field string, value any, firstParam int) (string, []any) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return "", nil
	}

	placeholders := make([]string, rv.Len())
	args := make([]any, rv.Len())
	for i := range rv.Len() {
		placeholders[i] = fmt.Sprintf("$%d", firstParam+i)
		args[i] = rv.Index(i).Interface()
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(placeholders, ", ")), args
}
