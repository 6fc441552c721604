package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQueryDefaults(t *testing.T) {
	t.Parallel()

	query, args := BuildListQuery(NewListQueryOptions("companies"))
	assert.Equal(t, `SELECT * FROM "companies"`, query)
	assert.Empty(t, args)
}

func TestBuildListQueryNilOptions(t *testing.T) {
	t.Parallel()

	query, args := BuildListQuery(nil)
	assert.Empty(t, query)
	assert.Nil(t, args)
}

func TestBuildListQueryColumnsAndConditions(t *testing.T) {
	t.Parallel()

	opts := NewListQueryOptions("student_profiles",
		WithColumns("user_id", "enrollment_number"),
		WithCondition(WhereCond("verified", Equal, true)),
		WithCondition(WhereCond("enrollment_number", ILike, "%ENR%")),
		WithOrderBy("created_at", "desc"),
		WithLimit(25),
		WithOffset(50),
	)

	query, args := BuildListQuery(opts)
	want := `SELECT "user_id", "enrollment_number" FROM "student_profiles"` +
		` WHERE "verified" = $1 AND "enrollment_number" ILIKE $2` +
		` ORDER BY "created_at" DESC LIMIT $3 OFFSET $4`
	assert.Equal(t, want, query)
	assert.Equal(t, []any{true, "%ENR%", 25, 50}, args)
}

func TestBuildListQueryZeroLimitAndOffset(t *testing.T) {
	t.Parallel()

	query, args := BuildListQuery(NewListQueryOptions("jobs",
		WithLimit(0),
		WithOffset(0),
	))
	assert.Equal(t, `SELECT * FROM "jobs" LIMIT $1 OFFSET $2`, query)
	assert.Equal(t, []any{0, 0}, args)
}

func TestBuildListQueryNegativeLimitIgnored(t *testing.T) {
	t.Parallel()

	query, args := BuildListQuery(NewListQueryOptions("jobs",
		WithLimit(-5),
		WithOffset(-5),
	))
	assert.Equal(t, `SELECT * FROM "jobs"`, query)
	assert.Empty(t, args)
}

func TestBuildListQueryInCondition(t *testing.T) {
	t.Parallel()

	opts := NewListQueryOptions("applications",
		WithCondition(WhereCond("status", In, []string{"applied", "shortlisted"})),
		WithCondition(WhereCond("company_drive_id", Equal, "cd-1")),
	)

	query, args := BuildListQuery(opts)
	want := `SELECT * FROM "applications"` +
		` WHERE "status" IN ($1, $2) AND "company_drive_id" = $3`
	assert.Equal(t, want, query)
	assert.Equal(t, []any{"applied", "shortlisted", "cd-1"}, args)
}

func TestBuildListQueryEmptyInConditionSkipped(t *testing.T) {
	t.Parallel()

	query, args := BuildListQuery(NewListQueryOptions("applications",
		WithCondition(WhereCond("status", In, []string{})),
	))
	assert.Equal(t, `SELECT * FROM "applications"`, query)
	assert.Empty(t, args)
}

func TestBuildListQueryQuotesHostileIdentifiers(t *testing.T) {
	t.Parallel()

	opts := NewListQueryOptions("users",
		WithCondition(WhereCond(`email"; DROP TABLE users; --`, Equal, "x")),
	)

	query, _ := BuildListQuery(opts)
	// Embedded quotes are doubled inside the quoted identifier, so injected
	// text cannot terminate it.
	assert.Contains(t, query, `"email""; DROP TABLE users; --"`)
}

func TestBuildListQueryQualifiedIdentifiers(t *testing.T) {
	t.Parallel()

	query, _ := BuildListQuery(NewListQueryOptions("jobs",
		WithColumns("jobs.id", "jobs.title"),
		WithOrderBy("jobs.created_at", "ASC"),
	))
	assert.Equal(t,
		`SELECT "jobs"."id", "jobs"."title" FROM "jobs" ORDER BY "jobs"."created_at" ASC`,
		query)
}

func TestBuildListQueryInvalidOrderDirDropped(t *testing.T) {
	t.Parallel()

	query, _ := BuildListQuery(NewListQueryOptions("jobs",
		WithOrderBy("created_at", "sideways"),
	))
	require.Equal(t, `SELECT * FROM "jobs" ORDER BY "created_at"`, query)
}
