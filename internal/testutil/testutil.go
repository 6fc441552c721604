// Package testutil provides shared helpers for integration tests: a
// Postgres harness that migrates the real schema, a Redis harness that
// reserves a database index per test package, and small value helpers.
//
// Tests skip when the backing service is unreachable unless
// TEST_REQUIRE_DB / TEST_REQUIRE_REDIS / TEST_REQUIRE_INFRA is set, which
// turns the skip into a failure for CI.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/hirespherex/portal-api/internal/migrate"
)

// TestingTB covers the subset of testing.T and testing.B the helpers need.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

// TestDBConfig points the harness at a Postgres instance. Defaults target
// the docker-compose test profile on port 55432; CI overrides via env.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig reads TEST_DB_* env vars with local defaults.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "55432"),
		User:     envOr("TEST_DB_USER", "portal"),
		Password: envOr("TEST_DB_PASSWORD", "portal"),
		DBName:   envOr("TEST_DB_NAME", "portal"),
	}
}

func (c TestDBConfig) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		c.User, c.Password, net.JoinHostPort(c.Host, c.Port), c.DBName)
}

// SkipIfNoTestDB skips (or fails, when the DB is required) unless the test
// database answers a ping.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()

	db, err := sql.Open("pgx", DefaultTestDBConfig().dsn())
	if err != nil {
		skipOrFatal(t, requireDB(), "test database not available:", err)
		return
	}
	defer closeQuietly(t, "test db", db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if pingErr := db.PingContext(ctx); pingErr != nil {
		skipOrFatal(t, requireDB(), "test database not available:", pingErr)
	}
}

// SetupTestDB opens the test database, applies the production migrations,
// and clears all portal tables so the test starts from an empty schema.
func SetupTestDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	db, err := sql.Open("pgx", DefaultTestDBConfig().dsn())
	if err != nil {
		t.Fatal("failed to open test database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if pingErr := db.PingContext(ctx); pingErr != nil {
		t.Fatal("failed to connect to test database:", pingErr)
	}
	if migrateErr := migrate.Run(ctx, db); migrateErr != nil {
		t.Fatal("failed to run migrations:", migrateErr)
	}

	CleanupTestDB(t, db)
	return db
}

// portalTables lists every portal table in reverse dependency order so a
// straight DELETE pass never trips a foreign key.
var portalTables = []string{
	"applications",
	"jobs",
	"company_drives",
	"placement_drives",
	"student_profiles",
	"password_reset_tokens",
	"user_roles",
	"users",
	"companies",
}

// CleanupTestDB deletes every row from the portal tables.
func CleanupTestDB(t TestingTB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, table := range portalTables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("failed to clean table %s: %v", table, err)
		}
	}
}

// TeardownTestDB clears the portal tables and closes the connection.
func TeardownTestDB(t TestingTB, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}
	CleanupTestDB(t, db)
	if err := db.Close(); err != nil {
		t.Fatal("failed to close test database:", err)
	}
}

// WithTestDB runs fn against a migrated, empty test database.
func WithTestDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)
	fn(db)
}

// SetupTestRedis connects to the test Redis, reserving a DB index so
// packages running in parallel do not flush each other's data. Skips when
// Redis is unreachable unless the env requires it.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr, ok := findTestRedis(t)
	if !ok {
		skipOrFatal(t, requireRedis(), "redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   reserveRedisDB(t, addr),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		closeQuietly(t, "redis client", client)
		skipOrFatal(t, requireRedis(), fmt.Sprintf("redis not available at %s: %v", addr, err))
	}

	client.FlushDB(ctx)
	return client
}

// findTestRedis probes REDIS_ADDR, the usual CI hostnames, and finally the
// docker-compose test port.
func findTestRedis(t TestingTB) (string, bool) {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr, pingRedis(t, addr)
	}
	for _, addr := range []string{"redis:6379", "localhost:6379"} {
		if pingRedis(t, addr) {
			return addr, true
		}
	}
	localAddr := "localhost:56379"
	return localAddr, pingRedis(t, localAddr)
}

func pingRedis(t TestingTB, addr string) bool {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer closeQuietly(t, "redis probe", client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Logf("redis not reachable at %s: %v", addr, err)
		return false
	}
	return true
}

// reserveRedisDB picks a DB index in [1..15] by taking a SETNX lock in DB 0,
// which FlushDB on the reserved index cannot wipe. TEST_REDIS_DB overrides.
func reserveRedisDB(t TestingTB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	defer closeQuietly(t, "redis meta client", meta)

	for i := 1; i <= 15; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lockKey := fmt.Sprintf("portal:testutil:db_lock:%d", i)
		lockVal := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
		ok, err := meta.SetNX(ctx, lockKey, lockVal, 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		releaseRedisDBOnCleanup(t, addr, lockKey)
		t.Logf("reserved redis DB=%d at %s", i, addr)
		return i
	}

	t.Logf("no free redis DB lock at %s, defaulting to DB=1", addr)
	return 1
}

func releaseRedisDBOnCleanup(t TestingTB, addr, lockKey string) {
	tc, ok := any(t).(interface{ Cleanup(func()) })
	if !ok {
		return
	}
	tc.Cleanup(func() {
		c := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.Del(ctx, lockKey).Err(); err != nil {
			t.Logf("warning: failed to release redis db lock %s: %v", lockKey, err)
		}
		closeQuietly(t, "redis cleanup client", c)
	})
}

func skipOrFatal(t TestingTB, required bool, args ...interface{}) {
	t.Helper()
	if required {
		t.Fatal(args...)
	}
	t.Skip(args...)
}

func closeQuietly(t TestingTB, name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		t.Logf("warning: failed to close %s: %v", name, err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// TestTime is the fixed instant used across unit tests.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// FixedTimeFunc returns a clock function pinned to t.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// IntPtr returns a pointer to i.
func IntPtr(i int) *int { return &i }

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 { return &f }

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time { return &t }
