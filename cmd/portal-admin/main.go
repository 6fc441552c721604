package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirespherex/portal-api/config"
	"github.com/hirespherex/portal-api/internal/bootstrap"
	"github.com/hirespherex/portal-api/internal/data"
	"github.com/hirespherex/portal-api/internal/devseed"
	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/domain/model"
	"github.com/hirespherex/portal-api/internal/service"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultCommandTimeout   = 2 * time.Minute
	sessionKeyPrefix        = "session:"
)

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrationsCmd,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema, run migrations, and optionally seed data",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed development data",
			run:         runDBSeed,
		},
		"user-create": {
			name:        "user-create",
			description: "Create a portal user with the given roles",
			run:         runUserCreate,
		},
		"purge-reset-tokens": {
			name:        "purge-reset-tokens",
			description: "Delete password reset tokens older than the retention window",
			run:         runPurgeResetTokens,
		},
		"close-expired-drives": {
			name:        "close-expired-drives",
			description: "Close open company drives whose application deadline has passed",
			run:         runCloseExpiredDrives,
		},
		"list-sessions": {
			name:        "list-sessions",
			description: "Inspect active sessions stored in Redis",
			run:         runListSessions,
		},
		"clear-sessions": {
			name:        "clear-sessions",
			description: "Delete active sessions from Redis, forcing users to log in again",
			run:         runClearSessions,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: portal-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	for _, c := range commands() {
		if err := writef(os.Stdout, "  %-24s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

type migrateOptions struct {
	Timeout time.Duration
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	AllowRemote bool
}

type dbSeedOptions struct {
	Timeout     time.Duration
	AllowRemote bool
}

type userCreateOptions struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Roles     []domainauth.Role
}

type purgeResetTokensOptions struct {
	OlderThan time.Duration
}

type closeExpiredDrivesOptions struct {
	BatchSize int
}

type clearSessionsOptions struct {
	UserID string
	All    bool
	DryRun bool
	Yes    bool
}

func runMigrationsCmd(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	cmdCtx.Logger.Info("running database migrations")

	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}

	cmdCtx.Logger.Info("migrations completed successfully")
	return nil
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBResetFlags(args)
	if err != nil {
		return err
	}

	target := fmt.Sprintf(
		"database %q on %s:%d",
		cmdCtx.Config.Postgres.Name,
		cmdCtx.Config.Postgres.Host,
		cmdCtx.Config.Postgres.Port,
	)

	remote, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop and recreate the public schema")
	if err != nil {
		return err
	}

	confirmOpts := dbResetConfirmOptions{
		yes:    opts.Yes,
		target: target,
	}
	if remote {
		confirmOpts.remoteHost = cmdCtx.Config.Postgres.Host
	}
	if confirmErr := confirmAction(confirmOpts, "reset database schema"); confirmErr != nil {
		return confirmErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if resetErr := cmdCtx.resetDatabase(ctx, db); resetErr != nil {
			return resetErr
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		if opts.Seed {
			cmdCtx.Logger.Info("seeding development data after reset")
			if seedErr := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); seedErr != nil {
				return fmt.Errorf("seed data: %w", seedErr)
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args)
	if err != nil {
		return err
	}

	if _, guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "seed development data on the configured database"); guardErr != nil {
		return guardErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("seeding development data")
		if seedErr := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); seedErr != nil {
			return fmt.Errorf("seed data: %w", seedErr)
		}

		cmdCtx.Logger.Info("database seeding completed successfully")
		return nil
	})
}

func runUserCreate(cmdCtx *commandContext, args []string) error {
	opts, err := parseUserCreateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		users := service.NewUserService(service.UserServiceOptions{Users: data.NewUserRepo(db)})

		req := &model.CreateUserRequest{
			Email:     opts.Email,
			FirstName: opts.FirstName,
			Password:  opts.Password,
			Roles:     opts.Roles,
		}
		if opts.LastName != "" {
			last := opts.LastName
			req.LastName = &last
		}

		user, createErr := users.Create(ctx, req)
		if createErr != nil {
			return fmt.Errorf("create user: %w", createErr)
		}

		cmdCtx.Logger.Info("created user", "id", user.ID, "email", user.Email, "roles", user.Roles)
		return nil
	})
}

func runPurgeResetTokens(cmdCtx *commandContext, args []string) error {
	opts, err := parsePurgeResetTokenFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		rows, purgeErr := data.NewPasswordResetRepo(db).PurgeExpired(ctx, opts.OlderThan)
		if purgeErr != nil {
			return fmt.Errorf("purge reset tokens: %w", purgeErr)
		}
		cmdCtx.Logger.Info("purged password reset tokens", "rows_deleted", rows, "older_than", opts.OlderThan)
		return nil
	})
}

func runCloseExpiredDrives(cmdCtx *commandContext, args []string) error {
	opts, err := parseCloseExpiredDriveFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewCompanyDriveRepo(db)

		var total int64
		for {
			closed, closeErr := repo.CloseExpired(ctx, opts.BatchSize)
			if closeErr != nil {
				return fmt.Errorf("close expired drives: %w", closeErr)
			}
			total += closed
			if closed == 0 {
				break
			}
		}

		cmdCtx.Logger.Info("closed expired company drives", "drives_closed", total)
		return nil
	})
}

func runListSessions(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	redisClient, err := requireRedis(cmdCtx)
	if err != nil {
		return err
	}
	if redisClient == nil {
		return nil
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	pattern := sessionKeyPrefix + "*"
	cmdCtx.Logger.Info("scanning redis", "pattern", pattern)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if _, err = fmt.Fprintln(w, "SESSION ID\tUSER\tACTIVE ROLE\tSTATE\tTTL"); err != nil {
		return fmt.Errorf("print session header: %w", err)
	}

	total := 0
	iter := redisClient.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		total++
		if printErr := printSessionRow(ctx, w, redisClient, key); printErr != nil {
			return printErr
		}
	}
	if err = iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}

	if err = w.Flush(); err != nil {
		return fmt.Errorf("flush session table: %w", err)
	}
	return writef(os.Stdout, "\nTotal sessions: %d\n", total)
}

func printSessionRow(
	ctx context.Context,
	w *tabwriter.Writer,
	client redis.UniversalClient,
	key string,
) error {
	raw, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("get session %q: %w", key, err)
	}

	ttl, err := client.TTL(ctx, key).Result()
	if err != nil {
		ttl = -1
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(raw), &sess); unmarshalErr != nil {
		_, err = fmt.Fprintf(w, "%s\t<unreadable>\t-\t-\t%s\n", strings.TrimPrefix(key, sessionKeyPrefix), ttl)
		return err
	}

	_, err = fmt.Fprintf(
		w,
		"%s\t%s\t%s\t%s\t%s\n",
		sess.ID,
		sess.Email,
		sess.ActiveRole,
		sess.State,
		ttl,
	)
	return err
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionFlags(args)
	if err != nil {
		return err
	}
	if confirmErr := confirmAction(clearSessionsConfirmOptions{opts}, "clear sessions"); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	redisClient, err := requireRedis(cmdCtx)
	if err != nil {
		return err
	}
	if redisClient == nil {
		return nil
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	deleted, err := deleteSessions(ctx, redisClient, opts)
	if err != nil {
		return err
	}

	if opts.DryRun {
		cmdCtx.Logger.Info("dry run complete", "sessions_matched", deleted)
		return nil
	}
	cmdCtx.Logger.Info("clear sessions complete", "sessions_deleted", deleted)
	return nil
}

func deleteSessions(ctx context.Context, client redis.UniversalClient, opts clearSessionsOptions) (int, error) {
	pattern := sessionKeyPrefix + "*"
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()

	matched := 0
	for iter.Next(ctx) {
		key := iter.Val()

		if opts.UserID != "" {
			keep, err := sessionBelongsTo(ctx, client, key, opts.UserID)
			if err != nil {
				return matched, err
			}
			if !keep {
				continue
			}
		}

		matched++
		if opts.DryRun {
			continue
		}
		if err := client.Del(ctx, key).Err(); err != nil {
			return matched, fmt.Errorf("delete session %q: %w", key, err)
		}
	}
	if err := iter.Err(); err != nil {
		return matched, fmt.Errorf("redis scan: %w", err)
	}
	return matched, nil
}

func sessionBelongsTo(ctx context.Context, client redis.UniversalClient, key, userID string) (bool, error) {
	raw, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("get session %q: %w", key, err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(raw), &sess); unmarshalErr != nil {
		return false, nil
	}
	return sess.UserID == userID, nil
}

// requireRedis connects redis only; prints a notice and returns nil when
// redis is not configured.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func requireRedis(cmdCtx *commandContext) (redis.UniversalClient, error) {
	_, redisClient, err := connectInfraWithOptions(&connectInfraOptions{
		Logger:    cmdCtx.Logger,
		Config:    &cmdCtx.Config,
		WantDB:    false,
		WantRedis: true,
	})
	if err != nil {
		return nil, err
	}
	if redisClient == nil {
		if writeErr := writeln(os.Stderr, "Redis client is not available"); writeErr != nil {
			return nil, fmt.Errorf("print redis availability: %w", writeErr)
		}
	}
	return redisClient, nil
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}

	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseDBResetFlags(args []string) (dbResetOptions, error) {
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dbResetOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for reset operations to complete",
	)
	fs.BoolVar(
		&opts.Yes,
		"yes",
		false,
		"Skip confirmation prompt",
	)
	fs.BoolVar(
		&opts.Seed,
		"seed",
		false,
		"Run database seeding after reset completes",
	)
	fs.BoolVar(
		&opts.AllowRemote,
		"allow-remote",
		false,
		"Permit running against database hosts that do not look local",
	)

	if err := fs.Parse(args); err != nil {
		return dbResetOptions{}, err
	}

	if opts.Timeout <= 0 {
		return dbResetOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseDBSeedFlags(args []string) (dbSeedOptions, error) {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dbSeedOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for seeding to complete",
	)
	fs.BoolVar(
		&opts.AllowRemote,
		"allow-remote",
		false,
		"Permit running against database hosts that do not look local",
	)

	if err := fs.Parse(args); err != nil {
		return dbSeedOptions{}, err
	}

	if opts.Timeout <= 0 {
		return dbSeedOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseUserCreateFlags(args []string) (userCreateOptions, error) {
	fs := flag.NewFlagSet("user-create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts userCreateOptions
	var roles string

	fs.StringVar(&opts.Email, "email", "", "Email address for the new user (required)")
	fs.StringVar(&opts.FirstName, "first-name", "", "First name for the new user (required)")
	fs.StringVar(&opts.LastName, "last-name", "", "Last name for the new user")
	fs.StringVar(&opts.Password, "password", "", "Password for the new user (required)")
	fs.StringVar(&roles, "roles", string(domainauth.RoleStudent),
		"Semicolon-separated roles: admin, student placement cell, student")

	if err := fs.Parse(args); err != nil {
		return userCreateOptions{}, err
	}

	if opts.Email == "" {
		return userCreateOptions{}, errors.New("--email is required")
	}
	if opts.FirstName == "" {
		return userCreateOptions{}, errors.New("--first-name is required")
	}
	if opts.Password == "" {
		return userCreateOptions{}, errors.New("--password is required")
	}

	for _, part := range strings.Split(roles, ";") {
		role := domainauth.Role(part).Normalize()
		if role == "" {
			continue
		}
		if !role.Known() {
			return userCreateOptions{}, fmt.Errorf("unknown role %q", part)
		}
		opts.Roles = append(opts.Roles, role)
	}
	if len(opts.Roles) == 0 {
		return userCreateOptions{}, errors.New("--roles must name at least one role")
	}

	return opts, nil
}

func parsePurgeResetTokenFlags(args []string) (purgeResetTokensOptions, error) {
	fs := flag.NewFlagSet("purge-reset-tokens", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := purgeResetTokensOptions{}
	fs.DurationVar(
		&opts.OlderThan,
		"older-than",
		168*time.Hour,
		"Delete tokens that expired longer ago than this duration",
	)

	if err := fs.Parse(args); err != nil {
		return purgeResetTokensOptions{}, err
	}

	if opts.OlderThan <= 0 {
		return purgeResetTokensOptions{}, errors.New("--older-than must be greater than zero")
	}

	return opts, nil
}

func parseCloseExpiredDriveFlags(args []string) (closeExpiredDrivesOptions, error) {
	fs := flag.NewFlagSet("close-expired-drives", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := closeExpiredDrivesOptions{}
	fs.IntVar(&opts.BatchSize, "batch-size", 500, "Number of drives to close per batch")

	if err := fs.Parse(args); err != nil {
		return closeExpiredDrivesOptions{}, err
	}

	if opts.BatchSize <= 0 {
		return closeExpiredDrivesOptions{}, errors.New("--batch-size must be greater than zero")
	}

	return opts, nil
}

func parseClearSessionFlags(args []string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clearSessionsOptions
	fs.StringVar(&opts.UserID, "user-id", "", "Only clear sessions belonging to this user ID")
	fs.BoolVar(&opts.All, "all", false, "Clear every session")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Report matching sessions without deleting them")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, err
	}

	if opts.UserID == "" && !opts.All {
		return clearSessionsOptions{}, errors.New("pass --user-id or --all")
	}
	if opts.UserID != "" && opts.All {
		return clearSessionsOptions{}, errors.New("--user-id and --all are mutually exclusive")
	}

	return opts, nil
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	return f(ctx, db)
}

func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) (bool, error) {
	remote := isLikelyRemoteHost(cmdCtx.Config.Postgres.Host)
	if !remote {
		return false, nil
	}
	if !allow {
		return true, fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			cmdCtx.Config.Postgres.Host,
		)
	}
	if err := requireRemoteHostConfirmation(action, cmdCtx.Config.Postgres.Host); err != nil {
		return true, err
	}
	return true, nil
}

func (cmdCtx *commandContext) resetDatabase(ctx context.Context, db *sql.DB) error {
	if cmdCtx == nil {
		return errors.New("command context is required")
	}

	cfg := &cmdCtx.Config.Postgres
	statements := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if user := strings.TrimSpace(cfg.User); user != "" && !strings.EqualFold(user, "public") {
		statements = append(statements, "GRANT ALL ON SCHEMA public TO "+quoteIdentifier(user))
	}

	for _, stmt := range statements {
		if cmdCtx.Logger != nil {
			cmdCtx.Logger.DebugContext(ctx, "executing reset statement", "sql", stmt)
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

func requireRemoteHostConfirmation(action, host string) error {
	if err := writef(
		os.Stderr,
		"\nWARNING: database host %q does not look like a local address.\n"+
			"This operation will %s.\n",
		host,
		action,
	); err != nil {
		return fmt.Errorf("print remote host warning: %w", err)
	}
	if err := writef(os.Stderr, "Type %q to continue or press enter to abort: ", host); err != nil {
		return fmt.Errorf("print remote host prompt: %w", err)
	}
	reader := bufio.NewReader(os.Stdin)
	resp, err := reader.ReadString('\n')
	if err != nil {
		if writeErr := writef(os.Stderr, "\nFailed to read confirmation input: %v\n", err); writeErr != nil {
			return fmt.Errorf("aborted by user: report write failed: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	if strings.TrimSpace(resp) != host {
		if writeErr := writeln(os.Stderr, "\nRemote safeguard check failed; aborting."); writeErr != nil {
			return fmt.Errorf("print remote safeguard failure: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	return nil
}

type confirmOptions interface {
	IsDryRun() bool
	IsYes() bool
	GetTarget() string
	GetWarning() string
}

type dbResetConfirmOptions struct {
	yes        bool
	target     string
	remoteHost string
}

func (d dbResetConfirmOptions) IsDryRun() bool { return false }
func (d dbResetConfirmOptions) IsYes() bool {
	if d.remoteHost != "" {
		return false
	}
	return d.yes
}

func (d dbResetConfirmOptions) GetWarning() string {
	warning := "WARNING: this will drop and recreate the public schema for the configured database."
	if d.remoteHost != "" {
		warning += fmt.Sprintf(" Host %q appears to be remote; double-check before proceeding.", d.remoteHost)
	}
	return warning
}
func (d dbResetConfirmOptions) GetTarget() string { return d.target }

type clearSessionsConfirmOptions struct {
	opts clearSessionsOptions
}

func (c clearSessionsConfirmOptions) IsDryRun() bool { return c.opts.DryRun }
func (c clearSessionsConfirmOptions) IsYes() bool    { return c.opts.Yes }
func (c clearSessionsConfirmOptions) GetWarning() string {
	return "WARNING: this will log out every affected user by deleting their sessions."
}

func (c clearSessionsConfirmOptions) GetTarget() string {
	if c.opts.UserID != "" {
		return fmt.Sprintf("user %q", c.opts.UserID)
	}
	return "all sessions"
}

func confirmAction(opts confirmOptions, actionType string) error {
	if opts.IsDryRun() || opts.IsYes() {
		return nil
	}

	if err := printConfirmationIntro(opts, actionType); err != nil {
		return err
	}

	if err := write(os.Stdout, "Continue? [y/N]: "); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	reader := bufio.NewReader(os.Stdin)
	resp, err := reader.ReadString('\n')
	if err != nil {
		if writeErr := writef(os.Stdout, "\nFailed to read confirmation input: %v\n", err); writeErr != nil {
			return fmt.Errorf("aborted by user: report write failed: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

func printConfirmationIntro(opts confirmOptions, actionType string) error {
	target := opts.GetTarget()
	if target == "" {
		if err := writeln(os.Stdout, opts.GetWarning()); err != nil {
			return fmt.Errorf("print confirmation warning: %w", err)
		}
		return nil
	}

	if err := writef(os.Stdout, "About to %s for %s.\n", actionType, target); err != nil {
		return fmt.Errorf("print confirmation message: %w", err)
	}
	return nil
}
