package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register the pgx database/sql driver
	"github.com/redis/go-redis/v9"

	"github.com/hirespherex/portal-api/config"
	"github.com/hirespherex/portal-api/internal/migrate"
)

const (
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 5 * time.Minute
	connectTimeout    = 5 * time.Second
)

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectDB opens a pooled PostgreSQL connection and verifies it with a ping.
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", postgresDSN(cfg.DBConfig))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("database connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
		)
	}
	return db, nil
}

// postgresDSN builds the connection string through url.URL so credentials
// with special characters survive intact.
func postgresDSN(cfg config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// RunMigrations applies pending database migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed")
	}
	return nil
}

// ConnectRedis builds a direct, sentinel, or cluster client depending on the
// configuration and verifies it with a ping.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(cfg DatabaseConfig) (redis.UniversalClient, error) {
	target, err := buildRedisClient(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if pingErr := target.client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := target.client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("redis connected", "addr", redactAddr(target.desc))
	}
	return target.client, nil
}

type redisTarget struct {
	client redis.UniversalClient
	desc   string
}

func buildRedisClient(cfg config.RedisConfig) (redisTarget, error) {
	switch {
	case cfg.UseCluster:
		return clusterClient(cfg)
	case cfg.UseSentinel:
		return sentinelClient(cfg)
	default:
		return standaloneClient(cfg)
	}
}

func standaloneClient(cfg config.RedisConfig) (redisTarget, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return redisTarget{}, errors.New("redis configuration requires a URI")
	}
	if isRedisURL(uri) {
		opt, err := redis.ParseURL(uri)
		if err != nil {
			return redisTarget{}, fmt.Errorf("parse redis url: %w", err)
		}
		return redisTarget{client: redis.NewClient(opt), desc: opt.Addr}, nil
	}
	return redisTarget{
		client: redis.NewClient(&redis.Options{Addr: uri, Password: cfg.Password}),
		desc:   uri,
	}, nil
}

func sentinelClient(cfg config.RedisConfig) (redisTarget, error) {
	if len(cfg.SentinelNodes) == 0 {
		return redisTarget{}, errors.New("redis sentinel configuration requires at least one sentinel node")
	}
	client := redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:       cfg.SentinelMasterName,
		SentinelAddrs:    cfg.SentinelNodes,
		Password:         cfg.Password,
		SentinelPassword: cfg.SentinelPassword,
	})
	return redisTarget{client: client, desc: "sentinel:" + cfg.SentinelMasterName}, nil
}

func clusterClient(cfg config.RedisConfig) (redisTarget, error) {
	opts := &redis.ClusterOptions{
		Addrs:    trimAddrs(cfg.ClusterNodes),
		Password: cfg.Password,
	}

	// With no explicit node list, fall back to the URI as a seed node.
	if len(opts.Addrs) == 0 {
		if err := clusterSeedFromURI(cfg.URI, opts); err != nil {
			return redisTarget{}, err
		}
	}
	if len(opts.Addrs) == 0 {
		return redisTarget{}, errors.New("redis cluster configuration requires at least one address")
	}

	return redisTarget{
		client: redis.NewClusterClient(opts),
		desc:   "cluster:" + strings.Join(opts.Addrs, ","),
	}, nil
}

func clusterSeedFromURI(uri string, opts *redis.ClusterOptions) error {
	trimmed := strings.TrimSpace(uri)
	if trimmed == "" {
		return nil
	}
	if !isRedisURL(trimmed) {
		opts.Addrs = []string{trimmed}
		return nil
	}

	parsed, err := redis.ParseURL(trimmed)
	if err != nil {
		return fmt.Errorf("parse redis cluster url: %w", err)
	}
	opts.Addrs = []string{parsed.Addr}
	opts.Username = parsed.Username
	opts.TLSConfig = parsed.TLSConfig
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	return nil
}

func trimAddrs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}

// redactAddr strips credentials from a connection description before logging.
func redactAddr(desc string) string {
	if u, err := url.Parse(desc); err == nil && u.User != nil {
		u.User = url.User("*")
		return u.Redacted()
	}
	if i := strings.LastIndex(desc, "@"); i > -1 {
		return desc[i+1:]
	}
	return desc
}
