package config

// DBConfig holds PostgreSQL connection settings (DB_ prefix).
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"hirespherex"`
	Password string `env:"PASSWORD" envDefault:"hirespherex"`
	Name     string `env:"NAME"     envDefault:"hirespherex"`
	// SSLMode should be 'require' anywhere outside local development.
	SSLMode string `env:"SSL_MODE" envDefault:"disable"`
	// RunMigrationsOnStart applies pending migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig holds Redis connection settings (REDIS_ prefix). Sessions and
// pending logins live in Redis so every API replica sees the same state.
// Standalone is the default; sentinel and cluster topologies are opt-in.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`

	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`

	UseCluster   bool     `env:"USE_CLUSTER"   envDefault:"false"`
	ClusterNodes []string `env:"CLUSTER_NODES" envDefault:""`
}
