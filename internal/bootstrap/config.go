package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/hirespherex/portal-api/config"
)

// InitLogger sets up the process-wide structured logger. The level can be
// tuned through LOG_LEVEL; everything else is fixed JSON on stdout.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevelFromEnv(),
	}))
	slog.SetDefault(logger)
	return logger
}

func logLevelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig assembles the application config from the environment, reading a
// .env file first when one is present.
func LoadConfig() (config.AppConfig, error) {
	var cfg config.AppConfig

	if err := loadDotenv(); err != nil {
		return cfg, err
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// loadDotenv reads .env if it exists. A missing file is normal outside
// development and is not an error.
func loadDotenv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return nil
	}
	return fmt.Errorf("load .env file: %w", err)
}

// ValidateServiceConfig rejects configurations that would start nothing.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}

	services, err := cfg.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}
	if len(services) == 0 {
		return errors.New("no services enabled")
	}
	return nil
}

var serviceModeNames = map[config.ServiceMode]string{
	config.ServiceModeHTTP:        "http",
	config.ServiceModeMaintenance: "maintenance",
}

// GetEnabledServices lists the enabled service names in stable order, for
// startup logging. Invalid configurations yield an empty list; validation
// reports them separately.
func GetEnabledServices(cfg *config.AppConfig) []string {
	names := []string{}
	if cfg == nil {
		return names
	}

	services, err := cfg.GetEnabledServices()
	if err != nil {
		return names
	}
	for mode := range services {
		if name, ok := serviceModeNames[mode]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
