package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hirespherex/portal-api/config"
	"github.com/hirespherex/portal-api/internal/adapters/maintenance"
	"github.com/hirespherex/portal-api/internal/observability/notify"
	"github.com/hirespherex/portal-api/internal/observability/statsd"
)

// MaintenanceConfig contains configuration for the maintenance worker.
type MaintenanceConfig struct {
	DB       *sql.DB
	Logger   *slog.Logger
	Config   config.MaintenanceConfig
	Metrics  statsd.Sink
	Notifier notify.Sink
}

// RunMaintenance starts the maintenance worker.
func RunMaintenance(ctx context.Context, cfg MaintenanceConfig) error {
	runner, err := maintenance.NewRunner(maintenance.RunnerOptions{
		DB:       cfg.DB,
		Config:   cfg.Config,
		Logger:   cfg.Logger,
		Metrics:  cfg.Metrics,
		Notifier: cfg.Notifier,
	})
	if err != nil {
		return fmt.Errorf("create maintenance runner: %w", err)
	}

	return runner.Run(ctx)
}

// RunMaintenanceOnce performs a single maintenance cycle and returns. Used by
// the admin CLI so operators can trigger housekeeping out of band.
func RunMaintenanceOnce(ctx context.Context, cfg MaintenanceConfig) error {
	runner, err := maintenance.NewRunner(maintenance.RunnerOptions{
		DB:       cfg.DB,
		Config:   cfg.Config,
		Logger:   cfg.Logger,
		Metrics:  cfg.Metrics,
		Notifier: cfg.Notifier,
	})
	if err != nil {
		return fmt.Errorf("create maintenance runner: %w", err)
	}

	return runner.RunOnce(ctx)
}
