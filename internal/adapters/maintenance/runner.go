// Package maintenance provides adapters for running the maintenance worker.
package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hirespherex/portal-api/config"
	"github.com/hirespherex/portal-api/internal/data"
	"github.com/hirespherex/portal-api/internal/observability/notify"
	"github.com/hirespherex/portal-api/internal/observability/statsd"
	"github.com/hirespherex/portal-api/internal/service"
)

// Runner provides a simple adapter to run the maintenance loop.
// It constructs the maintenance service and runs the housekeeping loop.
type Runner struct {
	svc    *service.MaintenanceService
	logger *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.MaintenanceConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	Tokens   service.ResetTokenPurger
	Drives   service.DriveDeadlineEnforcer
	Metrics  statsd.Sink
	Notifier notify.Sink
}

// NewRunner creates a new maintenance runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	svc, err := wireMaintenanceService(opts)
	if err != nil {
		return nil, fmt.Errorf("wire maintenance service: %w", err)
	}

	return &Runner{
		svc:    svc,
		logger: opts.Logger,
	}, nil
}

func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.DB == nil && (opts.Tokens == nil || opts.Drives == nil) {
		return errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

func wireMaintenanceService(opts RunnerOptions) (*service.MaintenanceService, error) {
	tokens := opts.Tokens
	if tokens == nil {
		tokens = data.NewPasswordResetRepo(opts.DB)
	}

	drives := opts.Drives
	if drives == nil {
		drives = data.NewCompanyDriveRepo(opts.DB)
	}

	return service.NewMaintenanceService(service.MaintenanceServiceOptions{
		Tokens:   tokens,
		Drives:   drives,
		Config:   opts.Config,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
		Notifier: opts.Notifier,
	})
}

// Run starts the maintenance loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting maintenance runner")
	return r.svc.Run(ctx)
}

// RunOnce performs a single maintenance cycle and returns.
func (r *Runner) RunOnce(ctx context.Context) error {
	return r.svc.RunOnce(ctx)
}
