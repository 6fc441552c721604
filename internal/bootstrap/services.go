package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirespherex/portal-api/config"
	"github.com/hirespherex/portal-api/internal/data"
	"github.com/hirespherex/portal-api/internal/observability/notify"
	"github.com/hirespherex/portal-api/internal/observability/notify/pagerduty"
	"github.com/hirespherex/portal-api/internal/observability/notify/slack"
	"github.com/hirespherex/portal-api/internal/observability/statsd"
	"github.com/hirespherex/portal-api/internal/service"
)

// shutdownWaitTimeout caps how long graceful shutdown waits for each part.
const shutdownWaitTimeout = 15 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Resets        *service.PasswordResetService
	Users         *service.UserService
	Companies     *service.CompanyService
	Placements    *service.PlacementService
	Jobs          *service.JobService
	Students      *service.StudentService
	Applications  *service.ApplicationService
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink    *statsd.Client
	MetricsConfig  config.ObservabilityMetricsConfig
	Notifier       notify.Sink
	NotifierConfig config.ObservabilityNotificationsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB                 *sql.DB
	Redis              redis.UniversalClient
	UserRepo           *data.UserRepo
	CompanyRepo        *data.CompanyRepo
	PlacementDriveRepo *data.PlacementDriveRepo
	CompanyDriveRepo   *data.CompanyDriveRepo
	JobRepo            *data.JobRepo
	StudentRepo        *data.StudentRepo
	ApplicationRepo    *data.ApplicationRepo
	ResetTokenRepo     *data.PasswordResetRepo
}

// NewServices creates all application services from shared dependencies.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var obsCfg config.ObservabilityConfig
	var authCfg config.AuthConfig
	if deps.Config != nil {
		obsCfg = deps.Config.Observability
		authCfg = deps.Config.Auth
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)

	auth := BuildAuthService(AuthConfig{
		Auth:        authCfg,
		DB:          repos.DB,
		RedisClient: repos.Redis,
		Logger:      logger,
	})

	resets := service.NewPasswordResetService(service.PasswordResetServiceOptions{
		Users:    repos.UserRepo,
		Tokens:   repos.ResetTokenRepo,
		TokenTTL: authCfg.ResetTokenTTL,
	})

	return ServiceContainer{
		Auth:      auth,
		Resets:    resets,
		Users:     service.NewUserService(service.UserServiceOptions{Users: repos.UserRepo}),
		Companies: service.NewCompanyService(service.CompanyServiceOptions{Companies: repos.CompanyRepo}),
		Placements: service.NewPlacementService(service.PlacementServiceOptions{
			Drives:        repos.PlacementDriveRepo,
			CompanyDrives: repos.CompanyDriveRepo,
		}),
		Jobs:     service.NewJobService(service.JobServiceOptions{Jobs: repos.JobRepo}),
		Students: service.NewStudentService(service.StudentServiceOptions{Students: repos.StudentRepo}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Applications:  repos.ApplicationRepo,
			CompanyDrives: repos.CompanyDriveRepo,
			Jobs:          repos.JobRepo,
			Students:      repos.StudentRepo,
		}),
		Observability: buildObservability(logger, obsCfg),
	}
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redis redis.UniversalClient) *serviceRepositories {
	return &serviceRepositories{
		DB:                 db,
		Redis:              redis,
		UserRepo:           data.NewUserRepo(db),
		CompanyRepo:        data.NewCompanyRepo(db),
		PlacementDriveRepo: data.NewPlacementDriveRepo(db),
		CompanyDriveRepo:   data.NewCompanyDriveRepo(db),
		JobRepo:            data.NewJobRepo(db),
		StudentRepo:        data.NewStudentRepo(db),
		ApplicationRepo:    data.NewApplicationRepo(db),
		ResetTokenRepo:     data.NewPasswordResetRepo(db),
	}
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	if logger == nil {
		logger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "portal-api",
			Logger:  logger,
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:    metricsSink,
		MetricsConfig:  cfg.Metrics,
		Notifier:       buildFailureNotifier(logger, cfg.Notifications),
		NotifierConfig: cfg.Notifications,
	}
}

// buildFailureNotifier composes the enabled notification destinations into a
// single fan-out sink. Returns nil when notifications are disabled or no
// destination could be initialised.
func buildFailureNotifier(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) notify.Sink {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled {
		return nil
	}

	type destination struct {
		name  string
		on    bool
		build func() (notify.Sink, error)
	}

	destinations := []destination{
		{
			name: "slack",
			on:   cfg.Slack.Enabled,
			build: func() (notify.Sink, error) {
				return slack.NewClient(slack.Config{
					WebhookURL:     cfg.Slack.WebhookURL,
					Channel:        cfg.Slack.Channel,
					Username:       cfg.Slack.Username,
					Timeout:        cfg.Timeout,
					RetryLimit:     cfg.RetryLimit,
					DriveURLPrefix: cfg.Slack.DriveURLPrefix,
				})
			},
		},
		{
			name: "pagerduty",
			on:   cfg.PagerDuty.Enabled,
			build: func() (notify.Sink, error) {
				return pagerduty.NewClient(pagerduty.Config{
					RoutingKey: cfg.PagerDuty.RoutingKey,
					Source:     cfg.PagerDuty.Source,
					Component:  cfg.PagerDuty.Component,
					Timeout:    cfg.Timeout,
					RetryLimit: cfg.RetryLimit,
				})
			},
		},
	}

	sinks := make([]notify.Sink, 0, len(destinations))
	for _, dest := range destinations {
		if !dest.on {
			continue
		}
		sink, err := dest.build()
		if err != nil {
			logger.Error("failed to initialise notifier", "destination", dest.name, "error", err)
			continue
		}
		sinks = append(sinks, sink)
	}

	fanout := notify.NewFanout(sinks...)
	if fanout.Len() == 0 {
		return nil
	}
	return fanout
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// orchestrator runs the enabled services and coordinates their shutdown.
type orchestrator struct {
	cfg     *ServiceOrchestrationConfig
	logger  *slog.Logger
	enabled map[config.ServiceMode]bool
	errCh   chan error

	httpServer *http.Server
	workers    []workerHandle
}

// workerHandle tracks a running background worker.
type workerHandle struct {
	name string
	done <-chan struct{}
}

// RunServicesWithShutdown starts all enabled services and blocks until a
// shutdown signal arrives or one of them fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	o := &orchestrator{
		cfg:     cfg,
		logger:  logger,
		enabled: enabled,
		errCh:   make(chan error, errorChannelBufferSize(enabled)),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	o.start(ctx)
	return o.wait(cancel)
}

func (o *orchestrator) start(ctx context.Context) {
	if o.enabled[config.ServiceModeHTTP] {
		o.httpServer = StartHTTPServer(&HTTPServerConfig{
			Config:   o.cfg.Config,
			Services: o.cfg.Services,
			Logger:   o.logger,
		})
	}
	if o.enabled[config.ServiceModeMaintenance] {
		o.launchWorker(ctx, "maintenance", o.runMaintenance)
	}
}

// launchWorker runs fn in a goroutine and reports its failure on errCh. A full
// channel means another service already failed; the error is logged instead.
func (o *orchestrator) launchWorker(ctx context.Context, name string, fn func(context.Context) error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := fn(ctx)
		if err == nil {
			return
		}
		err = fmt.Errorf("%s failed: %w", name, err)
		select {
		case o.errCh <- err:
		case <-ctx.Done():
		default:
			o.logger.WarnContext(ctx, "dropping background service error", "service", name, "error", err)
		}
	}()

	o.logger.InfoContext(ctx, "background service started", "service", name)
	o.workers = append(o.workers, workerHandle{name: name, done: done})
}

func (o *orchestrator) runMaintenance(ctx context.Context) error {
	var metricsSink statsd.Sink
	if o.cfg.Services.Observability.MetricsSink != nil {
		metricsSink = o.cfg.Services.Observability.MetricsSink
	}
	return RunMaintenance(ctx, MaintenanceConfig{
		DB:       o.cfg.DB,
		Logger:   o.logger,
		Config:   o.cfg.Config.Maintenance,
		Metrics:  metricsSink,
		Notifier: o.cfg.Services.Observability.Notifier,
	})
}

// wait blocks until SIGINT/SIGTERM or a service failure, then stops everything.
func (o *orchestrator) wait(cancel context.CancelFunc) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		o.logger.Info("shutting down services...")
		cancel()
		return o.stop()
	case err := <-o.errCh:
		o.logger.Error("service error", "error", err)
		cancel()
		if stopErr := o.stop(); stopErr != nil {
			o.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// stop drains the HTTP server first, then waits for workers to wind down. The
// service context is already cancelled, so the drain deadline hangs off
// Background.
func (o *orchestrator) stop() error {
	if o.httpServer != nil {
		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  o.httpServer,
			Timeout: shutdownWaitTimeout,
			Logger:  o.logger,
		}); err != nil {
			return err
		}
	}

	for _, w := range o.workers {
		select {
		case <-w.done:
			o.logger.Info(w.name + " stopped")
		case <-time.After(shutdownWaitTimeout):
			o.logger.Warn("timeout waiting for " + w.name + " to stop")
		}
	}
	return nil
}

// errorChannelBufferSize leaves one slot per enabled service plus one spare so
// late failures never block a worker goroutine.
func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := 1
	for _, mode := range []config.ServiceMode{config.ServiceModeHTTP, config.ServiceModeMaintenance} {
		if enabled[mode] {
			size++
		}
	}
	return size
}
