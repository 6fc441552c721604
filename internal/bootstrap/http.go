package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hirespherex/portal-api/config"
	httpx "github.com/hirespherex/portal-api/internal/http"
	"github.com/hirespherex/portal-api/internal/observability/statsd"
)

const (
	defaultListenAddr      = ":8080"
	defaultShutdownTimeout = 10 * time.Second
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer builds the router, starts serving in the background and
// returns the server handle for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	var metricsSink statsd.Sink
	if cfg.Services.Observability.MetricsSink != nil {
		metricsSink = cfg.Services.Observability.MetricsSink
	}

	// The router applies the Recover/Metrics/Logging middleware chain itself.
	handler := httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Resets:       cfg.Services.Resets,
		Users:        cfg.Services.Users,
		Companies:    cfg.Services.Companies,
		Placements:   cfg.Services.Placements,
		Jobs:         cfg.Services.Jobs,
		Students:     cfg.Services.Students,
		Applications: cfg.Services.Applications,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Logger:       logger,
		Metrics:      metricsSink,
	})

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = defaultListenAddr
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  appCfg.HTTP.ReadTimeout,
		WriteTimeout: appCfg.HTTP.WriteTimeout,
		IdleTimeout:  appCfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer drains in-flight requests, waiting at most cfg.Timeout.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(cfg.Context, timeout)
	defer cancel()

	logger.Info("shutting down HTTP server")
	if err := cfg.Server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
