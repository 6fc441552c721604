package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hirespherex/portal-api/config"
	obserrors "github.com/hirespherex/portal-api/internal/observability/errors"
	"github.com/hirespherex/portal-api/internal/observability/metrics"
	"github.com/hirespherex/portal-api/internal/observability/notify"
	"github.com/hirespherex/portal-api/internal/observability/statsd"
)

// ResetTokenPurger deletes stale password reset tokens.
type ResetTokenPurger interface {
	PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

// DriveDeadlineEnforcer closes company drives past their application deadline.
type DriveDeadlineEnforcer interface {
	CloseExpired(ctx context.Context, batchSize int) (int64, error)
}

// MaintenanceServiceOptions groups dependencies for MaintenanceService.
type MaintenanceServiceOptions struct {
	Tokens   ResetTokenPurger      // Required: reset token purge target
	Drives   DriveDeadlineEnforcer // Required: drive deadline enforcement target
	Config   config.MaintenanceConfig
	Logger   *slog.Logger // Optional: structured logger
	Metrics  statsd.Sink  // Optional: metrics sink (StatsD-compatible)
	Notifier notify.Sink  // Optional: failure notification fan-out
}

// MaintenanceService runs the periodic housekeeping loop.
//
// This service manages:
// - Deleting expired and used password reset tokens past their retention window.
// - Closing open company drives whose application deadline has passed.
type MaintenanceService struct {
	tokens   ResetTokenPurger
	drives   DriveDeadlineEnforcer
	config   config.MaintenanceConfig
	logger   *slog.Logger
	metrics  statsd.Sink
	notifier notify.Sink
}

// Task labels used in logs, metrics, and notifications.
const (
	TaskResetTokenPurge    = "reset_token_purge"
	TaskCloseExpiredDrives = "close_expired_drives"
)

// NewMaintenanceService constructs a new MaintenanceService.
func NewMaintenanceService(opts MaintenanceServiceOptions) (*MaintenanceService, error) {
	if opts.Tokens == nil {
		return nil, errors.New("ResetTokenPurger is required")
	}
	if opts.Drives == nil {
		return nil, errors.New("DriveDeadlineEnforcer is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "maintenance_service")
		logger.Debug("MaintenanceService initialized",
			"interval", opts.Config.Interval,
			"reset_token_max_age", opts.Config.ResetTokenMaxAge,
			"close_expired_drives", opts.Config.CloseExpiredDrives,
			"batch_size", opts.Config.BatchSize,
		)
	}

	return &MaintenanceService{
		tokens:   opts.Tokens,
		drives:   opts.Drives,
		config:   opts.Config,
		logger:   logger,
		metrics:  opts.Metrics,
		notifier: opts.Notifier,
	}, nil
}

// Run starts the maintenance loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *MaintenanceService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting maintenance service", "interval", s.config.Interval)
	}

	// Add jitter to prevent thundering herd if multiple instances start together
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if err := s.runCycle(ctx); err != nil {
		s.logCycleError(err, "initial maintenance cycle")
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "maintenance service stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				s.logCycleError(err, "maintenance cycle")
				// Keep running despite errors
			}
		}
	}
}

// waitWithJitter adds a random delay up to 10% of the interval to prevent thundering herd.
func (s *MaintenanceService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
		// Graceful shutdown during jitter
	}
}

// RunOnce performs a single maintenance cycle. Exposed for the admin CLI.
func (s *MaintenanceService) RunOnce(ctx context.Context) error {
	return s.runCycle(ctx)
}

// runCycle runs all enabled tasks once. The tasks touch disjoint tables, so
// they run concurrently. Per-task metrics and failure notifications are
// emitted inside runTask; the returned error only feeds the cycle log.
func (s *MaintenanceService) runCycle(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		if err := s.runTask(ctx, TaskResetTokenPurge, s.purgeResetTokens); err != nil {
			return fmt.Errorf("%s: %w", TaskResetTokenPurge, err)
		}
		return nil
	})

	if s.config.CloseExpiredDrives {
		g.Go(func() error {
			if err := s.runTask(ctx, TaskCloseExpiredDrives, s.closeExpiredDrives); err != nil {
				return fmt.Errorf("%s: %w", TaskCloseExpiredDrives, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if isContextCancellation(err) {
			return context.Canceled
		}
		return fmt.Errorf("maintenance cycle failed: %w", err)
	}
	return nil
}

type maintenanceTask func(context.Context) (int64, error)

func (s *MaintenanceService) runTask(ctx context.Context, label string, fn maintenanceTask) error {
	start := time.Now()
	count, err := fn(ctx)
	elapsed := time.Since(start)

	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultError
	case count == 0:
		result = metrics.ResultNoop
	}

	metrics.EmitTaskRun(s.metrics, metrics.TaskMetric{
		Task:     label,
		Result:   result,
		Affected: count,
		Duration: elapsed,
		Err:      suppressContextCancellation(err),
	})

	if err != nil && !isContextCancellation(err) {
		s.notifyFailure(ctx, label, err)
	}

	return err
}

func (s *MaintenanceService) purgeResetTokens(ctx context.Context) (int64, error) {
	count, err := s.tokens.PurgeExpired(ctx, s.config.ResetTokenMaxAge)
	if err != nil {
		return count, err
	}

	if count > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "purged stale password reset tokens",
			"count", count,
			"max_age", s.config.ResetTokenMaxAge,
		)
	}
	return count, nil
}

// closeExpiredDrives loops until no more rows are affected to handle large
// backlogs in batches.
func (s *MaintenanceService) closeExpiredDrives(ctx context.Context) (int64, error) {
	var totalCount int64
	for {
		count, err := s.drives.CloseExpired(ctx, s.config.BatchSize)
		if err != nil {
			return totalCount, err
		}
		totalCount += count
		if count == 0 {
			break
		}
		// Check context between batches
		if ctx.Err() != nil {
			return totalCount, ctx.Err()
		}
	}

	if totalCount > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "closed company drives past application deadline",
			"count", totalCount,
		)
	}
	return totalCount, nil
}

func (s *MaintenanceService) notifyFailure(ctx context.Context, task string, err error) {
	if s.notifier == nil {
		return
	}

	payload := notify.TaskFailurePayload{
		Task:       task,
		Error:      err.Error(),
		ErrorClass: obserrors.Classify(err),
		Severity:   notify.SeverityCritical,
		OccurredAt: time.Now(),
	}

	if sendErr := s.notifier.SendTaskFailure(ctx, payload); sendErr != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to send maintenance failure notification",
			"task", task,
			"error", sendErr,
		)
	}
}

func (s *MaintenanceService) logCycleError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}

	if isContextCancellation(err) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}

	s.logger.Error(label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func suppressContextCancellation(err error) error {
	if isContextCancellation(err) {
		return nil
	}
	return err
}
