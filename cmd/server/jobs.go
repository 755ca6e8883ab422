package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/robfig/cron/v3"
)

// lowStockSweepTimeout bounds a single sweep run.
const lowStockSweepTimeout = 30 * time.Second

// cronLogger forwards cron's logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}

// lowStockSweeper is the part of the inventory service the scheduler needs.
type lowStockSweeper interface {
	SweepLowStock(ctx context.Context, threshold int) ([]*domain.Item, error)
}

var _ lowStockSweeper = (service.InventoryService)(nil)

// newJobScheduler registers the low-stock sweep on cfg.LowStockSchedule.
// The returned scheduler is not started.
func newJobScheduler(cfg config.JobsConfig, inventory lowStockSweeper, logger *slog.Logger) (*cron.Cron, error) {
	log := cronLogger{logger: logger.With(slog.String("component", "jobs"))}
	c := cron.New(
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)

	_, err := c.AddFunc(cfg.LowStockSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), lowStockSweepTimeout)
		defer cancel()
		// Failures are logged by the service.
		_, _ = inventory.SweepLowStock(ctx, cfg.LowStockThreshold)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid low-stock schedule %q: %w", cfg.LowStockSchedule, err)
	}
	return c, nil
}
