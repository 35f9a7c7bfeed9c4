package storage

// prune.go runs history retention in the background.
//
// The scheduler deletes catalog_import_run rows older than the retention
// window once at start and then every interval. Failures are logged and
// retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// PruneConfig holds configuration for the history prune scheduler.
type PruneConfig struct {
	Retention     time.Duration // Keep runs newer than this (default: 30 days)
	CheckInterval time.Duration // How often to run (default: 24h)
}

func (c PruneConfig) withDefaults() PruneConfig {
	if c.Retention <= 0 {
		c.Retention = 30 * 24 * time.Hour
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 24 * time.Hour
	}
	return c
}

// StartPruneScheduler prunes h until ctx is cancelled.
func StartPruneScheduler(ctx context.Context, h *History, cfg PruneConfig) {
	cfg = cfg.withDefaults()
	slog.Info("history prune scheduler started",
		"retention", cfg.Retention,
		"interval", cfg.CheckInterval,
	)

	runPruneJob(ctx, h, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history prune scheduler stopped")
			return
		case <-ticker.C:
			runPruneJob(ctx, h, cfg)
		}
	}
}

func runPruneJob(ctx context.Context, h *History, cfg PruneConfig) {
	start := time.Now()
	pruned, err := h.Prune(ctx, h.now().Add(-cfg.Retention))
	if err != nil {
		slog.Error("history prune failed", "error", err)
		return
	}
	slog.Info("pruned import history",
		"runs_pruned", pruned,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
