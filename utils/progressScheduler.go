package utils

import (
	"context"
	"fmt"
	"time"

	"learnhub/logger"

	"github.com/robfig/cron/v3"
)

// Rollup recomputes stored course progress for every enrolled user.
type Rollup interface {
	RollupAll(ctx context.Context) (int, error)
}

const rollupTimeout = 30 * time.Minute

// RunProgressRollup runs one pass and logs the outcome.
func RunProgressRollup(ctx context.Context, r Rollup, log *logger.Logger) error {
	log.Info("[PROGRESS-ROLLUP] Running progress rollup...")
	start := time.Now()
	done, err := r.RollupAll(ctx)
	if err != nil {
		log.Error("[PROGRESS-ROLLUP] Rollup finished with errors", "users", done, "elapsed", time.Since(start), "error", err)
		return err
	}
	log.Info("[PROGRESS-ROLLUP] Rollup finished", "users", done, "elapsed", time.Since(start))
	return nil
}

// InitializeProgressScheduler registers the rollup on the cron schedule and starts the cron runner.
// Stop the returned cron on shutdown.
func InitializeProgressScheduler(schedule string, r Rollup, log *logger.Logger) (*cron.Cron, error) {
	log.Info("[PROGRESS-ROLLUP] Initializing progress scheduler...", "cron", schedule)

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), rollupTimeout)
		defer cancel()
		_ = RunProgressRollup(ctx, r, log)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid rollup schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Info("[PROGRESS-ROLLUP] Progress scheduler started", "cron", schedule)
	return c, nil
}
