// File: internal/jobs/wishlist_prune.go
package jobs

import (
	"context"
	"time"

	"realty_bureau_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	pruneRunTimeout  = 5 * time.Minute
	schedulerStopMax = 10 * time.Second
)

// DanglingPruner removes wishlist entries whose plot no longer exists.
// It is implemented by wishlist.Service.
type DanglingPruner interface {
	PruneDangling(ctx context.Context) (int64, error)
}

// WishlistPruneJob runs the pruner on WISHLIST_PRUNE_SCHEDULE.
type WishlistPruneJob struct {
	pruner        DanglingPruner
	schedule      string
	logger        *zap.Logger
	cronScheduler *cron.Cron
}

// NewWishlistPruneJob creates a new WishlistPruneJob.
func NewWishlistPruneJob(pruner DanglingPruner, cfg *config.Config, logger *zap.Logger) *WishlistPruneJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	return &WishlistPruneJob{
		pruner:        pruner,
		schedule:      cfg.WishlistPruneSchedule,
		logger:        logger.Named("WishlistPruneJob"),
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the job. An empty schedule disables it.
func (j *WishlistPruneJob) SetupAndStart() error {
	if j.schedule == "" {
		j.logger.Info("Wishlist prune job disabled (WISHLIST_PRUNE_SCHEDULE is empty)")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) })
	if err != nil {
		j.logger.Error("Failed to schedule wishlist prune job", zap.String("schedule", j.schedule), zap.Error(err))
		return err
	}

	j.logger.Info("Wishlist prune job scheduled", zap.String("schedule", j.schedule), zap.Int("jobID", int(jobID)))
	j.cronScheduler.Start()
	return nil
}

// RunOnce performs a single prune pass.
func (j *WishlistPruneJob) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pruneRunTimeout)
	defer cancel()

	start := time.Now()
	removed, err := j.pruner.PruneDangling(ctx)
	if err != nil {
		j.logger.Error("Wishlist prune run failed", zap.Error(err))
		return
	}
	j.logger.Info("Wishlist prune run completed", zap.Int64("entries_removed", removed), zap.Duration("took", time.Since(start)))
}

// Stop waits for a running pass to finish, up to a bound.
func (j *WishlistPruneJob) Stop() {
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Wishlist prune scheduler stopped.")
	case <-time.After(schedulerStopMax):
		j.logger.Warn("Wishlist prune scheduler stop timed out.")
	}
}
