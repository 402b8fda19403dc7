// File: internal/jobs/orphan_review_sweep.go
package jobs

import (
	"context"
	"time"

	"local_services_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepTimeout = 5 * time.Minute

// OrphanSweeper removes reviews whose listing no longer exists.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context) (int64, error)
}

// OrphanReviewSweepJob periodically deletes reviews left behind by a listing
// deletion that did not finish its cascade.
type OrphanReviewSweepJob struct {
	sweeper       OrphanSweeper
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewOrphanReviewSweepJob creates a new OrphanReviewSweepJob.
func NewOrphanReviewSweepJob(sweeper OrphanSweeper, logger *zap.Logger, cfg *config.Config) *OrphanReviewSweepJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)

	return &OrphanReviewSweepJob{
		sweeper:       sweeper,
		logger:        logger.Named("OrphanReviewSweepJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *OrphanReviewSweepJob) SetupAndStart() error {
	jobSpec := j.cfg.OrphanReviewSweepSchedule
	if jobSpec == "" {
		j.logger.Warn("Orphan review sweep schedule not defined (ORPHAN_REVIEW_SWEEP_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.RunOnce)
	if err != nil {
		j.logger.Error("Failed to schedule orphan review sweep", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Orphan review sweep scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// RunOnce performs a single sweep. The sweep-reviews command calls it directly.
func (j *OrphanReviewSweepJob) RunOnce() {
	j.logger.Info("Starting orphan review sweep...")
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	removed, err := j.sweeper.SweepOrphans(ctx)
	if err != nil {
		j.logger.Error("Orphan review sweep failed", zap.Error(err))
		return
	}
	j.logger.Info("Orphan review sweep completed", zap.Int64("reviews_removed", removed))
}

// Stop gracefully stops the cron scheduler.
func (j *OrphanReviewSweepJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping orphan review sweep scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Orphan review sweep scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Orphan review sweep scheduler stop timed out.")
	}
}
