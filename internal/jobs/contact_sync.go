package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/growfix/backend/internal/accounting"
)

// ContactSyncJob periodically retries ledger contacts whose remote write is
// still pending or failed.
type ContactSyncJob struct {
	Syncer   *accounting.Syncer
	Schedule string
	Batch    int
	Logger   zerolog.Logger

	cron *cron.Cron
}

// Start registers the retry schedule and launches the scheduler. Schedule is
// standard cron syntax; an empty schedule disables the job.
func (j *ContactSyncJob) Start() error {
	if j.Schedule == "" {
		j.Logger.Info().Msg("contact sync job disabled")
		return nil
	}
	if j.Batch <= 0 {
		j.Batch = 100
	}

	j.cron = cron.New()
	_, err := j.cron.AddFunc(j.Schedule, j.run)
	if err != nil {
		return err
	}
	j.cron.Start()
	j.Logger.Info().Str("schedule", j.Schedule).Msg("contact sync job started")
	return nil
}

func (j *ContactSyncJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := j.Syncer.RetryUnsynced(ctx, j.Batch)
	if err != nil {
		j.Logger.Error().Err(err).Msg("contact sync sweep failed")
		return
	}
	if n > 0 {
		j.Logger.Info().Int("attempted", n).Msg("contact sync sweep done")
	}
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (j *ContactSyncJob) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}
