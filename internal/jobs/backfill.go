package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"threadcaster/internal/config"
	"threadcaster/internal/engagement"
	"threadcaster/internal/logging"
	"threadcaster/internal/platform"
	"threadcaster/internal/store"
)

// BackfillJob harvests engagement metrics for settled posts, per account.
type BackfillJob struct {
	cfg     *config.Config
	bot     func() *config.BotConfig
	history *store.HistoryStore
	metrics *Metrics
}

// NewBackfillJob creates the engagement backfill job.
func NewBackfillJob(cfg *config.Config, bot func() *config.BotConfig, history *store.HistoryStore) *BackfillJob {
	return &BackfillJob{cfg: cfg, bot: bot, history: history, metrics: InitMetrics()}
}

// Run backfills every account sequentially. A failing account is reported
// but does not stop the rest of the batch.
func (j *BackfillJob) Run(ctx context.Context) error {
	started := time.Now()
	defer func() {
		j.metrics.RunDuration.WithLabelValues("backfill").Observe(time.Since(started).Seconds())
	}()

	runID := uuid.New().String()[:8]
	bot := j.bot()

	var errs []error
	for _, account := range bot.Accounts {
		log := logging.WithRun("backfill", runID, account.Name)
		client := platform.NewClient(j.cfg.ThreadsAPIBase, account.AccessToken, log)

		collector := engagement.NewCollector(j.history, client, log)
		updated, err := collector.Collect(ctx, account.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("account %s: %w", account.Name, err))
			continue
		}
		j.metrics.EngagementCollected.Add(float64(updated))
		log.WithField("updated", updated).Info("backfill finished")
	}
	return errors.Join(errs...)
}
