// Package engagement backfills platform metrics onto history records once
// a post is old enough for its numbers to have settled.
package engagement

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"threadcaster/internal/models"
	"threadcaster/internal/platform"
	"threadcaster/internal/store"
)

const (
	// settleAge is how old a post must be before its metrics are trusted.
	settleAge = 24 * time.Hour

	// maxPerRun bounds one backfill batch to respect platform rate limits.
	maxPerRun = 10

	// fetchPause spaces the sequential insight fetches.
	fetchPause = 2 * time.Second
)

// Collector fetches engagement snapshots for one account's history.
type Collector struct {
	history *store.HistoryStore
	client  *platform.Client
	pause   time.Duration
	log     *logrus.Entry
}

// NewCollector creates an engagement collector.
func NewCollector(history *store.HistoryStore, client *platform.Client, log *logrus.Entry) *Collector {
	return &Collector{history: history, client: client, pause: fetchPause, log: log}
}

// Collect backfills up to maxPerRun records. A failed fetch is logged and
// skipped; it never aborts the batch. Returns how many records were updated.
func (c *Collector) Collect(ctx context.Context, account string) (int, error) {
	records, err := c.history.Load(account)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	pending := pendingRecords(records, now)
	if len(pending) == 0 {
		c.log.Debug("no records pending engagement backfill")
		return 0, nil
	}
	if len(pending) > maxPerRun {
		pending = pending[:maxPerRun]
	}

	updated := 0
	for i, rec := range pending {
		if i > 0 {
			select {
			case <-time.After(c.pause):
			case <-ctx.Done():
				return updated, ctx.Err()
			}
		}

		e, err := c.client.Insights(ctx, rec.PlatformPostID)
		if err != nil {
			c.log.WithError(err).WithField("post_id", rec.PlatformPostID).Warn("insight fetch failed, skipping")
			continue
		}

		if err := c.history.UpdateEngagement(account, rec.PlatformPostID, e, now); err != nil {
			c.log.WithError(err).WithField("post_id", rec.PlatformPostID).Warn("engagement write failed, skipping")
			continue
		}

		c.log.WithFields(logrus.Fields{
			"post_id": rec.PlatformPostID,
			"score":   e.Score(),
		}).Info("engagement backfilled")
		updated++
	}

	return updated, nil
}

// pendingRecords selects records eligible for backfill: a real platform id,
// not a reply, no snapshot yet, and old enough to have settled.
func pendingRecords(records []models.PostRecord, now time.Time) []models.PostRecord {
	var out []models.PostRecord
	for _, rec := range records {
		if !rec.HasRealPostID() || rec.IsReply() || rec.Engagement != nil {
			continue
		}
		if now.Sub(rec.Date) < settleAge {
			continue
		}
		out = append(out, rec)
	}
	return out
}
