// Package buzz is the reply cascade: an independent scheduled process that
// reads the other accounts' recent posts, classifies their virality and
// probabilistically replies to keep buzzing threads alive.
package buzz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"threadcaster/internal/compose"
	"threadcaster/internal/models"
	"threadcaster/internal/publisher"
	"threadcaster/internal/store"
)

// candidateWindow is how far back monitored histories are scanned.
const candidateWindow = 48 * time.Hour

// ErrAllRepliesFailed is returned when candidates existed and every
// attempted reply failed, so the operator sees the silence.
var ErrAllRepliesFailed = errors.New("buzz cascade: every attempted reply failed")

// InsightsFetcher fetches current engagement for a monitored post,
// satisfied by the owning account's platform client.
type InsightsFetcher interface {
	Insights(ctx context.Context, postID string) (models.Engagement, error)
}

// Config carries the cascade's pacing knobs.
type Config struct {
	DailyCap   int
	MinGap     time.Duration
	MaxPreWait time.Duration
}

// Cascade runs one buzz-reply pass as a specific replying account.
type Cascade struct {
	replyAs   models.Account
	monitored []string
	history   *store.HistoryStore
	ledger    *store.ReplyLedger
	insights  func(account string) InsightsFetcher
	generator *compose.Generator
	publisher *publisher.Publisher
	cfg       Config
	log       *logrus.Entry

	// OnReply, when set, observes each successful reply's tier.
	OnReply func(level models.BuzzLevel)

	// Injected for tests.
	roll  func() float64
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a cascade. insights must return the fetcher bound to the
// monitored account's own token, since the platform only serves metrics
// to the post owner.
func New(
	replyAs models.Account,
	monitored []string,
	history *store.HistoryStore,
	ledger *store.ReplyLedger,
	insights func(account string) InsightsFetcher,
	generator *compose.Generator,
	pub *publisher.Publisher,
	cfg Config,
	log *logrus.Entry,
) *Cascade {
	return &Cascade{
		replyAs:   replyAs,
		monitored: monitored,
		history:   history,
		ledger:    ledger,
		insights:  insights,
		generator: generator,
		publisher: pub,
		cfg:       cfg,
		log:       log,
		roll:      rand.Float64,
		sleep:     sleepCtx,
	}
}

// Run scans the monitored histories and replies to qualifying posts.
func (c *Cascade) Run(ctx context.Context, now time.Time) error {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	repliedToday, err := c.ledger.CountSince(dayStart)
	if err != nil {
		return fmt.Errorf("failed to read reply ledger: %w", err)
	}

	attempted := 0
	succeeded := 0

	for _, account := range c.monitored {
		if account == c.replyAs.Name {
			continue
		}

		candidates, err := c.candidatesFor(account, now)
		if err != nil {
			c.log.WithError(err).WithField("monitored", account).Warn("failed to gather candidates, skipping account")
			continue
		}

		for _, rec := range candidates {
			if repliedToday >= c.cfg.DailyCap {
				c.log.WithField("cap", c.cfg.DailyCap).Info("daily reply cap reached")
				return c.outcome(attempted, succeeded)
			}

			e, err := c.insights(account).Insights(ctx, rec.PlatformPostID)
			if err != nil {
				c.log.WithError(err).WithField("post_id", rec.PlatformPostID).Warn("insight fetch failed, skipping candidate")
				continue
			}

			tier := Classify(e)
			if c.roll() >= tier.Probability {
				c.log.WithFields(logrus.Fields{"post_id": rec.PlatformPostID, "tier": tier.Level}).Debug("probability roll skipped reply")
				continue
			}

			attempted++
			if err := c.reply(ctx, account, rec, tier, e, now); err != nil {
				c.log.WithError(err).WithField("post_id", rec.PlatformPostID).Warn("reply failed")
				continue
			}
			succeeded++
			repliedToday++

			// Minimum spacing between consecutive replies.
			if err := c.sleep(ctx, c.cfg.MinGap); err != nil {
				return err
			}
		}
	}

	return c.outcome(attempted, succeeded)
}

// candidatesFor returns the monitored account's recent real posts that are
// not yet in the ledger. Monitored histories are read-only here.
func (c *Cascade) candidatesFor(account string, now time.Time) ([]models.PostRecord, error) {
	records, err := c.history.Load(account)
	if err != nil {
		return nil, err
	}

	var out []models.PostRecord
	for _, rec := range records {
		if rec.IsReply() || !rec.HasRealPostID() {
			continue
		}
		if now.Sub(rec.Date) > candidateWindow {
			continue
		}
		replied, err := c.ledger.HasReplied(rec.PlatformPostID)
		if err != nil {
			return nil, err
		}
		if !replied {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Cascade) reply(ctx context.Context, account string, rec models.PostRecord, tier Tier, e models.Engagement, now time.Time) error {
	// Randomized pre-reply delay, so replies never land with inhuman
	// regularity.
	if c.cfg.MaxPreWait > 0 {
		wait := time.Duration(c.roll() * float64(c.cfg.MaxPreWait))
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}

	text, ok, err := c.generator.Generate(ctx, replySystemPrompt, replyUserPrompt(rec.Text))
	if err != nil {
		return fmt.Errorf("reply generation failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("reply abandoned by stealth validation")
	}

	replyID, err := c.publisher.Publish(ctx, publisher.Request{
		Account:   c.replyAs,
		Category:  rec.Category,
		TopicKey:  rec.TopicKey,
		Text:      text,
		ReplyToID: rec.PlatformPostID,
	})
	if err != nil {
		return err
	}

	ledgerRec := models.ReplyRecord{
		Date:            now,
		OriginalThread:  rec.PlatformPostID,
		OriginalAccount: account,
		ReplyText:       text,
		ReplyID:         replyID,
		BuzzLevel:       tier.Level,
		Insights:        &e,
	}
	if err := c.ledger.Append(ledgerRec); err != nil {
		return fmt.Errorf("reply %s published but ledger append failed: %w", replyID, err)
	}

	c.log.WithFields(logrus.Fields{
		"post_id":  rec.PlatformPostID,
		"reply_id": replyID,
		"tier":     tier.Level,
	}).Info("buzz reply published")
	if c.OnReply != nil {
		c.OnReply(tier.Level)
	}
	return nil
}

func (c *Cascade) outcome(attempted, succeeded int) error {
	c.log.WithFields(logrus.Fields{"attempted": attempted, "succeeded": succeeded}).Info("buzz cascade finished")
	if attempted > 0 && succeeded == 0 {
		return ErrAllRepliesFailed
	}
	return nil
}

const replySystemPrompt = "You write short, warm replies on a social platform. " +
	"React to the post like a real person: one concrete thought, maybe a light question. " +
	"No hashtags, no links, never promotional."

func replyUserPrompt(originalText string) string {
	return "Reply to this post in one or two sentences:\n\n" + originalText
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
