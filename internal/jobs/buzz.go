package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"threadcaster/internal/buzz"
	"threadcaster/internal/compose"
	"threadcaster/internal/config"
	"threadcaster/internal/llm"
	"threadcaster/internal/logging"
	"threadcaster/internal/models"
	"threadcaster/internal/platform"
	"threadcaster/internal/publisher"
	"threadcaster/internal/store"
)

// BuzzJob runs the reply cascade as the non-stealth account, monitoring
// the rest of the fleet's histories.
type BuzzJob struct {
	cfg     *config.Config
	bot     func() *config.BotConfig
	history *store.HistoryStore
	ledger  *store.ReplyLedger
	metrics *Metrics
}

// NewBuzzJob creates the buzz cascade job.
func NewBuzzJob(cfg *config.Config, bot func() *config.BotConfig, history *store.HistoryStore, ledger *store.ReplyLedger) *BuzzJob {
	return &BuzzJob{cfg: cfg, bot: bot, history: history, ledger: ledger, metrics: InitMetrics()}
}

// Run executes one cascade pass.
func (j *BuzzJob) Run(ctx context.Context) error {
	started := time.Now()
	defer func() {
		j.metrics.RunDuration.WithLabelValues("buzz").Observe(time.Since(started).Seconds())
	}()

	bot := j.bot()
	replyAs := replierAccount(bot)
	if replyAs == nil {
		return fmt.Errorf("no non-stealth account configured to reply as")
	}

	runID := uuid.New().String()[:8]
	log := logging.WithRun("buzz", runID, replyAs.Name)

	replyClient := platform.NewClient(j.cfg.ThreadsAPIBase, replyAs.AccessToken, log)
	if !j.cfg.DryRun {
		if err := ensureToken(ctx, replyClient, replyAs.Name); err != nil {
			return err
		}
	}

	var monitored []string
	for _, acc := range bot.Accounts {
		if acc.Name != replyAs.Name {
			monitored = append(monitored, acc.Name)
		}
	}

	// Insight reads must use the post owner's token.
	insightClients := make(map[string]*platform.Client, len(monitored))
	for _, acc := range bot.Accounts {
		if acc.Name != replyAs.Name {
			insightClients[acc.Name] = platform.NewClient(j.cfg.ThreadsAPIBase, acc.AccessToken, log)
		}
	}

	pipeline := compose.NewPipeline(bot.Rules, nil)
	service := llm.NewClient(j.cfg.LLMBaseURL, j.cfg.LLMAPIKey, j.cfg.LLMModel, log)
	generator := compose.NewGenerator(service, pipeline, replyAs.Stealth, log)
	pub := publisher.New(replyClient, j.history, j.cfg.DryRun, log)

	cascade := buzz.New(
		*replyAs,
		monitored,
		j.history,
		j.ledger,
		func(account string) buzz.InsightsFetcher { return insightClients[account] },
		generator,
		pub,
		buzz.Config{
			DailyCap:   j.cfg.BuzzDailyCap,
			MinGap:     j.cfg.BuzzMinGap,
			MaxPreWait: j.cfg.BuzzMaxPreWait,
		},
		log,
	)
	cascade.OnReply = func(level models.BuzzLevel) {
		j.metrics.BuzzReplies.WithLabelValues(string(level)).Inc()
	}

	return cascade.Run(ctx, time.Now())
}

func replierAccount(bot *config.BotConfig) *models.Account {
	for i := range bot.Accounts {
		if !bot.Accounts[i].Stealth {
			return &bot.Accounts[i]
		}
	}
	return nil
}
