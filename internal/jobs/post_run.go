// Package jobs wires the components into the three scheduled runs: the
// posting run, the engagement backfill and the buzz reply cascade. Each job
// works standalone (one-shot command) or under the daemon scheduler.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"threadcaster/internal/compose"
	"threadcaster/internal/config"
	"threadcaster/internal/llm"
	"threadcaster/internal/logging"
	"threadcaster/internal/models"
	"threadcaster/internal/platform"
	"threadcaster/internal/publisher"
	"threadcaster/internal/selector"
	"threadcaster/internal/store"
	"threadcaster/internal/topics"
)

// AuthError marks a credential failure that must terminate the process
// with a nonzero exit.
type AuthError struct {
	Account string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for account %s: %v", e.Account, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// PostJob runs one posting invocation across all configured accounts.
type PostJob struct {
	cfg     *config.Config
	bot     func() *config.BotConfig
	history *store.HistoryStore
	trend   *store.TrendStore
	metrics *Metrics
}

// NewPostJob creates the posting job. bot is a getter so the daemon can
// hot-swap the ruleset between runs.
func NewPostJob(cfg *config.Config, bot func() *config.BotConfig, history *store.HistoryStore, trend *store.TrendStore) *PostJob {
	return &PostJob{cfg: cfg, bot: bot, history: history, trend: trend, metrics: InitMetrics()}
}

// Run executes the posting pipeline for every account, sequentially.
// One account's failure does not stop the others, but any failure is
// reported so the invocation exits nonzero.
func (j *PostJob) Run(ctx context.Context) error {
	started := time.Now()
	defer func() {
		j.metrics.RunDuration.WithLabelValues("post").Observe(time.Since(started).Seconds())
	}()

	bot := j.bot()
	var errs []error
	for i := range bot.Accounts {
		if err := j.runAccount(ctx, bot, &bot.Accounts[i]); err != nil {
			var authErr *AuthError
			if errors.As(err, &authErr) {
				return err
			}
			errs = append(errs, fmt.Errorf("account %s: %w", bot.Accounts[i].Name, err))
		}
	}
	return errors.Join(errs...)
}

func (j *PostJob) runAccount(ctx context.Context, bot *config.BotConfig, account *models.Account) error {
	runID := uuid.New().String()[:8]
	log := logging.WithRun("poster", runID, account.Name)
	now := time.Now()

	client := platform.NewClient(j.cfg.ThreadsAPIBase, account.AccessToken, log)

	if !j.cfg.DryRun {
		if err := ensureToken(ctx, client, account.Name); err != nil {
			return err
		}
	}

	records, err := j.history.Load(account.Name)
	if err != nil {
		return err
	}

	// Prologue: engagement-derived weights (or the persona override) feed
	// the selector.
	policy := selector.PolicyFor(account, records, now)

	recent, err := j.history.RecentCategories(account.Name, selector.CategoryCooldown, now)
	if err != nil {
		return err
	}

	trendAvailable := topics.TrendAvailable(j.trend, now)

	sel := selector.New(log)
	category, err := sel.Select(bot.Categories, policy, recent, trendAvailable, j.cfg.ForceCategory)
	if err != nil {
		return err
	}

	catalog := topics.NewCatalog(j.trend)
	builder := compose.NewPromptBuilder(catalog, bot.Categories, bot.Fallbacks, log)
	prompt, err := builder.Build(account, category, records, now)
	if err != nil {
		return err
	}

	var stealthExtra []string
	if account.Stealth && account.Persona != nil {
		// Non-nil even when the persona lists no extra words, so the
		// business check itself stays on for stealth accounts.
		stealthExtra = append([]string{}, account.Persona.ExtraBlocklist...)
	}
	pipeline := compose.NewPipeline(bot.Rules, stealthExtra)

	service := llm.NewClient(j.cfg.LLMBaseURL, j.cfg.LLMAPIKey, j.cfg.LLMModel, log)
	generator := compose.NewGenerator(service, pipeline, account.Stealth, log)

	text, ok, err := generator.Generate(ctx, prompt.System, prompt.User)
	if err != nil {
		return err
	}
	if !ok {
		// Stealth abandon: not an error, just no post this run.
		log.Info("stealth validation abandoned this run's post")
		j.metrics.PostsAbandoned.WithLabelValues(account.Name).Inc()
		return nil
	}

	pub := publisher.New(client, j.history, j.cfg.DryRun, log)
	if _, err := pub.Publish(ctx, publisher.Request{
		Account:  *account,
		Category: prompt.Category.ID,
		TopicKey: prompt.Topic.Key,
		Text:     text,
	}); err != nil {
		j.metrics.PublishFailures.WithLabelValues(account.Name).Inc()
		return err
	}

	j.metrics.PostsPublished.WithLabelValues(account.Name, prompt.Category.ID).Inc()
	return nil
}

// ensureToken verifies the account token, attempting one refresh before
// giving up. Refresh failure is fatal for the whole invocation.
func ensureToken(ctx context.Context, client *platform.Client, account string) error {
	if err := client.CheckToken(ctx); err == nil {
		return nil
	}
	if _, err := client.RefreshToken(ctx); err != nil {
		return &AuthError{Account: account, Err: err}
	}
	return nil
}
