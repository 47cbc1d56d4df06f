// Command daemon runs all three scheduled jobs in one long-lived process:
// the posting run, the engagement backfill and the buzz reply cascade, on
// their configured cron schedules, with a small health and metrics surface.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"threadcaster/internal/config"
	"threadcaster/internal/jobs"
	"threadcaster/internal/logging"
	"threadcaster/internal/store"
)

// botHolder hands the current ruleset to jobs and lets the file watcher
// swap it between runs.
type botHolder struct {
	mu  sync.RWMutex
	bot *config.BotConfig
}

func (h *botHolder) Get() *config.BotConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bot
}

func (h *botHolder) Set(bot *config.BotConfig) {
	h.mu.Lock()
	h.bot = bot
	h.mu.Unlock()
}

func main() {
	logging.Init()

	if err := godotenv.Load(); err == nil {
		logrus.Debug(".env file loaded")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	bot, err := config.LoadBot(cfg.BotConfig)
	if err != nil {
		logrus.Fatalf("failed to load bot config: %v", err)
	}
	holder := &botHolder{bot: bot}

	history, err := store.NewHistoryStore(cfg.DataDir)
	if err != nil {
		logrus.Fatalf("failed to open history store: %v", err)
	}
	trend, err := store.NewTrendStore(cfg.DataDir)
	if err != nil {
		logrus.Fatalf("failed to open trend store: %v", err)
	}
	ledger, err := store.NewReplyLedger(cfg.DataDir)
	if err != nil {
		logrus.Fatalf("failed to open reply ledger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go watchBotConfig(ctx, cfg.BotConfig, holder)

	postJob := jobs.NewPostJob(cfg, holder.Get, history, trend)
	backfillJob := jobs.NewBackfillJob(cfg, holder.Get, history)
	buzzJob := jobs.NewBuzzJob(cfg, holder.Get, history, ledger)

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		logrus.Fatalf("failed to create scheduler: %v", err)
	}

	register := func(name, cronExpr string, run func(context.Context) error) {
		_, err := scheduler.NewJob(
			gocron.CronJob(cronExpr, false),
			gocron.NewTask(func() {
				logrus.WithField("job", name).Info("scheduled run starting")
				if err := run(ctx); err != nil {
					logrus.WithField("job", name).Errorf("run failed: %v", err)
				}
			}),
			gocron.WithName(name),
		)
		if err != nil {
			logrus.Fatalf("failed to register job %s: %v", name, err)
		}
		logrus.WithFields(logrus.Fields{"job": name, "cron": cronExpr}).Info("job registered")
	}

	register("post", cfg.PostCron, postJob.Run)
	register("backfill", cfg.BackfillCron, backfillJob.Run)
	register("buzz", cfg.BuzzCron, buzzJob.Run)

	scheduler.Start()
	logrus.Info("scheduler started")

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())

	prom := fiberprometheus.New("threadcaster")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"accounts": len(holder.Get().Accounts),
		})
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logrus.Fatalf("http server failed: %v", err)
		}
	}()
	logrus.WithField("port", cfg.Port).Info("health and metrics endpoint up")

	<-ctx.Done()
	logrus.Info("shutting down")

	if err := scheduler.Shutdown(); err != nil {
		logrus.Warnf("scheduler shutdown: %v", err)
	}
	if err := app.Shutdown(); err != nil {
		logrus.Warnf("http shutdown: %v", err)
	}
	os.Exit(0)
}

// watchBotConfig hot-reloads the ruleset when the YAML file changes.
// A broken edit keeps the previous ruleset.
func watchBotConfig(ctx context.Context, path string, holder *botHolder) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logrus.Warnf("failed to create config watcher: %v", err)
		return
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		logrus.Warnf("failed to resolve config path: %v", err)
		return
	}

	// Watch the directory; editors replace files rather than write in place.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		logrus.Warnf("failed to watch config directory: %v", err)
		return
	}
	logrus.WithField("path", path).Info("bot config hot-reload enabled")

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(absPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(500*time.Millisecond, func() {
				bot, err := config.LoadBot(path)
				if err != nil {
					logrus.Errorf("bot config reload failed, keeping previous: %v", err)
					return
				}
				holder.Set(bot)
				logrus.Info("bot config reloaded")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logrus.Warnf("config watcher error: %v", err)
		}
	}
}
