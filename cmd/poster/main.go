// Command poster executes one posting run: weight adjustment, category
// selection, generation, validation and the two-phase publish, for every
// configured account. Meant to be invoked from cron or the daemon.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"threadcaster/internal/config"
	"threadcaster/internal/jobs"
	"threadcaster/internal/logging"
	"threadcaster/internal/store"
)

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

	history, err := store.NewHistoryStore(cfg.DataDir)
	if err != nil {
		logrus.Fatalf("failed to open history store: %v", err)
	}
	trend, err := store.NewTrendStore(cfg.DataDir)
	if err != nil {
		logrus.Fatalf("failed to open trend store: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job := jobs.NewPostJob(cfg, func() *config.BotConfig { return bot }, history, trend)
	if err := job.Run(ctx); err != nil {
		logrus.Errorf("posting run failed: %v", err)
		os.Exit(1)
	}

	logrus.Info("posting run complete")
}
