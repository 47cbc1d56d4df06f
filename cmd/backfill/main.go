// Command backfill harvests engagement metrics for posts old enough for
// their numbers to have settled, and writes the snapshots into history.
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

	godotenv.Load()

	cfg := config.Load()
	bot, err := config.LoadBot(cfg.BotConfig)
	if err != nil {
		logrus.Fatalf("failed to load bot config: %v", err)
	}

	history, err := store.NewHistoryStore(cfg.DataDir)
	if err != nil {
		logrus.Fatalf("failed to open history store: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job := jobs.NewBackfillJob(cfg, func() *config.BotConfig { return bot }, history)
	if err := job.Run(ctx); err != nil {
		logrus.Errorf("backfill run failed: %v", err)
		os.Exit(1)
	}

	logrus.Info("backfill run complete")
}
