// Command buzzreply runs the buzz reply cascade: scan the fleet's recent
// posts, classify virality and probabilistically reply as the main account.
// Exits nonzero when candidates existed and every attempted reply failed.
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
	ledger, err := store.NewReplyLedger(cfg.DataDir)
	if err != nil {
		logrus.Fatalf("failed to open reply ledger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job := jobs.NewBuzzJob(cfg, func() *config.BotConfig { return bot }, history, ledger)
	if err := job.Run(ctx); err != nil {
		logrus.Errorf("buzz cascade failed: %v", err)
		os.Exit(1)
	}

	logrus.Info("buzz cascade complete")
}
