package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds all process configuration sourced from the environment.
type Config struct {
	DataDir       string // directory holding history/trend/ledger state files
	BotConfig     string // path to the accounts+rules YAML file
	DryRun        bool   // suppress real publish calls, still exercise generation
	ForceCategory string // operator override: category id to select unconditionally

	// Threads Graph API
	ThreadsAPIBase string

	// Generation service (OpenAI-compatible chat completions)
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	// Daemon mode
	Port         string
	PostCron     string
	BackfillCron string
	BuzzCron     string

	// Buzz reply pacing
	BuzzDailyCap   int
	BuzzMinGap     time.Duration
	BuzzMaxPreWait time.Duration
}

// Load loads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		DataDir:       getEnv("DATA_DIR", "./data"),
		BotConfig:     getEnv("BOT_CONFIG", "./config/accounts.yaml"),
		DryRun:        getBoolEnv("DRY_RUN", false),
		ForceCategory: getEnv("FORCE_CATEGORY", ""),

		ThreadsAPIBase: getEnv("THREADS_API_BASE", "https://graph.threads.net/v1.0"),

		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:  getEnv("LLM_API_KEY", ""),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o-mini"),

		Port:         getEnv("PORT", "3002"),
		PostCron:     getEnv("POST_CRON", "0 */4 * * *"),
		BackfillCron: getEnv("BACKFILL_CRON", "30 1 * * *"),
		BuzzCron:     getEnv("BUZZ_CRON", "15 */6 * * *"),

		BuzzDailyCap:   getIntEnv("BUZZ_DAILY_CAP", 5),
		BuzzMinGap:     getDurationEnv("BUZZ_MIN_GAP", 10*time.Minute),
		BuzzMaxPreWait: getDurationEnv("BUZZ_MAX_PRE_WAIT", 90*time.Second),
	}
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.LLMAPIKey == "" && !c.DryRun {
		return fmt.Errorf("LLM_API_KEY is required unless DRY_RUN is set")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for _, expr := range []string{c.PostCron, c.BackfillCron, c.BuzzCron} {
		if _, err := parser.Parse(expr); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", expr, err)
		}
	}
	return nil
}

// AccountToken returns the access token for an account name, read from
// THREADS_TOKEN_<NAME> (uppercased, dashes mapped to underscores).
func AccountToken(name string) string {
	key := "THREADS_TOKEN_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	return os.Getenv(key)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
