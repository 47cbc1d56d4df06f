package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"threadcaster/internal/models"
)

// BotConfig is the YAML-defined ruleset: accounts, base category weights,
// blocklists and the category fallback table. Keeping the ruleset in data
// means style changes never require a code change.
type BotConfig struct {
	Categories []models.Category `yaml:"categories"`
	Accounts   []models.Account  `yaml:"accounts"`

	// Ordered fallback category per category, used when a topic pool is
	// exhausted by the 14-day dedup window.
	Fallbacks map[string]string `yaml:"fallbacks"`

	Rules RuleSet `yaml:"rules"`
}

// RuleSet holds the text-normalization and validation word lists.
type RuleSet struct {
	StiltedConnectors []string `yaml:"stiltedConnectors"`
	EmojiPalette      []string `yaml:"emojiPalette"`
	CorporateWords    []string `yaml:"corporateWords"`
	PromotionalWords  []string `yaml:"promotionalWords"`
	JargonWords       []string `yaml:"jargonWords"`
	BusinessWords     []string `yaml:"businessWords"`
}

// LoadBot loads the bot ruleset from a YAML file and resolves account
// tokens from the environment.
func LoadBot(filePath string) (*BotConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot config: %w", err)
	}

	var cfg BotConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse bot config YAML: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	for i := range cfg.Accounts {
		cfg.Accounts[i].AccessToken = AccountToken(cfg.Accounts[i].Name)
	}

	return &cfg, nil
}

func (c *BotConfig) validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("bot config defines no categories")
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("bot config defines no accounts")
	}

	ids := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.ID == "" {
			return fmt.Errorf("category with empty id")
		}
		if ids[cat.ID] {
			return fmt.Errorf("duplicate category id %q", cat.ID)
		}
		ids[cat.ID] = true
	}

	for from, to := range c.Fallbacks {
		if !ids[from] || !ids[to] {
			return fmt.Errorf("fallback %s -> %s references unknown category", from, to)
		}
		if from == to {
			return fmt.Errorf("category %s falls back to itself", from)
		}
	}

	nonStealth := 0
	for _, acc := range c.Accounts {
		if !acc.Stealth {
			nonStealth++
		}
		if acc.Stealth && acc.Persona == nil {
			return fmt.Errorf("stealth account %s has no persona", acc.Name)
		}
	}
	if nonStealth != 1 {
		return fmt.Errorf("expected exactly one non-stealth account, got %d", nonStealth)
	}

	return nil
}

// Account returns the account with the given name, or nil.
func (c *BotConfig) Account(name string) *models.Account {
	for i := range c.Accounts {
		if c.Accounts[i].Name == name {
			return &c.Accounts[i]
		}
	}
	return nil
}
