package compose

import (
	"strings"
	"testing"

	"threadcaster/internal/config"
)

func testRules() config.RuleSet {
	return config.RuleSet{
		StiltedConnectors: []string{"In conclusion,", "Furthermore,"},
		EmojiPalette:      []string{"🏠", "🌿"},
		CorporateWords:    []string{"synergy"},
		PromotionalWords:  []string{"sign up now"},
		JargonWords:       []string{"paradigm"},
		BusinessWords:     []string{"our clients"},
	}
}

func TestStripPhrases(t *testing.T) {
	transform := StripPhrases([]string{"In conclusion,", "Furthermore,"})

	got := transform("Furthermore, the roof leaks. In conclusion, fix it.")
	if strings.Contains(got, "Furthermore") || strings.Contains(got, "In conclusion") {
		t.Errorf("connector phrases not stripped: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("doubled spaces left behind: %q", got)
	}
}

func TestPrependEmoji(t *testing.T) {
	palette := []string{"🏠", "🌿"}

	t.Run("prepends from palette", func(t *testing.T) {
		transform := PrependEmoji(palette, func(int) int { return 0 })
		got := transform("hello")
		if !strings.HasPrefix(got, "🏠") {
			t.Errorf("expected emoji prefix, got %q", got)
		}
		if !strings.HasSuffix(got, " hello") {
			t.Errorf("expected original text preserved, got %q", got)
		}
	})

	t.Run("count follows draw", func(t *testing.T) {
		transform := PrependEmoji(palette, func(n int) int { return n - 1 })
		got := transform("hello")
		if !strings.HasPrefix(got, "🌿🌿") {
			t.Errorf("expected two emoji, got %q", got)
		}
	})

	t.Run("skipped when emoji present", func(t *testing.T) {
		transform := PrependEmoji(palette, func(int) int { return 0 })
		input := "already has one ☀️"
		if got := transform(input); got != input {
			t.Errorf("expected untouched text, got %q", got)
		}
	})
}

func TestContainsEmoji(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"plain text", false},
		{"with 🏠 emoji", true},
		{"sun ☀️", true},
		{"heart ❤", true},
		{"japanese 家", false},
	}
	for _, tt := range tests {
		if got := ContainsEmoji(tt.text); got != tt.expected {
			t.Errorf("ContainsEmoji(%q) = %v, expected %v", tt.text, got, tt.expected)
		}
	}
}

func TestChecks(t *testing.T) {
	tests := []struct {
		name       string
		check      Check
		text       string
		violations int
	}{
		{"under length limit", MaxLength(10), "short", 0},
		{"over length limit", MaxLength(3), "toolong", 1},
		{"runes not bytes", MaxLength(3), "家と庭", 0},
		{"no hashtag", NoHashtags(), "clean text", 0},
		{"hashtag present", NoHashtags(), "spam #deal", 1},
		{"blocklist clean", Blocklist("corp", []string{"synergy"}), "fine", 0},
		{"blocklist hit", Blocklist("corp", []string{"synergy"}), "pure SYNERGY here", 1},
		{"paragraphs under", MaxParagraphCount(2), "one\n\ntwo", 0},
		{"paragraphs over", MaxParagraphCount(2), "a\n\nb\n\nc", 1},
		{"blank blocks ignored", MaxParagraphCount(2), "a\n\n\n\nb", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.check(tt.text)); got != tt.violations {
				t.Errorf("expected %d violations, got %d", tt.violations, got)
			}
		})
	}
}

func TestPipeline_StealthAddsBusinessCheck(t *testing.T) {
	shared := NewPipeline(testRules(), nil)
	stealth := NewPipeline(testRules(), []string{"my agency"})

	text := "talking about our clients today"
	if v := shared.Validate(text); len(v) != 0 {
		t.Errorf("non-stealth pipeline should not flag business words, got %v", v)
	}
	if v := stealth.Validate(text); len(v) == 0 {
		t.Error("stealth pipeline should flag business words")
	}
	if v := stealth.Validate("partnered with my agency"); len(v) == 0 {
		t.Error("stealth pipeline should flag persona extras")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("短い文章です", 3); got != "短い文" {
		t.Errorf("expected rune-safe truncation, got %q", got)
	}
	if got := Truncate("ok", 10); got != "ok" {
		t.Errorf("expected untouched text, got %q", got)
	}
}
