// Package compose turns a selected category and topic into validated post
// text: prompt assembly, the generation loop and the house-style ruleset.
package compose

import (
	"fmt"
	"math/rand"
	"strings"

	"threadcaster/internal/config"
)

const (
	// MaxPostChars is the platform's text limit.
	MaxPostChars = 500

	// MaxParagraphs keeps posts from reading like press releases.
	MaxParagraphs = 5
)

// Violation is one failed validation rule.
type Violation struct {
	Rule   string
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Detail)
}

// Transform is a pure text rewrite applied before validation.
type Transform func(string) string

// Check is a pure validation predicate.
type Check func(string) []Violation

// Pipeline is the ordered normalization and validation chain. The ruleset
// is data: word lists come from the YAML config, not from code.
type Pipeline struct {
	transforms []Transform
	checks     []Check
}

// NewPipeline builds the pipeline for one account. Stealth accounts get the
// extra "sounds like a business" check on top of the shared rules.
func NewPipeline(rules config.RuleSet, stealthExtra []string) *Pipeline {
	p := &Pipeline{
		transforms: []Transform{
			StripPhrases(rules.StiltedConnectors),
			PrependEmoji(rules.EmojiPalette, rand.Intn),
		},
		checks: []Check{
			MaxLength(MaxPostChars),
			NoHashtags(),
			Blocklist("corporate", rules.CorporateWords),
			Blocklist("promotional", rules.PromotionalWords),
			Blocklist("jargon", rules.JargonWords),
			MaxParagraphCount(MaxParagraphs),
		},
	}
	if stealthExtra != nil {
		merged := append(append([]string{}, rules.BusinessWords...), stealthExtra...)
		p.checks = append(p.checks, Blocklist("business", merged))
	}
	return p
}

// Normalize applies the transform chain.
func (p *Pipeline) Normalize(text string) string {
	for _, t := range p.transforms {
		text = t(text)
	}
	return strings.TrimSpace(text)
}

// Validate runs every check and returns all violations.
func (p *Pipeline) Validate(text string) []Violation {
	var violations []Violation
	for _, c := range p.checks {
		violations = append(violations, c(text)...)
	}
	return violations
}

// StripPhrases removes stilted connector phrases anywhere in the text.
func StripPhrases(phrases []string) Transform {
	return func(text string) string {
		for _, phrase := range phrases {
			text = strings.ReplaceAll(text, phrase, "")
		}
		// Collapse doubled spaces left behind by removals.
		for strings.Contains(text, "  ") {
			text = strings.ReplaceAll(text, "  ", " ")
		}
		return text
	}
}

// PrependEmoji prefixes 1-2 emoji from the palette, skipped when the text
// already contains emoji. draw is injected for deterministic tests.
func PrependEmoji(palette []string, draw func(int) int) Transform {
	return func(text string) string {
		if len(palette) == 0 || ContainsEmoji(text) {
			return text
		}
		count := 1 + draw(2)
		var b strings.Builder
		for i := 0; i < count; i++ {
			b.WriteString(palette[draw(len(palette))])
		}
		b.WriteString(" ")
		b.WriteString(text)
		return b.String()
	}
}

// ContainsEmoji reports whether text already carries emoji characters.
func ContainsEmoji(text string) bool {
	for _, r := range text {
		if (r >= 0x1F300 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF) || r == 0x2764 {
			return true
		}
	}
	return false
}

// MaxLength rejects text over the rune limit.
func MaxLength(limit int) Check {
	return func(text string) []Violation {
		if n := len([]rune(text)); n > limit {
			return []Violation{{Rule: "max-length", Detail: fmt.Sprintf("%d chars over the %d limit", n-limit, limit)}}
		}
		return nil
	}
}

// NoHashtags rejects any hashtag marker; the platform penalizes them.
func NoHashtags() Check {
	return func(text string) []Violation {
		if strings.Contains(text, "#") {
			return []Violation{{Rule: "hashtag", Detail: "contains a hashtag marker"}}
		}
		return nil
	}
}

// Blocklist rejects text containing any listed token, case-insensitively.
func Blocklist(name string, words []string) Check {
	return func(text string) []Violation {
		lower := strings.ToLower(text)
		var violations []Violation
		for _, w := range words {
			if w == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(w)) {
				violations = append(violations, Violation{Rule: name, Detail: fmt.Sprintf("contains %q", w)})
			}
		}
		return violations
	}
}

// MaxParagraphCount rejects text with too many paragraphs.
func MaxParagraphCount(limit int) Check {
	return func(text string) []Violation {
		paragraphs := 0
		for _, block := range strings.Split(text, "\n\n") {
			if strings.TrimSpace(block) != "" {
				paragraphs++
			}
		}
		if paragraphs > limit {
			return []Violation{{Rule: "paragraphs", Detail: fmt.Sprintf("%d paragraphs, limit %d", paragraphs, limit)}}
		}
		return nil
	}
}

// Truncate cuts text to the rune limit, used for the non-stealth
// best-effort delivery after validation attempts are exhausted.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
