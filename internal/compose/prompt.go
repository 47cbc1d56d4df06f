package compose

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"threadcaster/internal/models"
	"threadcaster/internal/topics"
)

// TopicCooldown is the dedup window for topic keys.
const TopicCooldown = 14 * 24 * time.Hour

// Prompt is a fully assembled generation request.
type Prompt struct {
	System   string
	User     string
	Topic    models.Topic
	Category models.Category
}

// PromptBuilder assembles prompts per category, folding in recent-post
// context and past high performers. When a category's topic pool is fully
// inside the dedup window it redirects once to the configured fallback
// category; the fallback table is data, so the redirect graph stays
// auditable and cannot recurse.
type PromptBuilder struct {
	catalog    *topics.Catalog
	fallbacks  map[string]string
	categories map[string]models.Category
	draw       func(int) int
	log        *logrus.Entry
}

// NewPromptBuilder creates a prompt builder over the topic catalog.
func NewPromptBuilder(catalog *topics.Catalog, categories []models.Category, fallbacks map[string]string, log *logrus.Entry) *PromptBuilder {
	index := make(map[string]models.Category, len(categories))
	for _, cat := range categories {
		index[cat.ID] = cat
	}
	return &PromptBuilder{
		catalog:    catalog,
		fallbacks:  fallbacks,
		categories: index,
		draw:       rand.Intn,
		log:        log,
	}
}

// Build picks a fresh topic for the category and assembles the prompt.
// history is the account's full post history, used for the topic dedup
// window, the recent-post context and the high-performer examples.
func (b *PromptBuilder) Build(account *models.Account, category models.Category, history []models.PostRecord, now time.Time) (*Prompt, error) {
	topic, usedCategory, err := b.pickTopic(category, history, now, true)
	if err != nil {
		return nil, err
	}

	return &Prompt{
		System:   b.systemPrompt(account),
		User:     b.userPrompt(account, topic, history, now),
		Topic:    topic,
		Category: usedCategory,
	}, nil
}

// pickTopic chooses a random topic outside the dedup window. allowRedirect
// bounds the fallback to a single hop.
func (b *PromptBuilder) pickTopic(category models.Category, history []models.PostRecord, now time.Time, allowRedirect bool) (models.Topic, models.Category, error) {
	candidates, err := b.catalog.Topics(category.ID, now)
	if err != nil {
		return models.Topic{}, models.Category{}, err
	}

	used := make(map[string]bool)
	for _, rec := range history {
		if now.Sub(rec.Date) <= TopicCooldown {
			used[rec.TopicKey] = true
		}
	}

	fresh := candidates[:0:0]
	for _, t := range candidates {
		if !used[t.Key] {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) > 0 {
		return fresh[b.draw(len(fresh))], category, nil
	}

	if allowRedirect {
		if fallbackID, ok := b.fallbacks[category.ID]; ok {
			fallback, ok := b.categories[fallbackID]
			if ok {
				b.log.WithFields(logrus.Fields{"from": category.ID, "to": fallbackID}).Info("topic pool exhausted, redirecting category")
				return b.pickTopic(fallback, history, now, false)
			}
		}
	}

	return models.Topic{}, models.Category{}, fmt.Errorf("no fresh topic for category %s within the dedup window", category.ID)
}

func (b *PromptBuilder) systemPrompt(account *models.Account) string {
	var sb strings.Builder
	sb.WriteString("You write short social posts for a home-and-living account. ")
	sb.WriteString("Voice: a knowledgeable friend, concrete and a little wry. ")
	sb.WriteString("Never sales-y, never corporate. No hashtags, no links, no emoji (they are added later).")

	if account.Stealth && account.Persona != nil {
		sb.WriteString(" This account is a private individual sharing personal observations; ")
		sb.WriteString("it must never read like a company or a promotion.")
		if limit := pickLengthTarget(account.Persona, b.draw); limit > 0 {
			fmt.Fprintf(&sb, " Keep it under roughly %d characters.", limit)
		}
	}
	return sb.String()
}

func (b *PromptBuilder) userPrompt(account *models.Account, topic models.Topic, history []models.PostRecord, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write one post about: %s\n", topic.Title)
	if topic.Body != "" {
		fmt.Fprintf(&sb, "Angle to work from: %s\n", topic.Body)
	}

	if recent := recentTexts(history, 3); len(recent) > 0 {
		sb.WriteString("\nRecent posts, do not repeat their phrasing or structure:\n")
		for _, t := range recent {
			fmt.Fprintf(&sb, "- %s\n", firstLine(t))
		}
	}

	if best := topPerformers(history, 2, now); len(best) > 0 {
		sb.WriteString("\nThese past posts landed well, match their energy:\n")
		for _, t := range best {
			fmt.Fprintf(&sb, "- %s\n", firstLine(t))
		}
	}

	fmt.Fprintf(&sb, "\nHard limit %d characters.", MaxPostChars)
	return sb.String()
}

// recentTexts returns the newest n non-reply post texts.
func recentTexts(history []models.PostRecord, n int) []string {
	var out []string
	for i := len(history) - 1; i >= 0 && len(out) < n; i-- {
		if !history[i].IsReply() {
			out = append(out, history[i].Text)
		}
	}
	return out
}

// topPerformers returns the texts of the highest-scoring posts from the
// last 30 days.
func topPerformers(history []models.PostRecord, n int, now time.Time) []string {
	var scored []models.PostRecord
	for _, rec := range history {
		if rec.Engagement != nil && !rec.IsReply() && now.Sub(rec.Date) <= 30*24*time.Hour && rec.EngagementScore > 0 {
			scored = append(scored, rec)
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].EngagementScore > scored[j].EngagementScore
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	out := make([]string, 0, len(scored))
	for _, rec := range scored {
		out = append(out, rec.Text)
	}
	return out
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	return Truncate(text, 120)
}

// pickLengthTarget draws a target length from the persona's distribution.
func pickLengthTarget(persona *models.Persona, draw func(int) int) int {
	total := 0
	for _, band := range persona.LengthDistribution {
		total += band.Weight
	}
	if total <= 0 {
		return 0
	}
	threshold := draw(total)
	for _, band := range persona.LengthDistribution {
		threshold -= band.Weight
		if threshold < 0 {
			return band.MaxChars
		}
	}
	return persona.LengthDistribution[len(persona.LengthDistribution)-1].MaxChars
}
