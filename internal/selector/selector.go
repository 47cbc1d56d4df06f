// Package selector chooses the category for one posting run: weighting
// policy, cooldown filtering and the weighted random draw.
package selector

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"threadcaster/internal/models"
)

// CategoryCooldown is how long a category stays ineligible after a post.
const CategoryCooldown = 24 * time.Hour

// Selector performs the per-run category choice.
type Selector struct {
	log *logrus.Entry

	// draw returns a threshold in [0, n). Injected so the boundary
	// behavior of the weighted draw is testable.
	draw func(n int) int
}

// New creates a selector with the default random source.
func New(log *logrus.Entry) *Selector {
	return &Selector{log: log, draw: rand.Intn}
}

// NewWithDraw creates a selector with an injected threshold source.
func NewWithDraw(log *logrus.Entry, draw func(n int) int) *Selector {
	return &Selector{log: log, draw: draw}
}

// Select picks a category. forcedID bypasses weighting and cooldown
// entirely; a trend category is dropped when no fresh trend signal exists;
// recentCategories carries the account's posts inside the cooldown window.
func (s *Selector) Select(
	categories []models.Category,
	policy WeightingPolicy,
	recentCategories map[string]bool,
	trendAvailable bool,
	forcedID string,
) (models.Category, error) {
	if forcedID != "" {
		for _, cat := range categories {
			if cat.ID == forcedID {
				s.log.WithField("category", cat.ID).Info("forced category selected")
				return cat, nil
			}
		}
		return models.Category{}, fmt.Errorf("forced category %q is not configured", forcedID)
	}

	weighted := policy.EffectiveWeights(categories)

	eligible := make([]models.Category, 0, len(weighted))
	for _, cat := range weighted {
		if cat.ID == models.CategoryTrend {
			if trendAvailable {
				// Trend is exempt from cooldown; every run targets a
				// different keyword.
				eligible = append(eligible, cat)
			}
			continue
		}
		if recentCategories[cat.ID] {
			continue
		}
		eligible = append(eligible, cat)
	}

	chosen, ok := s.weightedDraw(eligible)
	if ok {
		s.log.WithFields(logrus.Fields{"category": chosen.ID, "weight": chosen.Weight}).Info("category selected")
		return chosen, nil
	}

	// Everything is cooling down or zero-weighted after filtering.
	// Availability beats freshness: fall back to an unfiltered draw over
	// the non-zero-weight categories.
	fallback := make([]models.Category, 0, len(weighted))
	for _, cat := range weighted {
		if cat.Weight > 0 {
			fallback = append(fallback, cat)
		}
	}
	if len(fallback) == 0 {
		return models.Category{}, fmt.Errorf("no selectable categories")
	}
	chosen = fallback[s.draw(len(fallback))]
	s.log.WithField("category", chosen.ID).Warn("all categories filtered, unfiltered fallback used")
	return chosen, nil
}

// weightedDraw picks a candidate proportionally to weight. The threshold
// is drawn in [0, total) and each weight is subtracted in order; the first
// candidate that drives it strictly below zero wins, so a threshold landing
// exactly on a boundary goes to the next candidate. The final candidate is
// the hard fallback against arithmetic edge cases.
func (s *Selector) weightedDraw(candidates []models.Category) (models.Category, bool) {
	total := 0
	for _, cat := range candidates {
		total += cat.Weight
	}
	if total <= 0 {
		return models.Category{}, false
	}

	threshold := s.draw(total)
	for _, cat := range candidates {
		threshold -= cat.Weight
		if threshold < 0 {
			return cat, true
		}
	}
	return candidates[len(candidates)-1], true
}
