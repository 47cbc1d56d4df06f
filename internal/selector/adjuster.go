package selector

import (
	"math"
	"time"

	"threadcaster/internal/models"
)

const (
	// adjustWindow is the trailing window of history the adjuster learns from.
	adjustWindow = 30 * 24 * time.Hour

	// minCategoriesWithData and minSamplesPerCategory gate adjustment so a
	// handful of posts cannot dominate selection.
	minCategoriesWithData = 3
	minSamplesPerCategory = 2

	multiplierFloor = 0.5
	multiplierCeil  = 1.5
)

// Adjust folds harvested engagement back into the base category weights.
// It is a pure function of the supplied history: it performs no writes and
// is safe to call on every run.
func Adjust(base []models.Category, records []models.PostRecord, now time.Time) []models.Category {
	type stat struct {
		total   int
		samples int
	}
	stats := make(map[string]*stat)

	overallTotal := 0
	overallSamples := 0
	for _, rec := range records {
		if rec.Engagement == nil || rec.IsReply() {
			continue
		}
		if now.Sub(rec.Date) > adjustWindow {
			continue
		}
		s := stats[rec.Category]
		if s == nil {
			s = &stat{}
			stats[rec.Category] = s
		}
		s.total += rec.EngagementScore
		s.samples++
		overallTotal += rec.EngagementScore
		overallSamples++
	}

	adjusted := make([]models.Category, len(base))
	copy(adjusted, base)

	if len(stats) < minCategoriesWithData || overallSamples == 0 {
		return adjusted
	}
	overallAvg := float64(overallTotal) / float64(overallSamples)
	if overallAvg == 0 {
		return adjusted
	}

	for i, cat := range adjusted {
		s := stats[cat.ID]
		if s == nil || s.samples < minSamplesPerCategory {
			continue
		}
		categoryAvg := float64(s.total) / float64(s.samples)
		multiplier := clamp(categoryAvg/overallAvg, multiplierFloor, multiplierCeil)
		adjusted[i].Weight = int(math.Round(float64(cat.Weight) * multiplier))
	}

	return adjusted
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
