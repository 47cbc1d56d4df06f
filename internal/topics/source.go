// Package topics produces topic candidates per category. Sources are
// stateless per call: static seed tables for the evergreen categories and
// the shared trend snapshot for the trend category.
package topics

import (
	"fmt"
	"time"

	"threadcaster/internal/models"
)

// Source yields the current topic candidates for one category.
type Source interface {
	Topics(now time.Time) ([]models.Topic, error)
}

// Catalog maps category ids to their sources.
type Catalog struct {
	sources map[string]Source
}

// NewCatalog builds the default catalog over the seed tables and the
// trend snapshot.
func NewCatalog(trend TrendProvider) *Catalog {
	return &Catalog{
		sources: map[string]Source{
			models.CategoryKnowhow:  seedSource{category: models.CategoryKnowhow, entries: knowhowSeeds},
			models.CategorySeasonal: seasonalSource{},
			models.CategoryArea:     seedSource{category: models.CategoryArea, entries: areaSeeds},
			models.CategoryQA:       seedSource{category: models.CategoryQA, entries: qaSeeds},
			models.CategoryTrend:    trendSource{provider: trend},
		},
	}
}

// Topics returns the candidates for a category. An unknown category is a
// configuration error; an empty result just degrades the candidate set.
func (c *Catalog) Topics(categoryID string, now time.Time) ([]models.Topic, error) {
	src, ok := c.sources[categoryID]
	if !ok {
		return nil, fmt.Errorf("no topic source for category %q", categoryID)
	}
	return src.Topics(now)
}

// seedEntry is one evergreen content seed.
type seedEntry struct {
	id    string
	title string
	body  string
}

// seedSource serves a static table. Topic keys are stable across runs so
// the 14-day dedup window works.
type seedSource struct {
	category string
	entries  []seedEntry
}

func (s seedSource) Topics(time.Time) ([]models.Topic, error) {
	out := make([]models.Topic, 0, len(s.entries))
	for i, e := range s.entries {
		out = append(out, models.Topic{
			Key:      fmt.Sprintf("%s:%s:%d", s.category, e.id, i),
			Category: s.category,
			Title:    e.title,
			Body:     e.body,
			Source:   "seed",
		})
	}
	return out, nil
}

// seasonalSource serves the current month's slice of the seasonal table.
type seasonalSource struct{}

func (seasonalSource) Topics(now time.Time) ([]models.Topic, error) {
	month := int(now.Month())
	entries := seasonalSeeds[month]
	out := make([]models.Topic, 0, len(entries))
	for i, e := range entries {
		out = append(out, models.Topic{
			Key:      fmt.Sprintf("%s:m%02d-%s:%d", models.CategorySeasonal, month, e.id, i),
			Category: models.CategorySeasonal,
			Title:    e.title,
			Body:     e.body,
			Source:   "seasonal",
		})
	}
	return out, nil
}

// TrendProvider supplies the shared trend snapshot read.
type TrendProvider interface {
	Load() (*models.TrendSnapshot, error)
}

// trendSource turns trend keywords into topics. An empty or stale
// snapshot yields no candidates.
type trendSource struct {
	provider TrendProvider
}

// trendMaxAge bounds how old a snapshot may be and still drive a post.
const trendMaxAge = 12 * time.Hour

func (t trendSource) Topics(now time.Time) ([]models.Topic, error) {
	snapshot, err := t.provider.Load()
	if err != nil {
		return nil, err
	}
	if !snapshot.Fresh(now, trendMaxAge) {
		return nil, nil
	}

	out := make([]models.Topic, 0, len(snapshot.Keywords))
	for i, kw := range snapshot.Keywords {
		out = append(out, models.Topic{
			Key:      fmt.Sprintf("%s:%s:%d", models.CategoryTrend, snapshot.FetchedAt.Format("20060102"), i),
			Category: models.CategoryTrend,
			Title:    kw.Keyword,
			Body:     fmt.Sprintf("Trending now with roughly %d mentions.", kw.Volume),
			Source:   "trend",
		})
	}
	return out, nil
}

// TrendAvailable reports whether the trend category can run this invocation.
func TrendAvailable(provider TrendProvider, now time.Time) bool {
	snapshot, err := provider.Load()
	if err != nil {
		return false
	}
	return snapshot.Fresh(now, trendMaxAge)
}
