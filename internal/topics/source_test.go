package topics

import (
	"strings"
	"testing"
	"time"

	"threadcaster/internal/models"
)

type stubTrend struct {
	snapshot *models.TrendSnapshot
	err      error
}

func (s stubTrend) Load() (*models.TrendSnapshot, error) { return s.snapshot, s.err }

func TestCatalog_SeedKeysAreStable(t *testing.T) {
	c := NewCatalog(stubTrend{})
	now := time.Now()

	first, err := c.Topics(models.CategoryKnowhow, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected seed topics")
	}

	second, err := c.Topics(models.CategoryKnowhow, now.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i].Key != second[i].Key {
			t.Errorf("key changed across runs: %s vs %s", first[i].Key, second[i].Key)
		}
		if !strings.HasPrefix(first[i].Key, models.CategoryKnowhow+":") {
			t.Errorf("key missing category prefix: %s", first[i].Key)
		}
	}
}

func TestCatalog_UnknownCategory(t *testing.T) {
	c := NewCatalog(stubTrend{})
	if _, err := c.Topics("mystery", time.Now()); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestSeasonal_FollowsMonth(t *testing.T) {
	c := NewCatalog(stubTrend{})

	january := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	july := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)

	janTopics, err := c.Topics(models.CategorySeasonal, january)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	julTopics, err := c.Topics(models.CategorySeasonal, july)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(janTopics) == 0 || len(julTopics) == 0 {
		t.Fatal("every month needs seasonal seeds")
	}
	if !strings.Contains(janTopics[0].Key, ":m01-") {
		t.Errorf("january key wrong: %s", janTopics[0].Key)
	}
	if !strings.Contains(julTopics[0].Key, ":m07-") {
		t.Errorf("july key wrong: %s", julTopics[0].Key)
	}
	if janTopics[0].Key == julTopics[0].Key {
		t.Error("different months must produce different keys")
	}
}

func TestSeasonal_EveryMonthSeeded(t *testing.T) {
	for month := 1; month <= 12; month++ {
		if len(seasonalSeeds[month]) == 0 {
			t.Errorf("month %d has no seasonal seeds", month)
		}
	}
}

func TestTrend_FreshSnapshot(t *testing.T) {
	now := time.Now()
	provider := stubTrend{snapshot: &models.TrendSnapshot{
		FetchedAt: now.Add(-time.Hour),
		Keywords:  []models.TrendItem{{Keyword: "heat pump", Volume: 1200}, {Keyword: "balcony garden", Volume: 800}},
	}}

	c := NewCatalog(provider)
	topics, err := c.Topics(models.CategoryTrend, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 trend topics, got %d", len(topics))
	}
	if topics[0].Title != "heat pump" {
		t.Errorf("keyword not carried: %+v", topics[0])
	}
	if !TrendAvailable(provider, now) {
		t.Error("fresh snapshot should make trend available")
	}
}

func TestTrend_StaleOrMissingSnapshot(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		provider stubTrend
	}{
		{"no snapshot", stubTrend{}},
		{"stale snapshot", stubTrend{snapshot: &models.TrendSnapshot{
			FetchedAt: now.Add(-13 * time.Hour),
			Keywords:  []models.TrendItem{{Keyword: "x"}},
		}}},
		{"empty keywords", stubTrend{snapshot: &models.TrendSnapshot{FetchedAt: now}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog(tt.provider)
			topics, err := c.Topics(models.CategoryTrend, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(topics) != 0 {
				t.Errorf("expected no topics, got %d", len(topics))
			}
			if TrendAvailable(tt.provider, now) {
				t.Error("trend must be unavailable")
			}
		})
	}
}
