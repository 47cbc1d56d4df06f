package buzz

import (
	"testing"

	"threadcaster/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		views     int
		likes     int
		wantLevel models.BuzzLevel
		wantProb  float64
	}{
		{"viral by views", 5000, 0, models.BuzzViral, 1.0},
		{"viral by likes", 0, 20, models.BuzzViral, 1.0},
		{"hot by views", 2000, 0, models.BuzzHot, 0.8},
		{"hot by likes", 100, 10, models.BuzzHot, 0.8},
		{"warm by views only", 1000, 4, models.BuzzWarm, 0.5},
		{"warm by likes only", 999, 5, models.BuzzWarm, 0.5},
		{"baseline", 999, 4, models.BuzzBaseline, 0.2},
		{"zero engagement", 0, 0, models.BuzzBaseline, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := Classify(models.Engagement{Views: tt.views, Likes: tt.likes})
			if tier.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", tier.Level, tt.wantLevel)
			}
			if tier.Probability != tt.wantProb {
				t.Errorf("probability = %v, want %v", tier.Probability, tt.wantProb)
			}
		})
	}
}
