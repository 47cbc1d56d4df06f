package models

import (
	"testing"
	"time"
)

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		name string
		e    Engagement
		want int
	}{
		{"zero", Engagement{}, 0},
		{"likes only", Engagement{Likes: 7}, 7},
		{"replies weigh four", Engagement{Replies: 3}, 12},
		{"reposts weigh two", Engagement{Reposts: 5}, 10},
		{"quotes weigh three", Engagement{Quotes: 2}, 6},
		{"mixed", Engagement{Likes: 10, Replies: 2, Reposts: 1, Quotes: 1}, 23},
		{"views never count", Engagement{Views: 100000}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Score(); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPostRecordIDKinds(t *testing.T) {
	real := PostRecord{PlatformPostID: "17900012345"}
	if !real.HasRealPostID() || real.IsDryRun() {
		t.Errorf("platform id misclassified: %+v", real)
	}

	dry := PostRecord{PlatformPostID: DryRunIDPrefix + "abc"}
	if dry.HasRealPostID() || !dry.IsDryRun() {
		t.Errorf("dry-run id misclassified: %+v", dry)
	}

	empty := PostRecord{}
	if empty.HasRealPostID() || empty.IsDryRun() {
		t.Errorf("empty id misclassified: %+v", empty)
	}
}

func TestSetEngagement(t *testing.T) {
	var rec PostRecord
	at := time.Now()
	rec.SetEngagement(Engagement{Likes: 4, Replies: 1}, at)

	if rec.Engagement == nil || rec.Engagement.Likes != 4 {
		t.Fatalf("snapshot not stored: %+v", rec)
	}
	if rec.EngagementScore != 8 {
		t.Errorf("score = %d, want 8", rec.EngagementScore)
	}
	if rec.EngagementUpdatedAt == nil || !rec.EngagementUpdatedAt.Equal(at) {
		t.Errorf("timestamp not stored: %+v", rec.EngagementUpdatedAt)
	}
}
