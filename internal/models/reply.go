package models

import "time"

// BuzzLevel classifies how viral a monitored post is. Levels are ordered
// highest-first; each carries a fixed reply probability.
type BuzzLevel string

const (
	BuzzViral    BuzzLevel = "viral"
	BuzzHot      BuzzLevel = "hot"
	BuzzWarm     BuzzLevel = "warm"
	BuzzBaseline BuzzLevel = "baseline"
)

// ReplyRecord is the reply-ledger entry for one buzz reply. The ledger
// exists for dedup and the daily cap; it is pruned at 90 days like history.
type ReplyRecord struct {
	Date            time.Time   `json:"date"`
	OriginalThread  string      `json:"originalThreadId"`
	OriginalAccount string      `json:"originalAccount"`
	ReplyText       string      `json:"replyText"`
	ReplyID         string      `json:"replyId"`
	BuzzLevel       BuzzLevel   `json:"buzzLevel"`
	Insights        *Engagement `json:"insights,omitempty"`
}

// TrendSnapshot is the shared, periodically refreshed trend signal.
// The trend category is only eligible while a snapshot is fresh.
type TrendSnapshot struct {
	FetchedAt time.Time   `json:"fetchedAt"`
	Keywords  []TrendItem `json:"keywords"`
}

// TrendItem is one trending keyword with its source volume.
type TrendItem struct {
	Keyword string `json:"keyword"`
	Volume  int    `json:"volume"`
}

// Fresh reports whether the snapshot is recent enough to drive a trend post.
func (t *TrendSnapshot) Fresh(now time.Time, maxAge time.Duration) bool {
	return t != nil && len(t.Keywords) > 0 && now.Sub(t.FetchedAt) <= maxAge
}
