package models

import "time"

// Engagement is a point-in-time metrics snapshot for a published post.
// Each refresh overwrites the previous snapshot wholesale.
type Engagement struct {
	Views   int `json:"views"`
	Likes   int `json:"likes"`
	Replies int `json:"replies"`
	Reposts int `json:"reposts"`
	Quotes  int `json:"quotes"`
}

// Score computes the weighted engagement score used as the learning signal.
// Replies weigh heaviest because they indicate real conversation.
func (e Engagement) Score() int {
	return e.Replies*4 + e.Reposts*2 + e.Quotes*3 + e.Likes
}

// PostRecord is the persisted history entry for one published (or dry-run) post.
// Immutable after creation except for the engagement backfill fields.
type PostRecord struct {
	Date           time.Time `json:"date"`
	Account        string    `json:"account"`
	Category       string    `json:"category"`
	TopicKey       string    `json:"topicKey"`
	Text           string    `json:"text"`
	PlatformPostID string    `json:"platformPostId"`
	CharCount      int       `json:"charCount"`

	// Backfilled by the engagement collector once metrics settle.
	Engagement          *Engagement `json:"engagement,omitempty"`
	EngagementScore     int         `json:"engagementScore,omitempty"`
	EngagementUpdatedAt *time.Time  `json:"engagementUpdatedAt,omitempty"`

	// Set when this record is itself a reply to another post.
	RepliedTo string `json:"repliedTo,omitempty"`
}

// IsReply reports whether this record was published as a reply.
func (p PostRecord) IsReply() bool {
	return p.RepliedTo != ""
}

// HasRealPostID reports whether the record carries a platform-issued id,
// as opposed to a dry-run placeholder.
func (p PostRecord) HasRealPostID() bool {
	return p.PlatformPostID != "" && !p.IsDryRun()
}

// IsDryRun reports whether the record came from a dry-run invocation.
func (p PostRecord) IsDryRun() bool {
	return len(p.PlatformPostID) >= len(DryRunIDPrefix) && p.PlatformPostID[:len(DryRunIDPrefix)] == DryRunIDPrefix
}

// DryRunIDPrefix marks post ids minted locally when publishing is suppressed.
const DryRunIDPrefix = "dryrun-"

// SetEngagement stores a fresh snapshot and recomputes the derived score.
// The score is never written independently of the snapshot it came from.
func (p *PostRecord) SetEngagement(e Engagement, at time.Time) {
	p.Engagement = &e
	p.EngagementScore = e.Score()
	p.EngagementUpdatedAt = &at
}
