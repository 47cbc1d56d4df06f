package platform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Container statuses returned by the platform while a creation is pending.
const (
	StatusInProgress = "IN_PROGRESS"
	StatusFinished   = "FINISHED"
	StatusError      = "ERROR"
	StatusPublished  = "PUBLISHED"
	StatusExpired    = "EXPIRED"
)

// ContainerState is the poll answer for a creation container.
type ContainerState struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Post is a platform post as returned by the read endpoints.
type Post struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Username  string    `json:"username"`
	Permalink string    `json:"permalink"`
	Timestamp time.Time `json:"-"`

	// RawTimestamp carries the platform's ISO8601 string; Timestamp is
	// derived after decoding.
	RawTimestamp string `json:"timestamp"`
}

// CreateContainer submits text (and, for replies, the target post) to the
// container-creation endpoint and returns the container handle.
func (c *Client) CreateContainer(ctx context.Context, userID, text, replyToID string) (string, error) {
	query := url.Values{
		"media_type": {"TEXT"},
		"text":       {text},
	}
	if replyToID != "" {
		query.Set("reply_to_id", replyToID)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/"+userID+"/threads", query, &out); err != nil {
		return "", fmt.Errorf("container creation failed: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("container creation returned no id")
	}
	return out.ID, nil
}

// ContainerStatus queries a container handle. A not-found answer is passed
// through as such so the publisher can treat it as "not materialized yet".
func (c *Client) ContainerStatus(ctx context.Context, containerID string) (ContainerState, error) {
	var out ContainerState
	query := url.Values{"fields": {"status,error_message"}}
	if err := c.get(ctx, "/"+containerID, query, &out); err != nil {
		return ContainerState{}, err
	}
	return out, nil
}

// PublishContainer publishes a finished container and returns the final
// post id.
func (c *Client) PublishContainer(ctx context.Context, userID, containerID string) (string, error) {
	query := url.Values{"creation_id": {containerID}}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/"+userID+"/threads_publish", query, &out); err != nil {
		return "", fmt.Errorf("publish failed: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("publish returned no post id")
	}
	return out.ID, nil
}

// RecentPosts returns a user's posts newer than since, newest first.
func (c *Client) RecentPosts(ctx context.Context, userID string, since time.Time, limit int) ([]Post, error) {
	query := url.Values{
		"fields": {"id,text,username,permalink,timestamp"},
		"since":  {strconv.FormatInt(since.Unix(), 10)},
		"limit":  {strconv.Itoa(limit)},
	}
	var out struct {
		Data []Post `json:"data"`
	}
	if err := c.get(ctx, "/"+userID+"/threads", query, &out); err != nil {
		return nil, fmt.Errorf("failed to read recent posts: %w", err)
	}
	decodeTimestamps(out.Data)
	return out.Data, nil
}

// Replies returns the replies to a post.
func (c *Client) Replies(ctx context.Context, postID string) ([]Post, error) {
	query := url.Values{"fields": {"id,text,username,timestamp"}}
	var out struct {
		Data []Post `json:"data"`
	}
	if err := c.get(ctx, "/"+postID+"/replies", query, &out); err != nil {
		return nil, fmt.Errorf("failed to read replies: %w", err)
	}
	decodeTimestamps(out.Data)
	return out.Data, nil
}

// KeywordSearch returns posts matching a keyword inside a time window.
func (c *Client) KeywordSearch(ctx context.Context, keyword string, since, until time.Time) ([]Post, error) {
	query := url.Values{
		"q":      {keyword},
		"fields": {"id,text,username,timestamp"},
		"since":  {strconv.FormatInt(since.Unix(), 10)},
		"until":  {strconv.FormatInt(until.Unix(), 10)},
	}
	var out struct {
		Data []Post `json:"data"`
	}
	if err := c.get(ctx, "/keyword_search", query, &out); err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	decodeTimestamps(out.Data)
	return out.Data, nil
}

func decodeTimestamps(posts []Post) {
	for i := range posts {
		if posts[i].RawTimestamp == "" {
			continue
		}
		if ts, err := time.Parse("2006-01-02T15:04:05-0700", posts[i].RawTimestamp); err == nil {
			posts[i].Timestamp = ts
		}
	}
}
