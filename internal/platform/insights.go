package platform

import (
	"context"
	"fmt"
	"net/url"

	"threadcaster/internal/models"
)

// Insights fetches the engagement metrics for one post. Responses are
// cached for a few minutes so a single run never double-fetches a post.
func (c *Client) Insights(ctx context.Context, postID string) (models.Engagement, error) {
	if cached, ok := c.insights.Get(postID); ok {
		return cached.(models.Engagement), nil
	}

	query := url.Values{"metric": {"views,likes,replies,reposts,quotes"}}
	var out struct {
		Data []struct {
			Name   string `json:"name"`
			Values []struct {
				Value int `json:"value"`
			} `json:"values"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/"+postID+"/insights", query, &out); err != nil {
		return models.Engagement{}, fmt.Errorf("failed to fetch insights for %s: %w", postID, err)
	}

	var e models.Engagement
	for _, metric := range out.Data {
		if len(metric.Values) == 0 {
			continue
		}
		v := metric.Values[0].Value
		switch metric.Name {
		case "views":
			e.Views = v
		case "likes":
			e.Likes = v
		case "replies":
			e.Replies = v
		case "reposts":
			e.Reposts = v
		case "quotes":
			e.Quotes = v
		}
	}

	c.insights.SetDefault(postID, e)
	return e, nil
}
