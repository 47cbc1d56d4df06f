// Package platform is the Threads Graph API client: container creation,
// status polling, publishing, reads of posts/replies/insights, keyword
// search and token upkeep.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	requestTimeout = 30 * time.Second

	// Transient platform failures retried with exponential backoff.
	maxRequestAttempts = 3
	initialBackoff     = 2 * time.Second

	// Insight responses barely move minute to minute; cache briefly so the
	// buzz cascade does not re-fetch the same post within one run.
	insightsCacheTTL = 5 * time.Minute
)

// APIError is a structured error returned by the platform.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether err is the platform's object-not-found answer,
// which during container polling means "not materialized yet".
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

func isTransient(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return true // transport error
	}
	return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
}

// Client talks to the Threads Graph API for one access token.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	insights    *cache.Cache
	log         *logrus.Entry
}

// NewClient creates a platform client. The limiter keeps every caller,
// including tight polling loops, under the platform rate budget.
func NewClient(baseURL, accessToken string, log *logrus.Entry) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: requestTimeout},
		limiter:     rate.NewLimiter(rate.Limit(2), 4),
		insights:    cache.New(insightsCacheTTL, 10*time.Minute),
		log:         log,
	}
}

// get performs a rate-limited GET with retry on transient failures.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, http.MethodGet, path, query, out)
}

// post performs a rate-limited POST with retry on transient failures.
func (c *Client) post(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, http.MethodPost, path, query, out)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, out any) error {
	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= maxRequestAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		err := c.doCall(ctx, method, path, query, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTransient(err) {
			return err
		}
		c.log.WithError(err).Warnf("platform call %s %s failed (attempt %d/%d)", method, path, attempt, maxRequestAttempts)
		if attempt < maxRequestAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
	}
	return fmt.Errorf("platform unavailable after %d attempts: %w", maxRequestAttempts, lastErr)
}

func (c *Client) doCall(ctx context.Context, method, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("access_token", c.accessToken)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var wrapper struct {
			Error APIError `json:"error"`
		}
		if jsonErr := json.Unmarshal(body, &wrapper); jsonErr == nil && wrapper.Error.Message != "" {
			wrapper.Error.StatusCode = resp.StatusCode
			return &wrapper.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// CheckToken verifies the access token against /me. The caller is expected
// to attempt one refresh when this fails.
func (c *Client) CheckToken(ctx context.Context) error {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, "/me", url.Values{"fields": {"id"}}, &out); err != nil {
		return fmt.Errorf("token check failed: %w", err)
	}
	return nil
}

// RefreshToken exchanges the current long-lived token for a fresh one and
// swaps it into the client.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	query := url.Values{"grant_type": {"th_refresh_token"}}
	if err := c.get(ctx, "/refresh_access_token", query, &out); err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("token refresh returned empty token")
	}
	c.accessToken = out.AccessToken
	c.log.Info("access token refreshed")
	return out.AccessToken, nil
}
