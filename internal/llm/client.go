// Package llm is the client for the text generation service: a single
// OpenAI-compatible chat-completions call per request, no streaming.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	requestTimeout = 60 * time.Second

	// Transient failures are retried with exponential backoff.
	maxRequestAttempts = 3
	initialBackoff     = 2 * time.Second
)

// Client calls the generation service.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *logrus.Entry
}

// NewClient creates a generation service client.
func NewClient(baseURL, apiKey, model string, log *logrus.Entry) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user prompt pair and returns the generated text.
// 5xx responses and transport errors are retried with backoff; 4xx responses
// are returned immediately.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream:      false,
		Temperature: 0.9,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= maxRequestAttempts; attempt++ {
		text, retryable, err := c.doRequest(ctx, reqBody)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		c.log.WithError(err).Warnf("generation request failed (attempt %d/%d)", attempt, maxRequestAttempts)
		if attempt < maxRequestAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			backoff *= 2
		}
	}
	return "", fmt.Errorf("generation service unavailable after %d attempts: %w", maxRequestAttempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, reqBody []byte) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("generation API error (status %d): %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("generation API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResponse chatResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", false, fmt.Errorf("failed to parse API response: %w", err)
	}
	if len(apiResponse.Choices) == 0 {
		return "", false, fmt.Errorf("no choices in generation response")
	}

	return apiResponse.Choices[0].Message.Content, false, nil
}
