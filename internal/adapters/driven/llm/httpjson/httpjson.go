// Package httpjson is the JSON-over-HTTP plumbing shared by the LLM adapters.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// maxErrorBody caps how much of an error response ends up in the error message.
const maxErrorBody = 512

// Client sends JSON requests to one provider's API.
type Client struct {
	provider string
	baseURL  string
	headers  map[string]string
	http     *http.Client
}

// New creates a client. Headers are sent with every request.
func New(provider, baseURL string, timeout time.Duration, headers map[string]string) *Client {
	return &Client{
		provider: provider,
		baseURL:  baseURL,
		headers:  headers,
		http:     &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post sends body as JSON to path and decodes a 200 response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", c.provider, err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), out)
}

// Get requests path and decodes a 200 response into out. A nil out discards the body.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, http.NoBody, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.provider, err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: send request: %w", c.provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.provider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	return nil
}

func (c *Client) statusError(status int, body []byte) error {
	msg := string(body)
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w (status %d): %s", c.provider, domain.ErrAuthInvalid, status, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w: %s", c.provider, domain.ErrRateLimited, msg)
	default:
		return fmt.Errorf("%s: API returned status %d: %s", c.provider, status, msg)
	}
}
