// Package search holds thin clients for the external search and news APIs queried by probes and source lookup.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/credence/internal/worker"
)

// maxResponseBytes bounds API response bodies
const maxResponseBytes = 4 << 20

// Hit is one search or news result
type Hit struct {
	Title     string
	URL       string
	Snippet   string
	Source    string // display domain or publication name
	Published time.Time
	Rank      int // zero-based position in the result list
}

// Searcher runs a free-text query against one backend
type Searcher interface {
	Name() string
	Configured() bool
	Search(ctx context.Context, query string) ([]Hit, error)
}

// Client is shared by the backends
type Client struct {
	HTTP      *http.Client
	Limiter   *worker.Limiter
	UserAgent string
}

func (c Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// getJSON performs a rate-limited GET and decodes a JSON body into out.
// Non-2xx responses are returned as errors including any API error message.
func (c Client) getJSON(ctx context.Context, reqURL string, headers map[string]string, out any, apiErr func([]byte) string) error {
	if err := c.Limiter.Wait(ctx, reqURL); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		if apiErr != nil {
			msg = apiErr(body)
		}
		if msg != "" {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
