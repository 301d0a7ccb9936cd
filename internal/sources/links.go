package sources

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

const defaultLinkWorkers = 8

// LinkChecker drops source records whose URL no longer resolves
type LinkChecker struct {
	httpClient *http.Client
	userAgent  string
	maxWorkers int
}

// NewLinkChecker creates a checker. A nil client gets a 5s timeout and a 3-redirect cap.
func NewLinkChecker(client *http.Client, userAgent string, maxWorkers int) *LinkChecker {
	if client == nil {
		client = &http.Client{
			Timeout: 5 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		}
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultLinkWorkers
	}
	return &LinkChecker{httpClient: client, userAgent: userAgent, maxWorkers: maxWorkers}
}

// Filter checks every record concurrently and keeps the live ones in their original order
func (c *LinkChecker) Filter(ctx context.Context, records []model.SourceRecord) []model.SourceRecord {
	if len(records) == 0 {
		return records
	}

	alive := make([]bool, len(records))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, c.maxWorkers)

	for i, r := range records {
		wg.Add(1)
		go func(idx int, rawURL string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			alive[idx] = c.Alive(ctx, rawURL)
		}(i, r.URL)
	}
	wg.Wait()

	kept := make([]model.SourceRecord, 0, len(records))
	for i, r := range records {
		if alive[i] {
			kept = append(kept, r)
		}
	}
	return kept
}

// Alive sends a HEAD request. Only network failures and 404/410 count as dead,
// since many servers reject HEAD or bots with other codes.
func (c *LinkChecker) Alive(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusGone
}
