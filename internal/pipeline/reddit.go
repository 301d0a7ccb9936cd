package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/worker"
)

// PostSource fetches a structured social post
type PostSource interface {
	Fetch(ctx context.Context, rawURL string) (*model.PostData, error)
}

// RedditFetcher reads a post and its top-level comments from Reddit's public JSON view
type RedditFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
}

// NewRedditFetcher creates a post fetcher. limiter may be nil.
func NewRedditFetcher(cfg model.HTTPConfig, limiter *worker.Limiter) *RedditFetcher {
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}
	return &RedditFetcher{
		httpClient: newHTTPClient(cfg),
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		limiter:    limiter,
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Subreddit  string  `json:"subreddit"`
	Author     string  `json:"author"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

type redditComment struct {
	ID         string  `json:"id"`
	Body       string  `json:"body"`
	Author     string  `json:"author"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

// Fetch retrieves the post at rawURL
func (f *RedditFetcher) Fetch(ctx context.Context, rawURL string) (*model.PostData, error) {
	jsonURL, err := redditJSONURL(rawURL)
	if err != nil {
		return nil, err
	}

	if err := f.limiter.Wait(ctx, jsonURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jsonURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return decodeRedditThread(body)
}

// redditJSONURL appends .json to the post path, dropping query and fragment
func redditJSONURL(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid post URL: %q", rawURL)
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	if !strings.HasSuffix(parsed.Path, ".json") {
		parsed.Path += ".json"
	}
	parsed.RawPath = ""
	return parsed.String(), nil
}

// decodeRedditThread decodes the two-listing array Reddit returns for a thread
func decodeRedditThread(body []byte) (*model.PostData, error) {
	var listings []redditListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("decode thread: %w", err)
	}
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return nil, fmt.Errorf("decode thread: no post found")
	}

	var p redditPost
	if err := json.Unmarshal(listings[0].Data.Children[0].Data, &p); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}

	post := &model.PostData{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Selftext,
		Subreddit: p.Subreddit,
		Author:    p.Author,
		Score:     p.Score,
		Created:   unixTime(p.CreatedUTC),
		Comments:  []model.Comment{},
	}

	if len(listings) < 2 {
		return post, nil
	}

	for _, child := range listings[1].Data.Children {
		// "more" placeholders carry no body
		if child.Kind != "t1" {
			continue
		}
		var c redditComment
		if err := json.Unmarshal(child.Data, &c); err != nil {
			continue
		}
		if c.Body == "" || c.Body == "[deleted]" || c.Body == "[removed]" {
			continue
		}
		post.Comments = append(post.Comments, model.Comment{
			ID:      c.ID,
			Content: c.Body,
			Author:  c.Author,
			Score:   c.Score,
			Created: unixTime(c.CreatedUTC),
		})
	}

	return post, nil
}

func unixTime(seconds float64) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(seconds), 0).UTC()
}
