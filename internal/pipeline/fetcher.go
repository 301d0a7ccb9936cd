package pipeline

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/util"
	"github.com/ppiankov/credence/internal/worker"
)

const maxRedirects = 3

// PageSource fetches the readable content of a web page
type PageSource interface {
	Fetch(ctx context.Context, rawURL string) (*model.WebContent, error)
}

// PageFetcher fetches HTML pages and extracts their text and metadata
type PageFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker // nil when robots.txt is ignored
	limiter    *worker.Limiter
	extractor  *extract.PageExtractor
	delayed    sync.Map // hosts whose crawl delay was applied to the limiter
}

// NewPageFetcher creates a page fetcher from the HTTP configuration.
// limiter may be nil.
func NewPageFetcher(cfg model.HTTPConfig, limiter *worker.Limiter) *PageFetcher {
	client := newHTTPClient(cfg)

	f := &PageFetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		limiter:    limiter,
		extractor:  extract.NewPageExtractor(),
	}
	if f.maxBytes <= 0 {
		f.maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, client, cfg.Timeout)
	}
	return f
}

// newHTTPClient builds the proxied, redirect-capped client shared by the fetchers
func newHTTPClient(cfg model.HTTPConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// Fetch retrieves rawURL and returns its visible text and metadata
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (*model.WebContent, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: %q", rawURL)
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots.txt: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
		if delay > 0 && f.limiter != nil {
			if _, seen := f.delayed.LoadOrStore(parsed.Host, true); !seen {
				f.limiter.SetHostRate(parsed.Host, 1/delay.Seconds(), 1)
			}
		}
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	content := &model.WebContent{FinalURL: resp.Request.URL.String()}

	if !isHTML(resp.Header.Get("Content-Type")) {
		content.Text = strings.Join(strings.Fields(string(body)), " ")
		return content, nil
	}

	page, err := f.extractor.ExtractFrom(content.FinalURL, string(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	content.Title = page.Title
	content.Text = page.Text
	content.Author = page.Author
	content.PublishDate = page.PublishDate
	return content, nil
}

// isHTML treats a missing Content-Type as HTML
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
