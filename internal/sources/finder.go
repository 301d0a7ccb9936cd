// Package sources finds supplementary source records to attach to an analysis result.
package sources

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/credence/internal/credibility"
	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/search"
)

// MaxSources caps the records attached to a result
const MaxSources = 5

const (
	searchTimeout = 10 * time.Second
	excerptLen    = 200
	queryLen      = 100
)

// Lookup is one searcher together with the origin label its records carry
type Lookup struct {
	Origin   string // news, factcheck, academic
	Searcher search.Searcher
}

// Finder queries every configured searcher and merges their hits
type Finder struct {
	lookups   []Lookup
	table     *credibility.Table
	extractor *extract.ClaimExtractor
	limit     int
	links     *LinkChecker // Optional dead-link filter
	logger    *slog.Logger
	now       func() time.Time
}

// NewFinder creates a finder. A limit outside 1..MaxSources uses MaxSources.
func NewFinder(lookups []Lookup, table *credibility.Table, limit int, logger *slog.Logger) *Finder {
	if table == nil {
		table = credibility.Default()
	}
	if limit <= 0 || limit > MaxSources {
		limit = MaxSources
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{
		lookups:   lookups,
		table:     table,
		extractor: extract.NewClaimExtractor(),
		limit:     limit,
		logger:    logger,
		now:       time.Now,
	}
}

// Find returns at most limit records deduplicated by URL. Searchers run
// concurrently and each failure is logged and skipped. When nothing is found
// the two default reference sources are returned.
func (f *Finder) Find(ctx context.Context, content string) []model.SourceRecord {
	query := f.query(content)

	var active []Lookup
	for _, l := range f.lookups {
		if l.Searcher != nil && l.Searcher.Configured() {
			active = append(active, l)
		}
	}
	if query == "" || len(active) == 0 {
		return DefaultSources(f.now())
	}

	found := make([][]search.Hit, len(active))
	var wg sync.WaitGroup
	for i, l := range active {
		wg.Add(1)
		go func(idx int, l Lookup) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, searchTimeout)
			defer cancel()

			hits, err := l.Searcher.Search(callCtx, query)
			if err != nil {
				f.logger.Warn("source search failed", "searcher", l.Searcher.Name(), "error", err)
				return
			}
			found[idx] = hits
		}(i, l)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var records []model.SourceRecord
	for i, hits := range found {
		for _, h := range hits {
			if h.URL == "" || seen[h.URL] {
				continue
			}
			seen[h.URL] = true
			records = append(records, f.record(active[i].Origin, h))
		}
	}

	if f.links != nil {
		records = f.links.Filter(ctx, records)
	}
	if len(records) > f.limit {
		records = records[:f.limit]
	}

	if len(records) == 0 {
		return DefaultSources(f.now())
	}
	return records
}

// WithLinkChecker makes Find drop records whose URL is gone
func (f *Finder) WithLinkChecker(c *LinkChecker) *Finder {
	f.links = c
	return f
}

// query uses the first extracted claim, else the first 100 characters of content
func (f *Finder) query(content string) string {
	if claims := f.extractor.Extract(content); len(claims) > 0 {
		return claims[0].Text
	}

	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) > queryLen {
		return string(runes[:queryLen])
	}
	return content
}

func (f *Finder) record(origin string, h search.Hit) model.SourceRecord {
	date := h.Published
	if date.IsZero() {
		date = f.now()
	}

	title := h.Title
	if title == "" {
		title = credibility.Host(h.URL)
	}

	return model.SourceRecord{
		Title:       title,
		URL:         h.URL,
		Credibility: f.table.Score(h.URL),
		Date:        date,
		Excerpt:     excerpt(h.Snippet),
		Origin:      origin,
	}
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= excerptLen {
		return s
	}
	return string(runes[:excerptLen]) + "..."
}

// DefaultSources are the reference entries returned when no search produced anything
func DefaultSources(now time.Time) []model.SourceRecord {
	return []model.SourceRecord{
		{
			Title:       "Fact-Check Database",
			URL:         "https://factcheck.org",
			Credibility: 95,
			Date:        now,
			Excerpt:     "Authoritative fact-checking resource...",
			Origin:      "default",
		},
		{
			Title:       "Academic Research",
			URL:         "https://scholar.google.com",
			Credibility: 90,
			Date:        now,
			Excerpt:     "Peer-reviewed research on related topics...",
			Origin:      "default",
		},
	}
}
