package sources

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ppiankov/credence/internal/credibility"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/search"
)

// SiteSearch restricts a searcher to a set of sites with OR-ed site: operators
type SiteSearch struct {
	Engine search.Searcher
	Sites  []string
}

// Name returns the backend identifier
func (s *SiteSearch) Name() string { return "sites" }

// Configured reports whether the engine is usable and sites are set
func (s *SiteSearch) Configured() bool {
	return s.Engine != nil && s.Engine.Configured() && len(s.Sites) > 0
}

// Search appends the site filter to query
func (s *SiteSearch) Search(ctx context.Context, query string) ([]search.Hit, error) {
	filters := make([]string, len(s.Sites))
	for i, site := range s.Sites {
		filters[i] = "site:" + site
	}
	return s.Engine.Search(ctx, query+" "+strings.Join(filters, " OR "))
}

// FromConfig builds a finder with the news, fact-check site and academic searchers.
// With sources disabled the finder always returns the default references.
func FromConfig(cfg *model.Config, client search.Client, table *credibility.Table, logger *slog.Logger) *Finder {
	if !cfg.Sources.Enabled {
		return NewFinder(nil, table, cfg.Sources.Max, logger)
	}

	sites := cfg.Probes.FactCheckSites
	if len(sites) == 0 {
		sites = model.DefaultFactCheckSites
	}

	google := &search.Google{
		Client:   client,
		APIKey:   cfg.Probes.GoogleAPIKey,
		EngineID: cfg.Probes.GoogleCSEID,
		Results:  cfg.Sources.Max,
	}

	lookups := []Lookup{
		{Origin: "news", Searcher: &search.NewsAPI{Client: client, APIKey: cfg.Probes.NewsAPIKey, PageSize: cfg.Sources.Max}},
		{Origin: "factcheck", Searcher: &SiteSearch{Engine: google, Sites: sites}},
		{Origin: "academic", Searcher: &search.SemanticScholar{Client: client, Enabled: cfg.Sources.Academic, Limit: cfg.Sources.Max}},
	}

	finder := NewFinder(lookups, table, cfg.Sources.Max, logger)
	if cfg.Sources.VerifyLinks {
		finder.WithLinkChecker(NewLinkChecker(client.HTTP, client.UserAgent, 0))
	}
	return finder
}
