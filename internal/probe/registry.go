package probe

import (
	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/credibility"
	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/search"
)

// Set is the probe configuration handed to the aggregator
type Set struct {
	Primary  []Probe
	Fallback Probe // consulted only when every primary probe is silent; may be nil
}

// Enabled returns the names of enabled probes, primary first
func (s Set) Enabled() []string {
	var names []string
	for _, p := range s.Primary {
		if p.Enabled() {
			names = append(names, p.Name())
		}
	}
	if s.Fallback != nil && s.Fallback.Enabled() {
		names = append(names, s.Fallback.Name())
	}
	return names
}

// FromConfig builds the probe set for cfg. Mock mode uses only the canned
// StaticProbe; live mode wires one SiteProbe per fact-check site, the news and
// fact-check probes, and the web fallback. Verdicts are cached when store is non-nil.
func FromConfig(cfg *model.Config, client search.Client, table *credibility.Table, store cache.Cache, m *metrics.Metrics) Set {
	if cfg.Probes.Mode == model.ProbeModeMock {
		return Set{Primary: []Probe{NewStaticProbe(true)}}
	}

	google := &search.Google{
		Client:   client,
		APIKey:   cfg.Probes.GoogleAPIKey,
		EngineID: cfg.Probes.GoogleCSEID,
		Results:  cfg.Probes.ResultsPerQuery,
	}
	news := &search.NewsAPI{
		Client:   client,
		APIKey:   cfg.Probes.NewsAPIKey,
		PageSize: cfg.Probes.ResultsPerQuery,
	}

	wrap := func(p Probe) Probe {
		return NewCached(p, store, cfg.Cache.TTL, m)
	}

	sites := cfg.Probes.FactCheckSites
	if len(sites) == 0 {
		sites = model.DefaultFactCheckSites
	}

	var primary []Probe
	for _, site := range sites {
		primary = append(primary, wrap(NewSiteProbe(site, google)))
	}
	primary = append(primary,
		wrap(NewNewsProbe(news)),
		wrap(NewFactCheckProbe(google)),
	)

	return Set{
		Primary:  primary,
		Fallback: wrap(NewWebProbe(google, table)),
	}
}
