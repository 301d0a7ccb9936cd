package probe

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/search"
)

// SiteProbe searches one fact-checking site for the claim and reads the verdict from snippets
type SiteProbe struct {
	domain string
	engine search.Searcher
}

// NewSiteProbe creates a probe scoped to domain
func NewSiteProbe(domain string, engine search.Searcher) *SiteProbe {
	return &SiteProbe{domain: strings.ToLower(strings.TrimSpace(domain)), engine: engine}
}

// Name returns "site:<domain>"
func (p *SiteProbe) Name() string { return "site:" + p.domain }

// Enabled reports whether the search backend has credentials
func (p *SiteProbe) Enabled() bool {
	return p.domain != "" && p.engine != nil && p.engine.Configured()
}

// Probe queries `"<claim>" site:<domain>`. Each hit's keyword score is weighted
// by 1/(rank+1) so top results dominate. Without a strictly dominant bucket the
// site gave no usable rating and the probe reports no signal.
func (p *SiteProbe) Probe(ctx context.Context, claim string) (*model.SourceVerdict, error) {
	if !p.Enabled() {
		return nil, nil
	}

	hits, err := p.engine.Search(ctx, quote(claim)+" site:"+p.domain)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	var tally Tally
	for _, h := range hits {
		ratingClassifier.Add(&tally, h.Title+" "+h.Snippet, 1/float64(h.Rank+1))
	}

	verdict, ok := ratingClassifier.Dominant(tally)
	if !ok {
		return nil, nil
	}
	total := tally.Total()
	return &model.SourceVerdict{
		Verdict:     verdict,
		Explanation: fmt.Sprintf("%s coverage rates this claim as %s.", p.domain, verdict),
		Confidence:  capConfidence(55 + 35*tally.Top()/total),
		Sources:     hitURLs(hits),
		Weight:      total,
		Probe:       p.Name(),
	}, nil
}
