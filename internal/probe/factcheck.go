package probe

import (
	"context"
	"fmt"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/search"
)

// FactCheckProbe runs a broad fact-check query across the whole web
type FactCheckProbe struct {
	engine search.Searcher
}

// NewFactCheckProbe creates a general fact-check search probe
func NewFactCheckProbe(engine search.Searcher) *FactCheckProbe {
	return &FactCheckProbe{engine: engine}
}

// Name returns "factcheck"
func (p *FactCheckProbe) Name() string { return "factcheck" }

// Enabled reports whether the search backend has credentials
func (p *FactCheckProbe) Enabled() bool {
	return p.engine != nil && p.engine.Configured()
}

// Probe scores every hit over the true/false/disputed buckets.
// Hits without any verdict keyword yield unverified at 30.
func (p *FactCheckProbe) Probe(ctx context.Context, claim string) (*model.SourceVerdict, error) {
	if !p.Enabled() {
		return nil, nil
	}

	hits, err := p.engine.Search(ctx, quote(claim)+" fact check OR debunk OR verify OR false OR true")
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	var tally Tally
	for _, h := range hits {
		ratingClassifier.Add(&tally, h.Title+" "+h.Snippet, 1)
	}

	total := tally.Total()
	if total == 0 {
		return &model.SourceVerdict{
			Verdict:     model.VerdictUnverified,
			Explanation: fmt.Sprintf("%d fact-check results found but none rated the claim.", len(hits)),
			Confidence:  30,
			Sources:     hitURLs(hits),
			Probe:       p.Name(),
		}, nil
	}

	verdict := ratingClassifier.Verdict(tally)
	return &model.SourceVerdict{
		Verdict:     verdict,
		Explanation: fmt.Sprintf("Fact-check results lean %s (%.0f of %.0f keyword hits).", verdict, tally.Top(), total),
		Confidence:  capConfidence(50 + 40*tally.Top()/total),
		Sources:     hitURLs(hits),
		Weight:      total,
		Probe:       p.Name(),
	}, nil
}
