package probe

import (
	"context"
	"fmt"

	"github.com/ppiankov/credence/internal/credibility"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/search"
)

const credibleWeight = 2

// webQualifier is the fact-check query tail without the "fact check" phrase
const webQualifier = "debunk OR verify OR false OR true"

// WebProbe is the general web fallback consulted only when every other probe is silent
type WebProbe struct {
	engine search.Searcher
	table  *credibility.Table
}

// NewWebProbe creates the fallback probe. A nil table uses the built-in credibility tables.
func NewWebProbe(engine search.Searcher, table *credibility.Table) *WebProbe {
	if table == nil {
		table = credibility.Default()
	}
	return &WebProbe{engine: engine, table: table}
}

// Name returns "web"
func (p *WebProbe) Name() string { return "web" }

// Enabled reports whether the search backend has credentials
func (p *WebProbe) Enabled() bool {
	return p.engine != nil && p.engine.Configured()
}

// Probe weighs hits from credible domains double and adds 5 confidence points
// per credible hit, capped at 90. Hits without any verdict keyword are no signal.
func (p *WebProbe) Probe(ctx context.Context, claim string) (*model.SourceVerdict, error) {
	if !p.Enabled() {
		return nil, nil
	}

	hits, err := p.engine.Search(ctx, quote(claim)+" "+webQualifier)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	var tally Tally
	credible := 0
	for _, h := range hits {
		weight := 1.0
		if p.table.IsCredible(h.URL) {
			weight = credibleWeight
			credible++
		}
		webClassifier.Add(&tally, h.Title+" "+h.Snippet, weight)
	}

	total := tally.Total()
	if total == 0 {
		return nil, nil
	}

	boost := float64(5 * credible)
	verdict := webClassifier.Verdict(tally)
	return &model.SourceVerdict{
		Verdict:     verdict,
		Explanation: fmt.Sprintf("Web results (%d from credible sources) lean %s.", credible, verdict),
		Confidence:  capConfidence(50 + 30*tally.Top()/total + boost),
		Sources:     hitURLs(hits),
		Weight:      total,
		Probe:       p.Name(),
	}, nil
}
