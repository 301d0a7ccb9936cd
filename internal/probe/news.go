package probe

import (
	"context"
	"fmt"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/search"
)

// NewsProbe classifies fact-checking news coverage of a claim
type NewsProbe struct {
	news search.Searcher
}

// NewNewsProbe creates a news-search probe
func NewNewsProbe(news search.Searcher) *NewsProbe {
	return &NewsProbe{news: news}
}

// Name returns "news"
func (p *NewsProbe) Name() string { return "news" }

// Enabled reports whether the news backend has credentials
func (p *NewsProbe) Enabled() bool {
	return p.news != nil && p.news.Configured()
}

// Probe keeps articles mentioning fact-checking and counts how many fall into
// each polarity bucket. Confidence is min(90, 60 + 10×dominant count).
func (p *NewsProbe) Probe(ctx context.Context, claim string) (*model.SourceVerdict, error) {
	if !p.Enabled() {
		return nil, nil
	}

	articles, err := p.news.Search(ctx, claim)
	if err != nil {
		return nil, err
	}

	var relevant []search.Hit
	for _, a := range articles {
		if newsFactCheck.Matches(a.Title + " " + a.Snippet) {
			relevant = append(relevant, a)
		}
	}
	if len(relevant) == 0 {
		return nil, nil
	}

	var tally Tally
	for _, a := range relevant {
		newsClassifier.AddPresence(&tally, a.Title+" "+a.Snippet, 1)
	}

	verdict := newsClassifier.Verdict(tally)
	dominant := tally.Top()
	if verdict == model.VerdictUnverified {
		dominant = 0
	}

	return &model.SourceVerdict{
		Verdict:     verdict,
		Explanation: fmt.Sprintf("%d fact-checking news articles reviewed; coverage indicates %s.", len(relevant), verdict),
		Confidence:  capConfidence(60 + 10*dominant),
		Sources:     hitURLs(relevant),
		Weight:      float64(len(relevant)),
		Probe:       p.Name(),
	}, nil
}
