// Package probe implements the independent lookups that each produce a partial verdict for a claim.
package probe

import (
	"context"
	"math"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/search"
)

// maxSourcesPerVerdict bounds the URLs a single probe attaches to its verdict
const maxSourcesPerVerdict = 5

// Probe is one external lookup strategy.
//
// Probe returns (nil, nil) when the lookup produced no signal. Errors are
// transport or decoding failures; callers treat them as no signal.
// A probe that is not Enabled returns (nil, nil) without network I/O.
type Probe interface {
	Name() string
	Enabled() bool
	Probe(ctx context.Context, claim string) (*model.SourceVerdict, error)
}

// hitURLs returns up to maxSourcesPerVerdict distinct URLs in hit order
func hitURLs(hits []search.Hit) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, h := range hits {
		if h.URL == "" || seen[h.URL] {
			continue
		}
		seen[h.URL] = true
		urls = append(urls, h.URL)
		if len(urls) == maxSourcesPerVerdict {
			break
		}
	}
	return urls
}

// capConfidence rounds and caps a computed confidence at 90
func capConfidence(v float64) int {
	return model.ClampConfidence(int(math.Round(math.Min(90, v))))
}

// quote wraps a claim in double quotes for exact-phrase search
func quote(claim string) string {
	return `"` + claim + `"`
}
