// Package credibility holds the static domain reputation and allow-list tables.
package credibility

import (
	"net/url"
	"strings"
)

// DefaultScore is returned for domains missing from the reputation table
const DefaultScore = 50

// Table classifies domains by reputation and credibility
type Table struct {
	reputation map[string]int
	credible   map[string]bool
}

// defaultReputation is the domain credibility table (0-100)
var defaultReputation = map[string]int{
	"bbc.com":       95,
	"reuters.com":   95,
	"apnews.com":    95,
	"cnn.com":       80,
	"foxnews.com":   75,
	"wikipedia.org": 85,

	// Fact-checking organisations used for supplementary sources
	"factcheck.org":      95,
	"snopes.com":         95,
	"politifact.com":     95,
	"scholar.google.com": 90,
}

// defaultCredible lists domains whose search hits weigh double in web fallback scoring
var defaultCredible = []string{
	"reuters.com", "apnews.com", "bbc.com", "bbc.co.uk", "npr.org",
	"snopes.com", "politifact.com", "factcheck.org", "fullfact.org",
	"nature.com", "science.org", "who.int", "cdc.gov", "nih.gov", "nasa.gov",
	"wikipedia.org", "britannica.com",
}

// moderatedCommunities are subreddits with active fact moderation
var moderatedCommunities = map[string]bool{
	"science":   true,
	"news":      true,
	"worldnews": true,
	"politics":  true,
}

// Default returns the built-in tables
func Default() *Table {
	return New(nil)
}

// New returns the built-in tables with overrides applied on top of the reputation table
func New(overrides map[string]int) *Table {
	t := &Table{
		reputation: make(map[string]int, len(defaultReputation)+len(overrides)),
		credible:   make(map[string]bool, len(defaultCredible)),
	}
	for domain, score := range defaultReputation {
		t.reputation[domain] = score
	}
	for domain, score := range overrides {
		t.reputation[strings.ToLower(domain)] = score
	}
	for _, domain := range defaultCredible {
		t.credible[domain] = true
	}
	return t
}

// Score returns the reputation of the URL's domain, or DefaultScore when unknown.
// Subdomains inherit the score of the closest listed parent (en.wikipedia.org -> wikipedia.org).
func (t *Table) Score(rawURL string) int {
	host := Host(rawURL)
	if host == "" {
		return DefaultScore
	}

	for _, candidate := range parents(host) {
		if score, ok := t.reputation[candidate]; ok {
			return score
		}
	}
	return DefaultScore
}

// IsCredible reports whether the URL belongs to a credible domain
func (t *Table) IsCredible(rawURL string) bool {
	host := Host(rawURL)
	if host == "" {
		return false
	}

	for _, candidate := range parents(host) {
		if t.credible[candidate] {
			return true
		}
	}

	// Government and academic TLDs are treated as credible
	return strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") ||
		strings.HasSuffix(host, ".ac.uk")
}

// IsModeratedCommunity reports whether a subreddit is on the moderated allow-list
func IsModeratedCommunity(name string) bool {
	return moderatedCommunities[strings.ToLower(strings.TrimPrefix(name, "r/"))]
}

// Host extracts the lowercased hostname of a URL without port or leading "www."
func Host(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := parsed.Hostname()
	if host == "" && parsed.Scheme == "" {
		// Bare domains such as "bbc.com/news" parse as a path
		host = strings.SplitN(parsed.Path, "/", 2)[0]
	}

	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

// parents returns host followed by each parent domain down to two labels
// (a.b.c.d -> a.b.c.d, b.c.d, c.d). A bare TLD is never a candidate.
func parents(host string) []string {
	out := []string{host}
	for strings.Count(host, ".") > 1 {
		host = host[strings.Index(host, ".")+1:]
		out = append(out, host)
	}
	return out
}
