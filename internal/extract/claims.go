package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/credence/internal/model"
)

const (
	// MaxClaims caps the number of claims returned per document
	MaxClaims = 5

	minFragmentLen = 10
	minTokens      = 4
)

var (
	sentenceTerminators = regexp.MustCompile(`[.!?]+`)
	digitPattern        = regexp.MustCompile(`\d`)
)

// ClaimExtractor splits free text into candidate factual claims
type ClaimExtractor struct {
	pattern *regexp.Regexp
}

// NewClaimExtractor creates a new claim extractor with the default assertion markers
func NewClaimExtractor() *ClaimExtractor {
	markers := []string{
		"is", "are", "was", "were", "will",
		"according to", "study", "research", "report",
	}

	quoted := make([]string, len(markers))
	for i, m := range markers {
		quoted[i] = regexp.QuoteMeta(m)
	}

	return &ClaimExtractor{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Extract returns up to MaxClaims qualifying fragments of text in original order
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	var claims []model.Claim
	seen := make(map[string]bool)

	for i, fragment := range splitSentences(text) {
		heuristic, ok := e.qualify(fragment)
		if !ok {
			continue
		}

		key := strings.ToLower(fragment)
		if seen[key] {
			continue
		}
		seen[key] = true

		claims = append(claims, model.Claim{
			Text:      fragment,
			Heuristic: heuristic,
			Sentence:  i,
		})
		if len(claims) == MaxClaims {
			break
		}
	}

	return claims
}

// qualify reports whether a fragment looks like a factual statement and which rule matched
func (e *ClaimExtractor) qualify(fragment string) (string, bool) {
	if digitPattern.MatchString(fragment) {
		return "digit", true
	}

	if m := e.pattern.FindString(fragment); m != "" {
		return "keyword:" + strings.ToLower(m), true
	}

	if len(strings.Fields(fragment)) >= minTokens {
		return "tokens", true
	}

	return "", false
}

// splitSentences splits text on runs of sentence terminators, returning trimmed
// fragments longer than minFragmentLen characters
func splitSentences(text string) []string {
	var sentences []string
	for _, part := range sentenceTerminators.Split(text, -1) {
		part = strings.TrimSpace(strings.ReplaceAll(part, "\n", " "))
		if utf8.RuneCountInString(part) > minFragmentLen {
			sentences = append(sentences, part)
		}
	}
	return sentences
}
