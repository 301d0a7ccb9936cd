package probe

import (
	"regexp"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// Lexicon is a list of keywords that vote for one verdict
type Lexicon struct {
	Verdict model.Verdict
	pattern *regexp.Regexp
}

// NewLexicon compiles terms into a case-insensitive, word-bounded matcher
func NewLexicon(verdict model.Verdict, terms ...string) Lexicon {
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(term))
	}
	return Lexicon{
		Verdict: verdict,
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Hits counts keyword occurrences in text
func (l Lexicon) Hits(text string) int {
	return len(l.pattern.FindAllStringIndex(text, -1))
}

// Matches reports whether text contains any keyword
func (l Lexicon) Matches(text string) bool {
	return l.pattern.MatchString(text)
}

// Classifier scores texts over three keyword buckets
type Classifier struct {
	buckets  [3]Lexicon
	fallback model.Verdict
}

// NewClassifier builds a three-bucket classifier. fallback is returned when no bucket dominates.
func NewClassifier(fallback model.Verdict, a, b, c Lexicon) Classifier {
	return Classifier{buckets: [3]Lexicon{a, b, c}, fallback: fallback}
}

// Tally accumulates weighted bucket scores
type Tally [3]float64

// Add scores text into the tally with the given weight
func (c Classifier) Add(t *Tally, text string, weight float64) {
	for i, lex := range c.buckets {
		t[i] += float64(lex.Hits(text)) * weight
	}
}

// AddPresence adds weight to every bucket with at least one keyword in text
func (c Classifier) AddPresence(t *Tally, text string, weight float64) {
	for i, lex := range c.buckets {
		if lex.Matches(text) {
			t[i] += weight
		}
	}
}

// Total returns the sum of all buckets
func (t Tally) Total() float64 {
	return t[0] + t[1] + t[2]
}

// Top returns the highest bucket score
func (t Tally) Top() float64 {
	top := t[0]
	for _, v := range t[1:] {
		if v > top {
			top = v
		}
	}
	return top
}

// Verdict returns the verdict of the bucket strictly greater than both others,
// or the classifier's fallback when no bucket dominates.
func (c Classifier) Verdict(t Tally) model.Verdict {
	if v, ok := c.Dominant(t); ok {
		return v
	}
	return c.fallback
}

// Dominant returns the verdict of the bucket strictly greater than both others.
// ok is false on a tie at the top.
func (c Classifier) Dominant(t Tally) (model.Verdict, bool) {
	for i := range t {
		j, k := (i+1)%3, (i+2)%3
		if t[i] > t[j] && t[i] > t[k] {
			return c.buckets[i].Verdict, true
		}
	}
	return "", false
}

// Keyword lexicons for fact-check snippets (true / false / disputed)
var (
	ratingTrue = NewLexicon(model.VerdictTrue,
		"true", "mostly true", "correct", "accurate", "confirmed", "verified", "legit", "real")
	ratingFalse = NewLexicon(model.VerdictFalse,
		"false", "mostly false", "fake", "hoax", "debunked", "incorrect", "fabricated",
		"pants on fire", "myth", "baseless", "no evidence")
	ratingDisputed = NewLexicon(model.VerdictDisputed,
		"misleading", "mixture", "mixed", "half true", "half-true", "unproven", "disputed",
		"partly", "partly false", "needs context", "missing context", "exaggerated")
)

// Keyword lexicons for news coverage (positive / negative / uncertain)
var (
	newsFactCheck = NewLexicon("",
		"fact check", "fact-check", "factcheck", "fact checking", "debunk", "debunked",
		"verify", "verified", "false", "true", "misleading", "hoax", "claim", "claims")
	newsPositive = NewLexicon(model.VerdictTrue,
		"confirmed", "confirms", "true", "accurate", "verified", "correct", "supports", "proven")
	newsNegative = NewLexicon(model.VerdictFalse,
		"false", "debunked", "debunks", "fake", "hoax", "misleading", "incorrect", "denied", "refuted")
	newsUncertain = NewLexicon(model.VerdictDisputed,
		"unclear", "disputed", "unverified", "questioned", "questions", "controversial",
		"mixed", "unproven", "contested")
)

// Keyword lexicons for general web results (supporting / contradicting / uncertain)
var (
	webSupporting = NewLexicon(model.VerdictTrue,
		"confirmed", "true", "fact", "facts", "evidence shows", "proven", "accurate",
		"according to", "studies show", "research shows")
	webContradicting = NewLexicon(model.VerdictFalse,
		"false", "myth", "debunked", "hoax", "no evidence", "incorrect", "misconception",
		"fake", "not true")
	webUncertain = NewLexicon(model.VerdictDisputed,
		"disputed", "controversial", "unclear", "debate", "debated", "unproven", "mixed",
		"uncertain", "inconclusive")
)

var (
	ratingClassifier = NewClassifier(model.VerdictDisputed, ratingTrue, ratingFalse, ratingDisputed)
	newsClassifier   = NewClassifier(model.VerdictUnverified, newsPositive, newsNegative, newsUncertain)
	webClassifier    = NewClassifier(model.VerdictDisputed, webSupporting, webContradicting, webUncertain)
)
