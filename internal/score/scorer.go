// Package score folds claim verdicts into a document-level credibility score.
package score

import (
	"math"

	"github.com/ppiankov/credence/internal/model"
)

// NeutralScore is returned when no claim could be assessed
const NeutralScore = 50

// defaultVerdictScore applies to verdicts missing from the table (e.g. disputed)
const defaultVerdictScore = 50

// verdictScores maps a verdict to its contribution to the document score
var verdictScores = map[model.Verdict]int{
	model.VerdictTrue:       90,
	model.VerdictMisleading: 40,
	model.VerdictFalse:      10,
	model.VerdictUnverified: 50,
}

// summaries maps a status to its canned summary
var summaries = map[model.Status]string{
	model.StatusVerified:   "Content appears to be largely accurate based on available sources.",
	model.StatusUnverified: "Content contains claims that require additional verification.",
	model.StatusDisputed:   "Content contains disputed or questionable claims.",
	model.StatusFalse:      "Content contains potentially false or misleading information.",
}

const defaultSummary = "Analysis complete."

// Scorer synthesizes the score, status and summary of a document
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Synthesize folds details into {score, status, summary}. The result depends on details alone.
func (s *Scorer) Synthesize(details []model.ClaimDetail) model.Synthesis {
	score := Calculate(details)
	status := StatusFor(score)
	return model.Synthesis{
		Score:   score,
		Status:  status,
		Summary: Summary(status),
	}
}

// Calculate returns round((mean confidence + mean verdict score) / 2), or NeutralScore for no details
func Calculate(details []model.ClaimDetail) int {
	if len(details) == 0 {
		return NeutralScore
	}

	var confidence, verdicts float64
	for _, d := range details {
		confidence += float64(model.ClampConfidence(d.Confidence))
		verdicts += float64(VerdictScore(d.Verdict))
	}

	n := float64(len(details))
	return model.ClampConfidence(int(math.Round((confidence/n + verdicts/n) / 2)))
}

// VerdictScore returns the table value for v
func VerdictScore(v model.Verdict) int {
	if score, ok := verdictScores[v]; ok {
		return score
	}
	return defaultVerdictScore
}

// StatusFor maps a score to its band. Lower bounds are inclusive.
func StatusFor(score int) model.Status {
	switch {
	case score >= 80:
		return model.StatusVerified
	case score >= 60:
		return model.StatusUnverified
	case score >= 40:
		return model.StatusDisputed
	default:
		return model.StatusFalse
	}
}

// Summary returns the canned sentence for status
func Summary(status model.Status) string {
	if msg, ok := summaries[status]; ok {
		return msg
	}
	return defaultSummary
}
