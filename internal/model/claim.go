package model

// Claim represents a candidate factual statement extracted from source text
type Claim struct {
	Text      string `json:"text"`                // The claim text itself
	Heuristic string `json:"heuristic,omitempty"` // Which keep-rule matched (e.g., "keyword:according to")
	Sentence  int    `json:"sentence,omitempty"`  // Fragment index in source (0-based)
}

// ClaimDetail is the per-claim line item attached to an analysis result
type ClaimDetail struct {
	Claim       string  `json:"claim"`
	Verdict     Verdict `json:"verdict"`
	Explanation string  `json:"explanation"`
	Confidence  int     `json:"confidence"`
}

// DetailFromVerdict builds a ClaimDetail from the aggregated verdict of a claim
func DetailFromVerdict(claim string, v SourceVerdict) ClaimDetail {
	return ClaimDetail{
		Claim:       claim,
		Verdict:     v.Verdict,
		Explanation: v.Explanation,
		Confidence:  ClampConfidence(v.Confidence),
	}
}
