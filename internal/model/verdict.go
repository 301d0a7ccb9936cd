package model

// Verdict is the categorical judgment of a claim's truthfulness
type Verdict string

const (
	VerdictTrue       Verdict = "true"
	VerdictFalse      Verdict = "false"
	VerdictDisputed   Verdict = "disputed"
	VerdictUnverified Verdict = "unverified"
	VerdictMisleading Verdict = "misleading"
)

// Valid reports whether v is one of the known verdicts
func (v Verdict) Valid() bool {
	switch v {
	case VerdictTrue, VerdictFalse, VerdictDisputed, VerdictUnverified, VerdictMisleading:
		return true
	}
	return false
}

// Status is the document-level label derived from the credibility score
type Status string

const (
	StatusVerified   Status = "verified"
	StatusUnverified Status = "unverified"
	StatusDisputed   Status = "disputed"
	StatusFalse      Status = "false"
)

// SourceVerdict is the partial opinion of one probe, or the fused opinion of
// several probes when Aggregated is set.
type SourceVerdict struct {
	Verdict     Verdict  `json:"verdict"`
	Explanation string   `json:"explanation"`
	Confidence  int      `json:"confidence"`
	Sources     []string `json:"sources,omitempty"`
	Weight      float64  `json:"weight,omitempty"`
	Probe       string   `json:"probe,omitempty"`       // Name of the probe that produced it
	Aggregated  bool     `json:"aggregated,omitempty"`  // Derived from more than one probe
	SourceCount int      `json:"sourceCount,omitempty"` // Number of probes that contributed
}

// ClampConfidence bounds a confidence value to [0,100]
func ClampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
