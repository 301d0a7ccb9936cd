package probe

import (
	"context"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// StaticProbe returns canned verdicts by topic keyword without network access.
// It backs the "mock" probe mode used for demos and offline runs.
type StaticProbe struct {
	enabled bool
}

// NewStaticProbe creates the canned-verdict probe
func NewStaticProbe(enabled bool) *StaticProbe {
	return &StaticProbe{enabled: enabled}
}

// Name returns "static"
func (p *StaticProbe) Name() string { return "static" }

// Enabled reports whether mock mode is on
func (p *StaticProbe) Enabled() bool { return p.enabled }

// Probe classifies by topic keyword
func (p *StaticProbe) Probe(_ context.Context, claim string) (*model.SourceVerdict, error) {
	if !p.enabled {
		return nil, nil
	}

	lower := strings.ToLower(claim)
	switch {
	case strings.Contains(lower, "covid") || strings.Contains(lower, "vaccine"):
		return &model.SourceVerdict{
			Verdict:     model.VerdictDisputed,
			Explanation: "Health-related claims require verification from medical authorities",
			Confidence:  60,
			Probe:       p.Name(),
		}, nil
	case strings.Contains(lower, "climate") || strings.Contains(lower, "temperature"):
		return &model.SourceVerdict{
			Verdict:     model.VerdictTrue,
			Explanation: "Consistent with scientific consensus",
			Confidence:  85,
			Probe:       p.Name(),
		}, nil
	default:
		return &model.SourceVerdict{
			Verdict:     model.VerdictUnverified,
			Explanation: "Unable to verify with available sources",
			Confidence:  50,
			Probe:       p.Name(),
		}, nil
	}
}
