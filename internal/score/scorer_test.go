package score

import (
	"testing"

	"github.com/ppiankov/credence/internal/model"
)

func detail(v model.Verdict, confidence int) model.ClaimDetail {
	return model.ClaimDetail{Claim: "claim", Verdict: v, Confidence: confidence}
}

func TestScorer_Synthesize_Empty(t *testing.T) {
	got := NewScorer().Synthesize(nil)

	if got.Score != 50 {
		t.Errorf("Expected neutral score 50, got %d", got.Score)
	}
	if got.Status != model.StatusDisputed {
		t.Errorf("Expected disputed for 50, got %s", got.Status)
	}
	if got.Summary != "Content contains disputed or questionable claims." {
		t.Errorf("Unexpected summary: %s", got.Summary)
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		details  []model.ClaimDetail
		expected int
	}{
		{"single true", []model.ClaimDetail{detail(model.VerdictTrue, 85)}, 88},               // (85+90)/2 = 87.5
		{"no signal", []model.ClaimDetail{detail(model.VerdictUnverified, 25)}, 38},           // (25+50)/2 = 37.5
		{"disputed uses default", []model.ClaimDetail{detail(model.VerdictDisputed, 60)}, 55}, // (60+50)/2
		{"false", []model.ClaimDetail{detail(model.VerdictFalse, 90)}, 50},
		{"misleading", []model.ClaimDetail{detail(model.VerdictMisleading, 40)}, 40},
		{"mixed", []model.ClaimDetail{
			detail(model.VerdictTrue, 80),
			detail(model.VerdictFalse, 70),
			detail(model.VerdictUnverified, 25),
		}, 54}, // conf 58.33, verdict 50 -> 54.17
		{"clamps confidence", []model.ClaimDetail{detail(model.VerdictTrue, 250)}, 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Calculate(tt.details); got != tt.expected {
				t.Errorf("Calculate() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestStatusFor_Boundaries(t *testing.T) {
	tests := []struct {
		score    int
		expected model.Status
	}{
		{100, model.StatusVerified},
		{80, model.StatusVerified},
		{79, model.StatusUnverified},
		{60, model.StatusUnverified},
		{59, model.StatusDisputed},
		{40, model.StatusDisputed},
		{39, model.StatusFalse},
		{0, model.StatusFalse},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.score); got != tt.expected {
			t.Errorf("StatusFor(%d) = %s, want %s", tt.score, got, tt.expected)
		}
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(model.StatusVerified); got != "Content appears to be largely accurate based on available sources." {
		t.Errorf("Unexpected verified summary: %s", got)
	}
	if got := Summary(model.StatusFalse); got != "Content contains potentially false or misleading information." {
		t.Errorf("Unexpected false summary: %s", got)
	}
	if got := Summary("weird"); got != "Analysis complete." {
		t.Errorf("Expected generic summary for unknown status, got %s", got)
	}
}

func TestVerdictScore_Default(t *testing.T) {
	if VerdictScore(model.VerdictDisputed) != 50 {
		t.Error("Expected disputed to use the default 50")
	}
	if VerdictScore("nonsense") != 50 {
		t.Error("Expected unknown verdicts to use the default 50")
	}
}

func TestSynthesize_ScoreDependsOnlyOnDetails(t *testing.T) {
	details := []model.ClaimDetail{detail(model.VerdictTrue, 85), detail(model.VerdictTrue, 70)}

	a := NewScorer().Synthesize(details)
	b := NewScorer().Synthesize(append([]model.ClaimDetail(nil), details...))

	if a != b {
		t.Errorf("Expected identical synthesis, got %+v and %+v", a, b)
	}
	if a.Status != model.StatusVerified {
		t.Errorf("Expected verified for score %d, got %s", a.Score, a.Status)
	}
}
