package aggregate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/probe"
	"github.com/ppiankov/credence/internal/search"
)

// stubProbe returns a fixed verdict, error or panic
type stubProbe struct {
	name     string
	disabled bool
	verdict  *model.SourceVerdict
	err      error
	panics   bool
	delay    time.Duration
	calls    atomic.Int32
}

func (s *stubProbe) Name() string  { return s.name }
func (s *stubProbe) Enabled() bool { return !s.disabled }

func (s *stubProbe) Probe(ctx context.Context, _ string) (*model.SourceVerdict, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay) // ignores ctx on purpose
	}
	if s.panics {
		panic("boom")
	}
	return s.verdict, s.err
}

func verdict(v model.Verdict, confidence int, sources ...string) *model.SourceVerdict {
	return &model.SourceVerdict{Verdict: v, Confidence: confidence, Explanation: "stub", Sources: sources}
}

func TestAggregate_TwoAgreeingProbes(t *testing.T) {
	site := &stubProbe{name: "site:snopes.com", verdict: verdict(model.VerdictTrue, 85, "https://snopes.com/a")}
	news := &stubProbe{name: "news", verdict: verdict(model.VerdictTrue, 70, "https://news.example/b")}

	agg := New(probe.Set{Primary: []probe.Probe{site, news}})
	got := agg.Aggregate(context.Background(), "The Earth is round")

	assert.Equal(t, model.VerdictTrue, got.Verdict)
	assert.Equal(t, 78, got.Confidence)
	assert.True(t, got.Aggregated)
	assert.Equal(t, 2, got.SourceCount)
	assert.Equal(t, "2 sources indicate: true.", got.Explanation)
	assert.Equal(t, []string{"https://snopes.com/a", "https://news.example/b"}, got.Sources)
}

func TestAggregate_AllDisabled(t *testing.T) {
	cfg := model.DefaultConfig()
	set := probe.FromConfig(cfg, search.Client{}, nil, nil, nil)

	got := New(set).Aggregate(context.Background(), "The sky was blue in 1990")

	assert.Equal(t, model.VerdictUnverified, got.Verdict)
	assert.GreaterOrEqual(t, got.Confidence, 20)
	assert.LessOrEqual(t, got.Confidence, 30)
	assert.Equal(t, NoSignalExplanation, got.Explanation)
	assert.False(t, got.Aggregated)
}

func TestAggregate_FallbackOnlyWhenSilent(t *testing.T) {
	silent := &stubProbe{name: "site:snopes.com"}
	fallback := &stubProbe{name: "web", verdict: verdict(model.VerdictFalse, 64, "https://reuters.com/x")}

	got := New(probe.Set{Primary: []probe.Probe{silent}, Fallback: fallback}).Aggregate(context.Background(), "claim")

	assert.Equal(t, model.VerdictFalse, got.Verdict)
	assert.Equal(t, 64, got.Confidence)
	assert.Equal(t, "web", got.Probe)
	assert.EqualValues(t, 1, fallback.calls.Load())

	loud := &stubProbe{name: "news", verdict: verdict(model.VerdictTrue, 70)}
	fallback2 := &stubProbe{name: "web", verdict: verdict(model.VerdictFalse, 64)}

	got = New(probe.Set{Primary: []probe.Probe{loud}, Fallback: fallback2}).Aggregate(context.Background(), "claim")

	assert.Equal(t, model.VerdictTrue, got.Verdict)
	assert.EqualValues(t, 0, fallback2.calls.Load(), "fallback must not run when a probe answered")
}

func TestAggregate_FallbackSilent(t *testing.T) {
	got := New(probe.Set{
		Primary:  []probe.Probe{&stubProbe{name: "a"}},
		Fallback: &stubProbe{name: "web"},
	}).Aggregate(context.Background(), "claim")

	assert.Equal(t, model.VerdictUnverified, got.Verdict)
	assert.Equal(t, NoSignalConfidence, got.Confidence)
}

func TestAggregate_FailuresAbsorbed(t *testing.T) {
	probes := []probe.Probe{
		&stubProbe{name: "erroring", err: errors.New("google search: unexpected status 500")},
		&stubProbe{name: "panicking", panics: true},
		&stubProbe{name: "good", verdict: verdict(model.VerdictDisputed, 55)},
		&stubProbe{name: "disabled", disabled: true, verdict: verdict(model.VerdictTrue, 99)},
	}

	got := New(probe.Set{Primary: probes}).Aggregate(context.Background(), "claim")

	assert.Equal(t, model.VerdictDisputed, got.Verdict)
	assert.Equal(t, 55, got.Confidence)
	assert.False(t, got.Aggregated, "a single surviving result is returned as-is")
	assert.EqualValues(t, 0, probes[3].(*stubProbe).calls.Load(), "disabled probes are never called")
}

func TestAggregate_TimeoutCountsAsNoSignal(t *testing.T) {
	slow := &stubProbe{name: "slow", delay: 200 * time.Millisecond, verdict: verdict(model.VerdictFalse, 90)}
	fast := &stubProbe{name: "fast", verdict: verdict(model.VerdictTrue, 60)}

	start := time.Now()
	got := New(probe.Set{Primary: []probe.Probe{slow, fast}}, WithTimeout(30*time.Millisecond)).
		Aggregate(context.Background(), "claim")

	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.Equal(t, model.VerdictTrue, got.Verdict)
	assert.Equal(t, 60, got.Confidence)
}

func TestAggregate_RunsConcurrently(t *testing.T) {
	var probes []probe.Probe
	for i := 0; i < 5; i++ {
		probes = append(probes, &stubProbe{name: "p", delay: 50 * time.Millisecond, verdict: verdict(model.VerdictTrue, 80)})
	}

	start := time.Now()
	got := New(probe.Set{Primary: probes}).Aggregate(context.Background(), "claim")

	assert.Less(t, time.Since(start), 200*time.Millisecond)
	assert.Equal(t, 5, got.SourceCount)
}

func TestAggregate_Deterministic(t *testing.T) {
	set := probe.Set{Primary: []probe.Probe{
		&stubProbe{name: "a", verdict: verdict(model.VerdictFalse, 40, "https://a")},
		&stubProbe{name: "b", verdict: verdict(model.VerdictTrue, 75, "https://b")},
		&stubProbe{name: "c", verdict: verdict(model.VerdictTrue, 66, "https://a")},
	}}
	agg := New(set)

	first := agg.Aggregate(context.Background(), "claim")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, agg.Aggregate(context.Background(), "claim"))
	}
	assert.Equal(t, model.VerdictTrue, first.Verdict)
	assert.Equal(t, 60, first.Confidence) // (40+75+66)/3 = 60.33
	assert.Equal(t, []string{"https://a", "https://b"}, first.Sources)
}

func TestReduce_TieBreakFirstSeen(t *testing.T) {
	got := Reduce([]model.SourceVerdict{
		*verdict(model.VerdictFalse, 50),
		*verdict(model.VerdictTrue, 70),
		*verdict(model.VerdictTrue, 70),
		*verdict(model.VerdictFalse, 50),
	})
	assert.Equal(t, model.VerdictFalse, got.Verdict)
	assert.Equal(t, 4, got.SourceCount)

	got = Reduce([]model.SourceVerdict{
		*verdict(model.VerdictDisputed, 50),
		*verdict(model.VerdictUnverified, 30),
	})
	assert.Equal(t, model.VerdictDisputed, got.Verdict)
	assert.Equal(t, 40, got.Confidence)
}

func TestReduce_ClampsConfidence(t *testing.T) {
	single := Reduce([]model.SourceVerdict{*verdict(model.VerdictTrue, 140, "https://a", "https://a")})
	assert.Equal(t, 100, single.Confidence)
	assert.Equal(t, []string{"https://a"}, single.Sources)

	multi := Reduce([]model.SourceVerdict{*verdict(model.VerdictTrue, 150), *verdict(model.VerdictTrue, -20)})
	assert.Equal(t, 50, multi.Confidence)
}

func TestReduce_Empty(t *testing.T) {
	got := Reduce(nil)
	require.Equal(t, model.VerdictUnverified, got.Verdict)
	assert.Equal(t, NoSignalConfidence, got.Confidence)
	assert.Empty(t, got.Sources)
}
