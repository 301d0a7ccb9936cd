package probe

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/search"
)

// fakeSearcher returns canned hits and records queries
type fakeSearcher struct {
	configured bool
	hits       []search.Hit
	err        error
	queries    []string
}

func (f *fakeSearcher) Name() string     { return "fake" }
func (f *fakeSearcher) Configured() bool { return f.configured }

func (f *fakeSearcher) Search(_ context.Context, query string) ([]search.Hit, error) {
	f.queries = append(f.queries, query)
	return f.hits, f.err
}

func hits(pairs ...string) []search.Hit {
	var out []search.Hit
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, search.Hit{URL: pairs[i], Snippet: pairs[i+1], Rank: i / 2})
	}
	return out
}

func TestClassifier_StrictDominance(t *testing.T) {
	tests := []struct {
		tally    Tally
		expected model.Verdict
	}{
		{Tally{3, 1, 1}, model.VerdictTrue},
		{Tally{0, 2, 1}, model.VerdictFalse},
		{Tally{0, 0, 0.5}, model.VerdictDisputed},
		{Tally{2, 2, 1}, model.VerdictDisputed}, // tie at the top
		{Tally{1, 1, 1}, model.VerdictDisputed}, // all equal
		{Tally{0, 0, 0}, model.VerdictDisputed},
	}

	for _, tt := range tests {
		if got := ratingClassifier.Verdict(tt.tally); got != tt.expected {
			t.Errorf("Verdict(%v) = %s, want %s", tt.tally, got, tt.expected)
		}
	}

	if got := newsClassifier.Verdict(Tally{1, 1, 0}); got != model.VerdictUnverified {
		t.Errorf("news fallback = %s, want unverified", got)
	}

	if _, ok := ratingClassifier.Dominant(Tally{2, 2, 1}); ok {
		t.Error("Dominant must report no winner on a tie at the top")
	}
	if v, ok := ratingClassifier.Dominant(Tally{0, 2, 1}); !ok || v != model.VerdictFalse {
		t.Errorf("Dominant = (%s, %v), want (false, true)", v, ok)
	}
}

func TestLexicon_WordBoundaries(t *testing.T) {
	if ratingFalse.Hits("The falsehood spread") != 0 {
		t.Error("expected no match inside a longer word")
	}
	if got := ratingFalse.Hits("FALSE. Debunked hoax."); got != 3 {
		t.Errorf("expected 3 hits, got %d", got)
	}
}

func TestSiteProbe_Disabled(t *testing.T) {
	engine := &fakeSearcher{configured: false}
	p := NewSiteProbe("snopes.com", engine)

	v, err := p.Probe(context.Background(), "The Earth is flat")
	if v != nil || err != nil {
		t.Errorf("expected (nil, nil), got (%v, %v)", v, err)
	}
	if len(engine.queries) != 0 {
		t.Error("disabled probe must not search")
	}
}

func TestSiteProbe_RankWeighted(t *testing.T) {
	engine := &fakeSearcher{configured: true, hits: hits(
		"https://www.snopes.com/a", "Claim rated false by our team",
		"https://www.snopes.com/b", "This is accurate",
	)}
	p := NewSiteProbe("Snopes.com", engine)

	v, err := p.Probe(context.Background(), "The Earth is flat")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if v == nil {
		t.Fatal("expected a verdict")
	}

	if engine.queries[0] != `"The Earth is flat" site:snopes.com` {
		t.Errorf("unexpected query %q", engine.queries[0])
	}
	if v.Verdict != model.VerdictFalse {
		t.Errorf("expected false, got %s", v.Verdict)
	}
	// false 1.0, true 0.5: 55 + 35*(1/1.5) = 78.3
	if v.Confidence != 78 {
		t.Errorf("expected confidence 78, got %d", v.Confidence)
	}
	if p.Name() != "site:snopes.com" || v.Probe != "site:snopes.com" {
		t.Errorf("unexpected probe name %q", v.Probe)
	}
	if len(v.Sources) != 2 {
		t.Errorf("expected 2 sources, got %v", v.Sources)
	}
}

func TestSiteProbe_NoKeywords(t *testing.T) {
	engine := &fakeSearcher{configured: true, hits: hits("https://www.snopes.com/a", "Archive page")}

	v, err := NewSiteProbe("snopes.com", engine).Probe(context.Background(), "x")
	if v != nil || err != nil {
		t.Errorf("expected no signal, got (%v, %v)", v, err)
	}
}

func TestSiteProbe_TieIsNoSignal(t *testing.T) {
	engine := &fakeSearcher{configured: true, hits: []search.Hit{
		{URL: "https://www.snopes.com/a", Snippet: "Claim rated true", Rank: 0},
		{URL: "https://www.snopes.com/b", Snippet: "Claim rated false", Rank: 0},
	}}

	v, err := NewSiteProbe("snopes.com", engine).Probe(context.Background(), "The Earth is flat")
	if v != nil || err != nil {
		t.Errorf("expected no signal on a true/false tie, got (%+v, %v)", v, err)
	}
}

func TestSiteProbe_SearchError(t *testing.T) {
	engine := &fakeSearcher{configured: true, err: errors.New("google search: unexpected status 500")}

	v, err := NewSiteProbe("snopes.com", engine).Probe(context.Background(), "x")
	if v != nil || err == nil {
		t.Errorf("expected error, got (%v, %v)", v, err)
	}
}

func TestFactCheckProbe(t *testing.T) {
	engine := &fakeSearcher{configured: true, hits: hits(
		"https://a.example/1", "Experts say it was debunked, a hoax",
		"https://b.example/2", "Some say it is true",
	)}

	v, err := NewFactCheckProbe(engine).Probe(context.Background(), "Moon landing was staged")
	if err != nil || v == nil {
		t.Fatalf("expected verdict, got (%v, %v)", v, err)
	}

	if !strings.HasSuffix(engine.queries[0], "fact check OR debunk OR verify OR false OR true") {
		t.Errorf("unexpected query %q", engine.queries[0])
	}
	if v.Verdict != model.VerdictFalse {
		t.Errorf("expected false, got %s", v.Verdict)
	}
	// false 2, true 1: 50 + 40*(2/3) = 76.7
	if v.Confidence != 77 {
		t.Errorf("expected 77, got %d", v.Confidence)
	}
}

func TestFactCheckProbe_ZeroTotal(t *testing.T) {
	engine := &fakeSearcher{configured: true, hits: hits("https://a.example/1", "Nothing relevant here")}

	v, err := NewFactCheckProbe(engine).Probe(context.Background(), "x")
	if err != nil || v == nil {
		t.Fatalf("expected verdict, got (%v, %v)", v, err)
	}
	if v.Verdict != model.VerdictUnverified || v.Confidence != 30 {
		t.Errorf("expected unverified/30, got %s/%d", v.Verdict, v.Confidence)
	}
}

func TestFactCheckProbe_NoHits(t *testing.T) {
	v, err := NewFactCheckProbe(&fakeSearcher{configured: true}).Probe(context.Background(), "x")
	if v != nil || err != nil {
		t.Errorf("expected no signal, got (%v, %v)", v, err)
	}
}

func TestNewsProbe(t *testing.T) {
	news := &fakeSearcher{configured: true, hits: []search.Hit{
		{Title: "Fact check: vaccine claim is false", URL: "https://news.example/1"},
		{Title: "Claim debunked by experts", URL: "https://news.example/2"},
		{Title: "Weather today sunny", URL: "https://news.example/3"},
	}}

	v, err := NewNewsProbe(news).Probe(context.Background(), "vaccine claim")
	if err != nil || v == nil {
		t.Fatalf("expected verdict, got (%v, %v)", v, err)
	}

	if v.Verdict != model.VerdictFalse {
		t.Errorf("expected false, got %s", v.Verdict)
	}
	if v.Confidence != 80 {
		t.Errorf("expected 60 + 10*2 = 80, got %d", v.Confidence)
	}
	if len(v.Sources) != 2 {
		t.Errorf("expected only fact-checking articles as sources, got %v", v.Sources)
	}
}

func TestNewsProbe_CapsConfidence(t *testing.T) {
	var articles []search.Hit
	for i := 0; i < 6; i++ {
		articles = append(articles, search.Hit{Title: "Fact check confirms the report is accurate"})
	}

	v, _ := NewNewsProbe(&fakeSearcher{configured: true, hits: articles}).Probe(context.Background(), "x")
	if v == nil || v.Verdict != model.VerdictTrue || v.Confidence != 90 {
		t.Errorf("expected true capped at 90, got %+v", v)
	}
}

func TestNewsProbe_NoFactCheckCoverage(t *testing.T) {
	news := &fakeSearcher{configured: true, hits: []search.Hit{{Title: "Local team wins"}}}

	v, err := NewNewsProbe(news).Probe(context.Background(), "x")
	if v != nil || err != nil {
		t.Errorf("expected no signal, got (%v, %v)", v, err)
	}
}

func TestWebProbe_CredibleWeighting(t *testing.T) {
	engine := &fakeSearcher{configured: true, hits: hits(
		"https://www.reuters.com/fact-check/x", "This is a myth, debunked",
		"https://randomblog.net/post", "It's true",
	)}

	v, err := NewWebProbe(engine, nil).Probe(context.Background(), "Goldfish have a 3 second memory")
	if err != nil || v == nil {
		t.Fatalf("expected verdict, got (%v, %v)", v, err)
	}

	if engine.queries[0] != `"Goldfish have a 3 second memory" debunk OR verify OR false OR true` {
		t.Errorf("unexpected query %q", engine.queries[0])
	}
	if v.Verdict != model.VerdictFalse {
		t.Errorf("expected false, got %s", v.Verdict)
	}
	// contradicting 4 (2 hits x2), supporting 1: 50 + 30*0.8 + 5*1 = 79
	if v.Confidence != 79 {
		t.Errorf("expected 79, got %d", v.Confidence)
	}
}

func TestWebProbe_UnclassifiedHitsAreNoSignal(t *testing.T) {
	var pairs []string
	for i := 0; i < 10; i++ {
		pairs = append(pairs, "https://www.bbc.com/news/"+strings.Repeat("a", i+1), "Page without a position")
	}
	engine := &fakeSearcher{configured: true, hits: hits(pairs...)}

	v, err := NewWebProbe(engine, nil).Probe(context.Background(), "x")
	if v != nil || err != nil {
		t.Errorf("credible hits without verdict keywords must not boost confidence, got (%+v, %v)", v, err)
	}
}

func TestStaticProbe(t *testing.T) {
	p := NewStaticProbe(true)

	tests := []struct {
		claim      string
		verdict    model.Verdict
		confidence int
	}{
		{"The COVID vaccine was tested on 40000 people", model.VerdictDisputed, 60},
		{"Global temperature rose 1.1 degrees", model.VerdictTrue, 85},
		{"The Eiffel Tower is in Paris", model.VerdictUnverified, 50},
	}

	for _, tt := range tests {
		v, err := p.Probe(context.Background(), tt.claim)
		if err != nil || v == nil {
			t.Fatalf("Probe(%q): (%v, %v)", tt.claim, v, err)
		}
		if v.Verdict != tt.verdict || v.Confidence != tt.confidence {
			t.Errorf("Probe(%q) = %s/%d, want %s/%d", tt.claim, v.Verdict, v.Confidence, tt.verdict, tt.confidence)
		}
	}

	if v, _ := NewStaticProbe(false).Probe(context.Background(), "covid"); v != nil {
		t.Error("disabled static probe must be silent")
	}
}

// countingProbe counts calls
type countingProbe struct {
	calls   atomic.Int32
	verdict *model.SourceVerdict
}

func (c *countingProbe) Name() string  { return "counting" }
func (c *countingProbe) Enabled() bool { return true }
func (c *countingProbe) Probe(context.Context, string) (*model.SourceVerdict, error) {
	c.calls.Add(1)
	return c.verdict, nil
}

func TestCached_CallsOncePerClaim(t *testing.T) {
	inner := &countingProbe{verdict: &model.SourceVerdict{Verdict: model.VerdictTrue, Confidence: 70, Sources: []string{"https://a"}}}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	p := NewCached(inner, store, time.Minute, nil)

	for i := 0; i < 3; i++ {
		v, err := p.Probe(context.Background(), "Water boils at 100C")
		if err != nil || v == nil || v.Verdict != model.VerdictTrue || v.Confidence != 70 {
			t.Fatalf("unexpected result (%v, %v)", v, err)
		}
	}
	// Normalised key: same claim in different case
	_, _ = p.Probe(context.Background(), "water boils at 100c")

	if got := inner.calls.Load(); got != 1 {
		t.Errorf("expected 1 inner call, got %d", got)
	}
}

func TestCached_DoesNotCacheNoSignal(t *testing.T) {
	inner := &countingProbe{}
	p := NewCached(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, nil)

	_, _ = p.Probe(context.Background(), "x")
	_, _ = p.Probe(context.Background(), "x")

	if got := inner.calls.Load(); got != 2 {
		t.Errorf("expected no-signal results to bypass the cache, got %d calls", got)
	}
}

func TestNewCached_NilStore(t *testing.T) {
	inner := &countingProbe{}
	if NewCached(inner, nil, time.Minute, nil) != Probe(inner) {
		t.Error("expected inner probe returned unchanged")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := model.DefaultConfig()

	live := FromConfig(cfg, search.Client{}, nil, nil, nil)
	if len(live.Primary) != 5 {
		t.Errorf("expected 3 site probes + news + factcheck, got %d", len(live.Primary))
	}
	if live.Fallback == nil || live.Fallback.Name() != "web" {
		t.Error("expected web fallback")
	}
	if names := live.Enabled(); len(names) != 0 {
		t.Errorf("expected nothing enabled without credentials, got %v", names)
	}

	cfg.Probes.GoogleAPIKey = "k"
	cfg.Probes.GoogleCSEID = "cx"
	names := FromConfig(cfg, search.Client{}, nil, nil, nil).Enabled()
	if len(names) != 5 || names[0] != "site:snopes.com" || names[len(names)-1] != "web" {
		t.Errorf("unexpected enabled probes %v", names)
	}

	cfg.Probes.Mode = model.ProbeModeMock
	mock := FromConfig(cfg, search.Client{}, nil, nil, nil)
	if len(mock.Primary) != 1 || mock.Primary[0].Name() != "static" || mock.Fallback != nil {
		t.Errorf("unexpected mock set %+v", mock)
	}
}
