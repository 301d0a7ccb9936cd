// Package aggregate fans a claim out to every probe and reduces their verdicts to one.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/probe"
)

// DefaultProbeTimeout bounds a single probe call
const DefaultProbeTimeout = 10 * time.Second

// Returned when neither the probes nor the fallback produced a signal
const (
	NoSignalConfidence  = 25
	NoSignalExplanation = "No external signal found for this claim."
)

// Aggregator runs probes concurrently and reduces their verdicts
type Aggregator struct {
	probes   []probe.Probe
	fallback probe.Probe
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithTimeout sets the per-probe call timeout
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the logger used for absorbed probe failures
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics records probe outcomes and verdicts
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// New creates an aggregator over set
func New(set probe.Set, opts ...Option) *Aggregator {
	a := &Aggregator{
		probes:   set.Primary,
		fallback: set.Fallback,
		timeout:  DefaultProbeTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate returns the fused verdict for claim. It never fails: probe errors,
// panics and timeouts count as no signal.
func (a *Aggregator) Aggregate(ctx context.Context, claim string) model.SourceVerdict {
	results := a.collect(ctx, claim)

	if len(results) == 0 && a.fallback != nil && a.fallback.Enabled() {
		if v := a.call(ctx, a.fallback, claim); v != nil {
			results = append(results, *v)
		}
	}

	verdict := Reduce(results)
	a.metrics.ObserveVerdict(string(verdict.Verdict))
	return verdict
}

// collect runs every enabled probe concurrently and waits for all of them.
// Results keep probe registration order.
func (a *Aggregator) collect(ctx context.Context, claim string) []model.SourceVerdict {
	var enabled []probe.Probe
	for _, p := range a.probes {
		if p.Enabled() {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	slots := make([]*model.SourceVerdict, len(enabled))
	var wg sync.WaitGroup

	for i, p := range enabled {
		wg.Add(1)
		go func(idx int, p probe.Probe) {
			defer wg.Done()
			slots[idx] = a.call(ctx, p, claim)
		}(i, p)
	}
	wg.Wait()

	results := make([]model.SourceVerdict, 0, len(slots))
	for _, v := range slots {
		if v != nil {
			results = append(results, *v)
		}
	}
	return results
}

type callResult struct {
	verdict *model.SourceVerdict
	err     error
}

// call runs one probe under its own timeout. A probe that ignores
// cancellation is abandoned once the timeout fires.
func (a *Aggregator) call(ctx context.Context, p probe.Probe, claim string) *model.SourceVerdict {
	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	ch := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- callResult{err: fmt.Errorf("probe panic: %v", r)}
			}
		}()
		v, err := p.Probe(callCtx, claim)
		ch <- callResult{verdict: v, err: err}
	}()

	var res callResult
	select {
	case res = <-ch:
	case <-callCtx.Done():
		res = callResult{err: callCtx.Err()}
	}

	elapsed := time.Since(start)
	switch {
	case res.err != nil:
		outcome := metrics.OutcomeError
		if errors.Is(res.err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		a.metrics.ObserveProbe(p.Name(), outcome, elapsed)
		a.logger.Warn("probe failed",
			"probe", p.Name(),
			"outcome", outcome,
			"elapsed", elapsed,
			"error", res.err,
		)
		return nil
	case res.verdict == nil:
		a.metrics.ObserveProbe(p.Name(), metrics.OutcomeNoSignal, elapsed)
		a.logger.Debug("probe returned no signal", "probe", p.Name(), "elapsed", elapsed)
		return nil
	default:
		a.metrics.ObserveProbe(p.Name(), metrics.OutcomeSignal, elapsed)
		v := *res.verdict
		if v.Probe == "" {
			v.Probe = p.Name()
		}
		v.Sources = append([]string(nil), v.Sources...)
		return &v
	}
}

// Reduce fuses collected verdicts.
//
// No results yields the no-signal verdict. One result is returned clamped.
// Two or more yield the most frequent verdict (ties go to the verdict seen
// first), the rounded mean confidence and the URL-deduplicated union of sources.
func Reduce(results []model.SourceVerdict) model.SourceVerdict {
	switch len(results) {
	case 0:
		return model.SourceVerdict{
			Verdict:     model.VerdictUnverified,
			Explanation: NoSignalExplanation,
			Confidence:  NoSignalConfidence,
		}
	case 1:
		v := results[0]
		v.Confidence = model.ClampConfidence(v.Confidence)
		v.Sources = dedupe(v.Sources)
		return v
	}

	counts := make(map[model.Verdict]int)
	var order []model.Verdict
	sum := 0
	var sources [][]string

	for _, r := range results {
		if counts[r.Verdict] == 0 {
			order = append(order, r.Verdict)
		}
		counts[r.Verdict]++
		sum += model.ClampConfidence(r.Confidence)
		sources = append(sources, r.Sources)
	}

	mode := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[mode] {
			mode = v
		}
	}

	n := len(results)
	return model.SourceVerdict{
		Verdict:     mode,
		Explanation: fmt.Sprintf("%d sources indicate: %s.", n, mode),
		Confidence:  model.ClampConfidence(int(math.Round(float64(sum) / float64(n)))),
		Sources:     dedupe(sources...),
		Aggregated:  true,
		SourceCount: n,
	}
}

// dedupe unions URL lists keeping first occurrences
func dedupe(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, u := range list {
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
