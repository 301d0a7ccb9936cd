package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveProbe(t *testing.T) {
	m := New()

	m.ObserveProbe("news", OutcomeSignal, 120*time.Millisecond)
	m.ObserveProbe("news", OutcomeSignal, 80*time.Millisecond)
	m.ObserveProbe("news", OutcomeError, time.Second)

	if got := testutil.ToFloat64(m.probeCalls.WithLabelValues("news", OutcomeSignal)); got != 2 {
		t.Errorf("Expected 2 signal calls, got %v", got)
	}
	if got := testutil.ToFloat64(m.probeCalls.WithLabelValues("news", OutcomeError)); got != 1 {
		t.Errorf("Expected 1 error call, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveVerdict("true")
	m.ObserveAnalysis("text", "verified", time.Second)
	m.ObserveCache(true)
	m.ObserveHTTP("/fact-check", http.StatusOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, name := range []string{
		"credence_claim_verdicts_total",
		"credence_analyses_total",
		"credence_cache_lookups_total",
		"credence_http_requests_total",
		"go_goroutines",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected %s in exposition output", name)
		}
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	m.ObserveProbe("x", OutcomeTimeout, time.Second)
	m.ObserveVerdict("true")
	m.ObserveAnalysis("text", "verified", time.Second)
	m.ObserveCache(false)
	m.ObserveHTTP("/", 200)

	if m.Registry() != nil {
		t.Error("Expected nil registry")
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 from nil metrics handler, got %d", rec.Code)
	}
}
