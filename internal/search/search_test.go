package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func withEndpoint(t *testing.T, target *string, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	old := *target
	*target = ts.URL
	t.Cleanup(func() {
		*target = old
		ts.Close()
	})
	return ts
}

func TestGoogle_Search(t *testing.T) {
	var captured *http.Request
	ts := withEndpoint(t, &googleSearchEndpoint, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[
			{"title":"Fact check: round Earth","link":"https://www.snopes.com/a","snippet":"Rating: True","displayLink":"www.snopes.com"},
			{"title":"Another","link":"https://www.politifact.com/b","snippet":"Mostly false","displayLink":"www.politifact.com"}
		]}`)
	})

	g := &Google{Client: Client{HTTP: ts.Client(), UserAgent: "credence-test"}, APIKey: "k", EngineID: "cx", Results: 50}

	hits, err := g.Search(context.Background(), `"The Earth is round" site:snopes.com`)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := captured.URL.Query()
	if q.Get("key") != "k" || q.Get("cx") != "cx" {
		t.Errorf("credentials not forwarded: %v", q)
	}
	if q.Get("num") != "10" {
		t.Errorf("num = %q, want clamped 10", q.Get("num"))
	}
	if q.Get("q") != `"The Earth is round" site:snopes.com` {
		t.Errorf("q = %q", q.Get("q"))
	}
	if captured.Header.Get("User-Agent") != "credence-test" {
		t.Errorf("User-Agent = %q", captured.Header.Get("User-Agent"))
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[1].Rank != 1 || hits[1].URL != "https://www.politifact.com/b" || hits[1].Source != "www.politifact.com" {
		t.Errorf("unexpected hit: %+v", hits[1])
	}
}

func TestGoogle_APIError(t *testing.T) {
	ts := withEndpoint(t, &googleSearchEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"Daily Limit Exceeded"}}`)
	})

	g := &Google{Client: Client{HTTP: ts.Client()}, APIKey: "k", EngineID: "cx"}

	_, err := g.Search(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Daily Limit Exceeded") || !strings.HasPrefix(err.Error(), "google search:") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGoogle_NotConfigured(t *testing.T) {
	called := false
	withEndpoint(t, &googleSearchEndpoint, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, g := range []*Google{nil, {APIKey: "k"}, {EngineID: "cx"}} {
		hits, err := g.Search(context.Background(), "x")
		if hits != nil || err != nil {
			t.Errorf("expected (nil, nil) without credentials, got (%v, %v)", hits, err)
		}
	}
	if called {
		t.Error("no request should be made without credentials")
	}
}

func TestNewsAPI_Search(t *testing.T) {
	var captured *http.Request
	ts := withEndpoint(t, &newsAPIEndpoint, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"status":"ok","totalResults":1,"articles":[
			{"source":{"name":"Reuters"},"title":"Fact check: claim is false","description":"Debunked","url":"https://www.reuters.com/x","publishedAt":"2024-03-01T10:00:00Z"}
		]}`)
	})

	n := &NewsAPI{Client: Client{HTTP: ts.Client()}, APIKey: "news-key"}

	hits, err := n.Search(context.Background(), "claim")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if captured.Header.Get("X-Api-Key") != "news-key" {
		t.Error("API key header missing")
	}
	if captured.URL.Query().Get("sortBy") != "relevancy" {
		t.Errorf("sortBy = %q", captured.URL.Query().Get("sortBy"))
	}

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Source != "Reuters" || hits[0].Snippet != "Debunked" || hits[0].Published.Year() != 2024 {
		t.Errorf("unexpected hit: %+v", hits[0])
	}
}

func TestNewsAPI_ErrorStatus(t *testing.T) {
	ts := withEndpoint(t, &newsAPIEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`)
	})

	n := &NewsAPI{Client: Client{HTTP: ts.Client()}, APIKey: "bad"}

	_, err := n.Search(context.Background(), "claim")
	if err == nil || !strings.Contains(err.Error(), "Your API key is invalid") {
		t.Errorf("expected API message in error, got %v", err)
	}
}

func TestSemanticScholar_Search(t *testing.T) {
	ts := withEndpoint(t, &semanticScholarEndpoint, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "3" {
			t.Errorf("limit = %q", r.URL.Query().Get("limit"))
		}
		fmt.Fprint(w, `{"total":2,"data":[
			{"paperId":"abc","title":"Global temperature trends","abstract":"We find...","year":2019,"venue":"Nature"},
			{"paperId":"def","title":"Second","url":"https://example.org/p","publicationDate":"2021-06-15"}
		]}`)
	})

	s := &SemanticScholar{Client: Client{HTTP: ts.Client()}, Enabled: true, Limit: 3}

	hits, err := s.Search(context.Background(), "global temperature")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].URL != "https://www.semanticscholar.org/paper/abc" {
		t.Errorf("expected paper page fallback URL, got %s", hits[0].URL)
	}
	if hits[0].Published.Year() != 2019 {
		t.Errorf("expected year fallback, got %v", hits[0].Published)
	}
	if hits[1].Published.Month() != 6 {
		t.Errorf("expected publication date, got %v", hits[1].Published)
	}
}

func TestSemanticScholar_Disabled(t *testing.T) {
	s := &SemanticScholar{}
	hits, err := s.Search(context.Background(), "x")
	if hits != nil || err != nil {
		t.Errorf("expected (nil, nil) when disabled, got (%v, %v)", hits, err)
	}
}
