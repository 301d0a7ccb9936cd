package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// googleSearchEndpoint is the Custom Search JSON API. Declared as a var so
// tests can substitute an httptest server.
var googleSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// googleMaxResults is the API's per-request ceiling
const googleMaxResults = 10

// Google queries the Google Custom Search JSON API
type Google struct {
	Client
	APIKey   string
	EngineID string
	Results  int
}

// Name returns the backend identifier
func (g *Google) Name() string { return "google" }

// Configured reports whether both the API key and the engine id are set
func (g *Google) Configured() bool {
	return g != nil && g.APIKey != "" && g.EngineID != ""
}

// Search runs the query and returns hits in rank order
func (g *Google) Search(ctx context.Context, query string) ([]Hit, error) {
	if !g.Configured() {
		return nil, nil
	}

	num := g.Results
	if num <= 0 || num > googleMaxResults {
		num = googleMaxResults
	}

	params := url.Values{
		"key": {g.APIKey},
		"cx":  {g.EngineID},
		"q":   {query},
		"num": {strconv.Itoa(num)},
	}

	var resp googleResponse
	if err := g.getJSON(ctx, googleSearchEndpoint+"?"+params.Encode(), nil, &resp, googleError); err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Items))
	for i, item := range resp.Items {
		hits = append(hits, Hit{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Source:  item.DisplayLink,
			Rank:    i,
		})
	}
	return hits, nil
}

func googleError(body []byte) string {
	var e googleResponse
	if json.Unmarshal(body, &e) != nil || e.Error == nil {
		return ""
	}
	return e.Error.Message
}

type googleResponse struct {
	Items []googleItem    `json:"items"`
	Error *googleAPIError `json:"error,omitempty"`
}

type googleItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

type googleAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
