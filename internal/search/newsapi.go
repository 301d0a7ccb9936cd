package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// newsAPIEndpoint is the NewsAPI "everything" endpoint. Declared as a var so
// tests can substitute an httptest server.
var newsAPIEndpoint = "https://newsapi.org/v2/everything"

const newsDefaultPageSize = 20

// NewsAPI queries newsapi.org sorted by relevancy
type NewsAPI struct {
	Client
	APIKey   string
	PageSize int
}

// Name returns the backend identifier
func (n *NewsAPI) Name() string { return "newsapi" }

// Configured reports whether an API key is set
func (n *NewsAPI) Configured() bool {
	return n != nil && n.APIKey != ""
}

// Search runs a relevancy-sorted query. The snippet of each hit is the article description.
func (n *NewsAPI) Search(ctx context.Context, query string) ([]Hit, error) {
	if !n.Configured() {
		return nil, nil
	}

	size := n.PageSize
	if size <= 0 {
		size = newsDefaultPageSize
	}

	params := url.Values{
		"q":        {query},
		"sortBy":   {"relevancy"},
		"language": {"en"},
		"pageSize": {strconv.Itoa(size)},
	}

	var resp newsResponse
	headers := map[string]string{"X-Api-Key": n.APIKey}
	if err := n.getJSON(ctx, newsAPIEndpoint+"?"+params.Encode(), headers, &resp, newsError); err != nil {
		return nil, fmt.Errorf("news search: %w", err)
	}
	if !strings.EqualFold(resp.Status, "ok") {
		return nil, fmt.Errorf("news search: status %q: %s", resp.Status, resp.Message)
	}

	hits := make([]Hit, 0, len(resp.Articles))
	for i, a := range resp.Articles {
		hit := Hit{
			Title:   a.Title,
			URL:     a.URL,
			Snippet: a.Description,
			Source:  a.Source.Name,
			Rank:    i,
		}
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			hit.Published = t
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func newsError(body []byte) string {
	var e newsResponse
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Message
}

type newsResponse struct {
	Status       string        `json:"status"`
	Code         string        `json:"code,omitempty"`
	Message      string        `json:"message,omitempty"`
	TotalResults int           `json:"totalResults"`
	Articles     []newsArticle `json:"articles"`
}

type newsArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}
