package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// semanticScholarEndpoint is the Semantic Scholar paper search endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticScholarEndpoint = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,url,year,publicationDate,venue"

// SemanticScholar searches academic papers. It works without a key at a lower rate limit.
type SemanticScholar struct {
	Client
	APIKey  string
	Enabled bool
	Limit   int
}

// Name returns the backend identifier
func (s *SemanticScholar) Name() string { return "semantic_scholar" }

// Configured reports whether academic search is switched on
func (s *SemanticScholar) Configured() bool {
	return s != nil && s.Enabled
}

// Search returns papers matching the query
func (s *SemanticScholar) Search(ctx context.Context, query string) ([]Hit, error) {
	if !s.Configured() {
		return nil, nil
	}

	limit := s.Limit
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	var headers map[string]string
	if s.APIKey != "" {
		headers = map[string]string{"x-api-key": s.APIKey}
	}

	var resp semanticResponse
	if err := s.getJSON(ctx, semanticScholarEndpoint+"?"+params.Encode(), headers, &resp, nil); err != nil {
		return nil, fmt.Errorf("semantic scholar search: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Data))
	for i, paper := range resp.Data {
		link := paper.URL
		if link == "" && paper.PaperID != "" {
			link = "https://www.semanticscholar.org/paper/" + paper.PaperID
		}

		hit := Hit{
			Title:   paper.Title,
			URL:     link,
			Snippet: paper.Abstract,
			Source:  paper.Venue,
			Rank:    i,
		}
		if paper.PublicationDate != "" {
			if t, err := time.Parse("2006-01-02", paper.PublicationDate); err == nil {
				hit.Published = t
			}
		} else if paper.Year > 0 {
			hit.Published = time.Date(paper.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string `json:"paperId"`
	Title           string `json:"title"`
	Abstract        string `json:"abstract"`
	URL             string `json:"url"`
	Venue           string `json:"venue"`
	Year            int    `json:"year"`
	PublicationDate string `json:"publicationDate"`
}
