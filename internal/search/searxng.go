package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/resilience"
	"github.com/huangsam/marketscope/schema"
)

// userAgent avoids the bot filter some SearXNG instances apply to default clients.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// SearXNG queries a self-hosted SearXNG instance.
type SearXNG struct {
	http    *resilience.Client
	baseURL string
}

var _ contract.NewsSearcher = &SearXNG{} // Compile-time check

// NewSearXNG returns a searcher for the instance at baseURL.
func NewSearXNG(hc *resilience.Client, baseURL string) *SearXNG {
	return &SearXNG{http: hc, baseURL: baseURL}
}

type searxngResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Content       string `json:"content"`
		PublishedDate string `json:"publishedDate"`
	} `json:"results"`
}

// Search runs one query in the news category and keeps the first few hits.
func (s *SearXNG) Search(ctx context.Context, _ string, query string) ([]schema.NewsHit, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/search"

	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("categories", "news")
	u.RawQuery = q.Encode()

	var resp searxngResponse
	if err := s.http.GetJSON(ctx, u.String(), map[string]string{"User-Agent": userAgent}, &resp); err != nil {
		return nil, err
	}

	results := resp.Results
	if len(results) > resultsPerQuery {
		results = results[:resultsPerQuery]
	}
	hits := make([]schema.NewsHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, schema.NewsHit{Title: r.Title, URL: r.URL, Description: r.Content, Age: r.PublishedDate})
	}
	return hits, nil
}

// Name returns the provider display name.
func (s *SearXNG) Name() string {
	return SearXNGName
}
