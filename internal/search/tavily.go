package search

import (
	"context"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/resilience"
	"github.com/huangsam/marketscope/schema"
)

// Tavily queries the Tavily search API.
type Tavily struct {
	http     *resilience.Client
	endpoint string
	apiKey   string
}

var _ contract.NewsSearcher = &Tavily{} // Compile-time check

// NewTavily returns a Tavily searcher. An empty endpoint selects the public API.
func NewTavily(hc *resilience.Client, endpoint, apiKey string) *Tavily {
	if endpoint == "" {
		endpoint = contract.DefaultTavilyURL
	}
	return &Tavily{http: hc, endpoint: endpoint, apiKey: apiKey}
}

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	Topic       string `json:"topic"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"published_date"`
	} `json:"results"`
}

// Search runs one basic-depth news query.
func (c *Tavily) Search(ctx context.Context, _ string, query string) ([]schema.NewsHit, error) {
	req := tavilyRequest{
		Query:       query,
		SearchDepth: "basic",
		Topic:       "news",
		MaxResults:  resultsPerQuery,
	}

	var resp tavilyResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := c.http.PostJSON(ctx, c.endpoint, headers, req, &resp); err != nil {
		return nil, err
	}

	hits := make([]schema.NewsHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hits = append(hits, schema.NewsHit{Title: r.Title, URL: r.URL, Description: r.Content, Age: r.PublishedDate})
	}
	return hits, nil
}

// Name returns the provider display name.
func (c *Tavily) Name() string {
	return TavilyName
}
