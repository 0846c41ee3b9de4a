package search

import (
	"context"
	"net/url"
	"strconv"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/resilience"
	"github.com/huangsam/marketscope/schema"
)

// Brave queries the Brave web search API.
type Brave struct {
	http     *resilience.Client
	endpoint string
	apiKey   string
}

var _ contract.NewsSearcher = &Brave{} // Compile-time check

// NewBrave returns a Brave searcher. An empty endpoint selects the public API.
func NewBrave(hc *resilience.Client, endpoint, apiKey string) *Brave {
	if endpoint == "" {
		endpoint = contract.DefaultBraveURL
	}
	return &Brave{http: hc, endpoint: endpoint, apiKey: apiKey}
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Age         string `json:"age"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs one query restricted to the past year.
func (b *Brave) Search(ctx context.Context, _ string, query string) ([]schema.NewsHit, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(resultsPerQuery))
	params.Set("freshness", "py")

	var resp braveResponse
	headers := map[string]string{"X-Subscription-Token": b.apiKey}
	if err := b.http.GetJSON(ctx, b.endpoint+"?"+params.Encode(), headers, &resp); err != nil {
		return nil, err
	}

	hits := make([]schema.NewsHit, 0, len(resp.Web.Results))
	for _, r := range resp.Web.Results {
		hits = append(hits, schema.NewsHit{Title: r.Title, URL: r.URL, Description: r.Description, Age: r.Age})
	}
	return hits, nil
}

// Name returns the provider display name.
func (b *Brave) Name() string {
	return BraveName
}
