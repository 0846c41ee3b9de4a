// Package search implements the news discovery providers behind contract.NewsSearcher.
package search

import (
	"context"
	"fmt"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/logger"
	"github.com/huangsam/marketscope/internal/resilience"
	"github.com/huangsam/marketscope/schema"
)

// Display names stamped on news evidence.
const (
	BraveName   = schema.BraveSource
	TavilyName  = "Tavily"
	SearXNGName = "SearXNG"
)

// resultsPerQuery is how many hits each provider is asked for per query.
const resultsPerQuery = 5

// NewSearcher builds the searcher selected by cfg.NewsProvider.
// A provider without credentials degrades to a searcher that finds nothing.
func NewSearcher(cfg *contract.Config, hc *resilience.Client) (contract.NewsSearcher, error) {
	var searcher contract.NewsSearcher

	switch cfg.NewsProvider {
	case schema.BraveProvider, "":
		if cfg.BraveAPIKey == "" {
			logger.WithSource("search").Warn("BRAVE_API_KEY not set, skipping news search")
			return Noop{name: BraveName}, nil
		}
		searcher = NewBrave(hc, cfg.BraveURL, cfg.BraveAPIKey)
	case schema.TavilyProvider:
		if cfg.TavilyAPIKey == "" {
			logger.WithSource("search").Warn("tavily api key not set, skipping news search")
			return Noop{name: TavilyName}, nil
		}
		searcher = NewTavily(hc, cfg.TavilyURL, cfg.TavilyAPIKey)
	case schema.SearXNGProvider:
		if cfg.SearXNGURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		searcher = NewSearXNG(hc, cfg.SearXNGURL)
	default:
		return nil, fmt.Errorf("unknown news provider: %s", cfg.NewsProvider)
	}

	if cfg.NewsEnrich {
		searcher = WithEnrichment(searcher, hc)
	}
	return searcher, nil
}

// Noop is the searcher used when a provider has no credentials.
type Noop struct {
	name string
}

var _ contract.NewsSearcher = Noop{} // Compile-time check

// Search returns no hits.
func (Noop) Search(context.Context, string, string) ([]schema.NewsHit, error) {
	return nil, nil
}

// Name returns the display name of the unconfigured provider.
func (n Noop) Name() string {
	return n.name
}
