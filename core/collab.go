package core

import (
	"context"
	"fmt"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/country"
	"github.com/huangsam/marketscope/internal/narrative"
	"github.com/huangsam/marketscope/internal/resilience"
	"github.com/huangsam/marketscope/internal/search"
	"github.com/huangsam/marketscope/internal/tenders"
	"github.com/huangsam/marketscope/internal/worldbank"
)

// NewCollaborators builds the live data sources described by cfg.
// All HTTP collaborators share one rate-limited client.
// The narrator is only created when an LLM endpoint is configured.
func NewCollaborators(ctx context.Context, cfg *contract.Config) (Collaborators, error) {
	hc := resilience.NewClient(cfg.FetchTimeout, cfg.RateLimitRPM, resilience.DefaultRetryConfig())

	news, err := search.NewSearcher(cfg, hc)
	if err != nil {
		return Collaborators{}, fmt.Errorf("failed to set up news search: %w", err)
	}

	collab := Collaborators{
		Resolver:   country.NewResolver(),
		Indicators: worldbank.NewClient(hc, cfg.WorldBankURL),
		News:       news,
		Tenders:    tenders.NewCollector(hc),
	}

	if cfg.LLMBaseURL != "" {
		n, err := narrative.New(ctx, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMAPIKey)
		if err != nil {
			return Collaborators{}, err
		}
		collab.Narrator = n
	}
	return collab, nil
}
