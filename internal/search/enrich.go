package search

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/logger"
	"github.com/huangsam/marketscope/internal/resilience"
	"github.com/huangsam/marketscope/schema"
)

// Snippet limits for enrichment.
const (
	minSnippetRunes      = 80
	enrichedSnippetRunes = 400
)

// Enricher replaces very short snippets with an excerpt of the linked article.
type Enricher struct {
	inner contract.NewsSearcher
	http  *resilience.Client
}

var _ contract.NewsSearcher = &Enricher{} // Compile-time check

// WithEnrichment wraps inner so short snippets are filled from the article page.
func WithEnrichment(inner contract.NewsSearcher, hc *resilience.Client) *Enricher {
	return &Enricher{inner: inner, http: hc}
}

// Search delegates to the wrapped searcher, then enriches each short hit.
// An article that cannot be fetched keeps its original snippet.
func (e *Enricher) Search(ctx context.Context, target, query string) ([]schema.NewsHit, error) {
	hits, err := e.inner.Search(ctx, target, query)
	if err != nil {
		return nil, err
	}
	for i := range hits {
		if len([]rune(hits[i].Description)) >= minSnippetRunes || hits[i].URL == "" {
			continue
		}
		text, err := e.excerpt(ctx, hits[i].URL)
		if err != nil {
			logger.WithSource("enrich").WithField("key", hits[i].URL).WithError(err).Debug("article fetch failed")
			continue
		}
		if text != "" {
			hits[i].Description = text
		}
	}
	return hits, nil
}

// Name reports the wrapped provider.
func (e *Enricher) Name() string {
	return e.inner.Name()
}

func (e *Enricher) excerpt(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	body, err := e.http.GetBytes(ctx, pageURL)
	if err != nil {
		return "", err
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(article.Excerpt)
	if len([]rune(text)) < minSnippetRunes {
		text = strings.Join(strings.Fields(article.TextContent), " ")
	}
	return truncateRunes(text, enrichedSnippetRunes), nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
