// Package tenders reads procurement postings from RSS, Atom and JSON feeds.
package tenders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/resilience"
	"github.com/huangsam/marketscope/schema"
	"github.com/mmcdole/gofeed"
)

// jsonPrefix marks a locator whose feed is JSON regardless of its extension.
const jsonPrefix = "json:"

// Collector fetches tender feeds over HTTP.
type Collector struct {
	http *resilience.Client
}

var _ contract.TenderCollector = &Collector{} // Compile-time check

// NewCollector returns a collector that fetches through hc.
func NewCollector(hc *resilience.Client) *Collector {
	return &Collector{http: hc}
}

// Collect fetches one feed. A "json:" prefix or ".json" suffix selects the JSON
// reader; every other locator is parsed as RSS or Atom.
func (c *Collector) Collect(ctx context.Context, locator string) ([]schema.TenderPosting, error) {
	target, isJSON := splitLocator(locator)
	body, err := c.http.GetBytes(ctx, target)
	if err != nil {
		return nil, err
	}
	if isJSON {
		return ParseJSON(body)
	}
	return ParseFeed(body)
}

func splitLocator(locator string) (string, bool) {
	locator = strings.TrimSpace(locator)
	if rest, ok := strings.CutPrefix(locator, jsonPrefix); ok {
		return rest, true
	}
	return locator, strings.HasSuffix(strings.ToLower(locator), ".json")
}

// ParseFeed reads RSS or Atom items. Atom entries without a summary fall back to their content.
func ParseFeed(data []byte) ([]schema.TenderPosting, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tender feed: %w", err)
	}

	postings := make([]schema.TenderPosting, 0, len(feed.Items))
	for _, item := range feed.Items {
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		date := item.Published
		if date == "" {
			date = item.Updated
		}
		postings = append(postings, schema.TenderPosting{
			Title:   strings.TrimSpace(item.Title),
			URL:     strings.TrimSpace(item.Link),
			Summary: strings.TrimSpace(summary),
			Date:    strings.TrimSpace(date),
		})
	}
	return postings, nil
}

// ParseJSON reads either a bare list of items or an object with an "items" list.
func ParseJSON(data []byte) ([]schema.TenderPosting, error) {
	var items []map[string]any

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Items []map[string]any `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to parse tender JSON: %w", err)
		}
		items = wrapper.Items
	} else if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to parse tender JSON: %w", err)
	}

	postings := make([]schema.TenderPosting, 0, len(items))
	for _, item := range items {
		postings = append(postings, schema.TenderPosting{
			Title:   field(item, "title"),
			URL:     field(item, "url", "link"),
			Summary: field(item, "summary", "description"),
			Date:    field(item, "date", "published"),
		})
	}
	return postings, nil
}

// field returns the first present key as a string.
func field(item map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := item[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
		return fmt.Sprint(v)
	}
	return ""
}
