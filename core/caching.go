package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/logger"
	"github.com/huangsam/marketscope/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// Freshness windows per kind of fetched data.
const (
	indicatorCacheTTL = 24 * time.Hour
	newsCacheTTL      = time.Hour
	tenderCacheTTL    = time.Hour
)

// WithFetchCache wraps the data collaborators so their responses are cached
// in store. Resolver and Narrator are left untouched. A nil store returns
// collab unchanged.
func WithFetchCache(collab Collaborators, store contract.CacheStore) Collaborators {
	if store == nil {
		return collab
	}
	if collab.Indicators != nil {
		collab.Indicators = &cachedIndicators{inner: collab.Indicators, store: store}
	}
	if collab.News != nil {
		collab.News = &cachedNews{inner: collab.News, store: store}
	}
	if collab.Tenders != nil {
		collab.Tenders = &cachedTenders{inner: collab.Tenders, store: store}
	}
	return collab
}

type cachedIndicators struct {
	inner contract.IndicatorSource
	store contract.CacheStore
}

var _ contract.IndicatorSource = &cachedIndicators{}

func (c *cachedIndicators) GetMacroData(ctx context.Context, countryCode string) (schema.MacroData, error) {
	key := generateCacheKey("macro", countryCode)
	return cachedFetch(ctx, c.store, key, indicatorCacheTTL, func() (schema.MacroData, error) {
		return c.inner.GetMacroData(ctx, countryCode)
	})
}

func (c *cachedIndicators) GetIndicatorSeries(ctx context.Context, countryCode, indicator string) (*float64, error) {
	key := generateCacheKey("indicator", countryCode, indicator)
	return cachedFetch(ctx, c.store, key, indicatorCacheTTL, func() (*float64, error) {
		return c.inner.GetIndicatorSeries(ctx, countryCode, indicator)
	})
}

type cachedNews struct {
	inner contract.NewsSearcher
	store contract.CacheStore
}

var _ contract.NewsSearcher = &cachedNews{}

func (c *cachedNews) Search(ctx context.Context, target, query string) ([]schema.NewsHit, error) {
	key := generateCacheKey("news", c.inner.Name(), target, query)
	return cachedFetch(ctx, c.store, key, newsCacheTTL, func() ([]schema.NewsHit, error) {
		return c.inner.Search(ctx, target, query)
	})
}

func (c *cachedNews) Name() string {
	return c.inner.Name()
}

type cachedTenders struct {
	inner contract.TenderCollector
	store contract.CacheStore
}

var _ contract.TenderCollector = &cachedTenders{}

func (c *cachedTenders) Collect(ctx context.Context, locator string) ([]schema.TenderPosting, error) {
	key := generateCacheKey("tender", locator)
	return cachedFetch(ctx, c.store, key, tenderCacheTTL, func() ([]schema.TenderPosting, error) {
		return c.inner.Collect(ctx, locator)
	})
}

// cachedFetch serves key from store when fresh, otherwise computes and stores it.
// Errors are never cached.
func cachedFetch[T any](ctx context.Context, store contract.CacheStore, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if !shouldRefreshCache(ctx) {
		if result, ok := checkCacheHit[T](store, key, ttl); ok {
			return result, nil
		}
	}
	return computeAndStore(store, key, compute)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit[T any](store contract.CacheStore, key string, ttl time.Duration) (T, bool) {
	var result T
	data, version, ts, err := store.Get(key)
	if err != nil {
		return result, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > ttl {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

// computeAndStore computes the result and stores it in cache
func computeAndStore[T any](store contract.CacheStore, key string, compute func() (T, error)) (T, error) {
	result, err := compute()
	if err != nil {
		return result, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			logger.WithSource("cache").WithError(err).Debug("cache write failed")
		}
	}

	return result, nil
}

// generateCacheKey creates a unique key from the fetch kind and its arguments
func generateCacheKey(kind string, parts ...string) string {
	key := fmt.Sprintf("%s:%s", kind, strings.Join(parts, "\x1f"))
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
