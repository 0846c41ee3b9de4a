package core

import "context"

// Context keys for analysis options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	refreshCacheKey   contextKey = "refreshCache"
)

// WithSuppressHeader marks the context so progress headers are not printed.
// MCP and HTTP callers use it to keep stdout clean.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// WithRefreshCache makes cached fetches skip reads but still write fresh entries.
func WithRefreshCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshCacheKey, true)
}

// shouldRefreshCache returns whether cache reads should be bypassed
func shouldRefreshCache(ctx context.Context) bool {
	val := ctx.Value(refreshCacheKey)
	if val == nil {
		return false // default: read from cache
	}
	refresh, ok := val.(bool)
	return ok && refresh
}
