package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextFlags(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.False(t, shouldRefreshCache(ctx))

	ctx = WithSuppressHeader(ctx)
	assert.True(t, shouldSuppressHeader(ctx))
	assert.False(t, shouldRefreshCache(ctx))

	ctx = WithRefreshCache(ctx)
	assert.True(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldRefreshCache(ctx))

	wrong := context.WithValue(context.Background(), suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(wrong), "Non-bool values are ignored")
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithRefreshCache(WithSuppressHeader(context.Background()))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", i)
			assert.True(t, shouldRefreshCache(ctx), "Goroutine %d: shouldRefreshCache should be true", i)
		})
	}
	wg.Wait()
}
