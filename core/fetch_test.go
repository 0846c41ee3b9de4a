package core

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOutPreservesOrder(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}

	results := FanOut(context.Background(), 3, time.Second, keys, func(_ context.Context, key string) (string, error) {
		if key == "a" {
			time.Sleep(20 * time.Millisecond)
		}
		return key + "!", nil
	})

	require.Len(t, results, len(keys))
	for i, r := range results {
		assert.Equal(t, keys[i], r.Key)
		assert.Equal(t, keys[i]+"!", r.Value)
		assert.True(t, r.OK())
	}
}

func TestFanOutBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	keys := make([]string, 20)
	for i := range keys {
		keys[i] = string(rune('a' + i))
	}

	FanOut(context.Background(), 4, time.Second, keys, func(_ context.Context, _ string) (int, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return 0, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(4))
	assert.Positive(t, peak.Load())
}

// TestFanOutIsolatesFailures tests that one bad fetch never affects the others.
func TestFanOutIsolatesFailures(t *testing.T) {
	boom := errors.New("boom")
	keys := []string{"ok", "err", "panic", "slow"}

	results := FanOut(context.Background(), 2, 50*time.Millisecond, keys, func(ctx context.Context, key string) (int, error) {
		switch key {
		case "err":
			return 7, boom
		case "panic":
			panic("kaboom")
		case "slow":
			<-ctx.Done()
			return 9, nil
		}
		return 1, nil
	})

	assert.True(t, results[0].OK())
	assert.Equal(t, 1, results[0].Value)

	assert.ErrorIs(t, results[1].Err, boom)
	assert.Zero(t, results[1].Value, "Failed fetches keep the zero value")

	assert.ErrorContains(t, results[2].Err, "panicked")
	assert.Zero(t, results[2].Value)

	assert.ErrorIs(t, results[3].Err, context.DeadlineExceeded, "An expired fetch counts as failed")
	assert.Zero(t, results[3].Value)
}

func TestFanOutEmpty(t *testing.T) {
	results := FanOut(context.Background(), 4, time.Second, nil, func(_ context.Context, _ string) (int, error) {
		t.Fatal("fetch should not run")
		return 0, nil
	})
	assert.Empty(t, results)
}

func TestFanOutCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := FanOut(ctx, 2, time.Second, []string{"a", "b"}, func(_ context.Context, _ string) (int, error) {
		return 1, nil
	})
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
