package country

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
	}{
		{"english name", "Germany", "DE"},
		{"lower case with spaces", "  japan ", "JP"},
		{"alpha-2 code", "BR", "BR"},
		{"alpha-3 code", "KEN", "KE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewResolver().Resolve(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.NotEmpty(t, got.Name)
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := NewResolver().Resolve(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCountry))
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestResolveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver().Resolve(ctx, "Germany")
	assert.ErrorIs(t, err, context.Canceled)
}
