package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// ErrInvalidWeights is returned when a weight mapping cannot form a ScoringConfig.
var ErrInvalidWeights = errors.New("invalid scoring weights")

// GetDefaultWeights returns the default weight map for the scoring dimensions.
func GetDefaultWeights() map[Dimension]float64 {
	return map[Dimension]float64{
		MarketDemand:       0.35,
		TradeEase:          0.20,
		PoliticalRisk:      0.20,
		FinancialViability: 0.15,
		StrategicFit:       0.10,
	}
}

// ScoringConfig is an immutable set of non-negative dimension weights.
// The zero value weights every dimension at zero.
type ScoringConfig struct {
	weights map[Dimension]float64
}

// NewScoringConfig builds a ScoringConfig from a plain mapping keyed by dimension name.
// Missing dimensions are weighted zero. Unknown names and negative or non-finite
// weights are rejected.
func NewScoringConfig(raw map[string]float64) (ScoringConfig, error) {
	weights := make(map[Dimension]float64, len(ScoringDimensions))
	for _, dim := range ScoringDimensions {
		weights[dim] = 0
	}

	// Sorted so the first reported error is stable.
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]
		dim := Dimension(strings.ToLower(strings.TrimSpace(key)))
		if _, ok := ValidDimensions[dim]; !ok {
			return ScoringConfig{}, fmt.Errorf("%w: unknown dimension %q", ErrInvalidWeights, key)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
			return ScoringConfig{}, fmt.Errorf("%w: %s must be a non-negative number (received %v)", ErrInvalidWeights, key, value)
		}
		weights[dim] = value
	}

	return ScoringConfig{weights: weights}, nil
}

// DefaultScoringConfig returns the config built from GetDefaultWeights.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{weights: GetDefaultWeights()}
}

// Weight returns the raw weight of a dimension.
func (c ScoringConfig) Weight(dim Dimension) float64 {
	return c.weights[dim]
}

// Weights returns a copy of the raw weights with every dimension present.
func (c ScoringConfig) Weights() map[Dimension]float64 {
	out := make(map[Dimension]float64, len(ScoringDimensions))
	for _, dim := range ScoringDimensions {
		out[dim] = c.weights[dim]
	}
	return out
}

// Sum returns the total of the raw weights.
func (c ScoringConfig) Sum() float64 {
	total := 0.0
	for _, dim := range ScoringDimensions {
		total += c.weights[dim]
	}
	return total
}

// NormalizedWeights returns the weights scaled to sum to 1.0.
// An all-zero config divides by 1.0 and so stays all zero.
func (c ScoringConfig) NormalizedWeights() map[Dimension]float64 {
	total := c.Sum()
	if total == 0 {
		total = 1.0
	}
	out := make(map[Dimension]float64, len(ScoringDimensions))
	for _, dim := range ScoringDimensions {
		out[dim] = c.weights[dim] / total
	}
	return out
}

// MarshalJSON encodes the raw weights.
func (c ScoringConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Weights())
}

// ScoringConfigFromWeights is a convenience for typed maps, e.g. a stored result's config.
func ScoringConfigFromWeights(weights map[Dimension]float64) (ScoringConfig, error) {
	raw := make(map[string]float64, len(weights))
	for dim, w := range weights {
		raw[string(dim)] = w
	}
	return NewScoringConfig(raw)
}
