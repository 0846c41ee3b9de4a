// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints an analysis result using the configured output format.
func (ow *OutWriter) WriteAnalysis(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalysisResult(result, cfg, duration)
}

// WriteQueries prints a query plan using the configured output format.
func (ow *OutWriter) WriteQueries(plan schema.QueryPlan, cfg *contract.Config) error {
	return WriteQueryPlan(plan, cfg)
}

// WriteWeights prints the default and active scoring weights.
func (ow *OutWriter) WriteWeights(cfg *contract.Config) error {
	return WriteWeightsTable(cfg)
}

// WriteHSCodes prints HS code suggestions for a product description.
func (ow *OutWriter) WriteHSCodes(text string, matches []schema.HSCategory, cfg *contract.Config) error {
	return WriteHSCodeSuggestions(text, matches, cfg)
}
