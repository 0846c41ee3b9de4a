// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/marketscope/schema"
)

// TargetResolver turns a free-form target name into a canonical country identity.
type TargetResolver interface {
	// Resolve returns the ISO alpha-2 code and canonical name, or an error if no country matches.
	Resolve(ctx context.Context, name string) (schema.ResolvedTarget, error)
}

// IndicatorSource retrieves macro and indicator data for a country.
// This allows the pipeline to be tested without a network connection.
type IndicatorSource interface {
	// GetMacroData returns GDP, population and coordinates. Any field may be nil.
	GetMacroData(ctx context.Context, countryCode string) (schema.MacroData, error)

	// GetIndicatorSeries returns the latest value of an indicator, or nil when none is published.
	GetIndicatorSeries(ctx context.Context, countryCode, indicator string) (*float64, error)
}

// NewsSearcher runs one web search for a target.
type NewsSearcher interface {
	// Search returns the hits for a single query.
	Search(ctx context.Context, target, query string) ([]schema.NewsHit, error)

	// Name is the display name of the provider, used as evidence source.
	Name() string
}

// TenderCollector reads one tender feed.
type TenderCollector interface {
	// Collect returns the postings of the feed identified by locator.
	Collect(ctx context.Context, locator string) ([]schema.TenderPosting, error)
}

// Narrator writes a short natural-language summary of a finished analysis.
type Narrator interface {
	Summarize(ctx context.Context, result *schema.AnalysisResult) (string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetFetchStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking analysis runs and their outcomes.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(runUUID string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, evidenceCount int) error

	// RecordScores stores the scoring outcome of a run
	RecordScores(runID int64, subject schema.Subject, scores schema.ScoreResult) error

	// RecordEvidence stores the deduplicated evidence of a run
	RecordEvidence(runID int64, items []schema.EvidenceItem) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns retrieves all stored runs ordered by id
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllEvidence retrieves all stored evidence ordered by run and position
	GetAllEvidence() ([]schema.EvidenceRecord, error)

	// Close closes the underlying connection
	Close() error
}
