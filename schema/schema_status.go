package schema

import "time"

// CacheStatus represents the status of the fetch cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// RunStatus represents the status of the run history store.
type RunStatus struct {
	Backend            string           `json:"backend"`
	Connected          bool             `json:"connected"`
	TotalRuns          int              `json:"total_runs"`
	LastRunID          int64            `json:"last_run_id"`
	LastRunTime        time.Time        `json:"last_run_time"`
	OldestRunTime      time.Time        `json:"oldest_run_time"`
	TotalEvidenceItems int              `json:"total_evidence_items"`
	TableSizes         map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the marketscope_runs table.
type RunRecord struct {
	RunID             int64
	RunUUID           string
	TargetName        string
	TargetType        string
	StartTime         time.Time
	EndTime           *time.Time
	RunDurationMs     *int
	EvidenceCount     int
	OverallScore      *int
	Confidence        *int
	DimensionalScores *string // JSON encoded schema.DimensionalScores
	ConfigParams      *string
}

// EvidenceRecord represents a row from the marketscope_evidence table.
type EvidenceRecord struct {
	RunID          int64
	Position       int
	Title          string
	URL            string
	Summary        string
	Age            string
	Source         string
	SignalType     string
	Domain         string
	Quality        string
	Severity       *string
	KeywordHits    *int
	RelevanceScore *int
}
