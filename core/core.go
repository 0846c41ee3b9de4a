// Package core has core logic for market screening, evidence handling and scoring.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/outwriter"
	"github.com/huangsam/marketscope/internal/tenders"
	"github.com/huangsam/marketscope/schema"
)

// ExecuteAnalyze screens cfg.Subject and prints the result.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetAnalysisResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteAnalysis(result, cfg, duration)
}

// GetAnalysisResult screens cfg.Subject with the live collaborators and records
// the run when a run store is configured.
func GetAnalysisResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.AnalysisResult, error) {
	collab, err := NewCollaborators(ctx, cfg)
	if err != nil {
		return nil, err
	}
	feeds, err := tenders.LoadLocators(cfg.TenderSourcesFile)
	if err != nil {
		return nil, err
	}
	return runAnalysis(ctx, cfg, mgr, collab, feeds)
}

// runAnalysis is GetAnalysisResult with the collaborators already built.
func runAnalysis(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, collab Collaborators, extraFeeds []string) (*schema.AnalysisResult, error) {
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut && cfg.OutputFile == "" {
		outwriter.LogAnalysisHeader(cfg)
	}

	if mgr != nil {
		collab = WithFetchCache(collab, mgr.GetFetchStore())
	}

	start := time.Now()
	scoring := cfg.Scoring
	result, err := AnalyzeSubject(ctx, cfg.Subject, &scoring, collab, Options{
		Workers:          cfg.Workers,
		FetchTimeout:     cfg.FetchTimeout,
		MaxNewsResults:   cfg.NewsMaxResults,
		ExtraTenderFeeds: extraFeeds,
	})
	if err != nil {
		return nil, err
	}

	if mgr != nil {
		recordRun(mgr.GetRunStore(), cfg, result, start)
	}
	return result, nil
}

// recordRun persists a finished run. Tracking failures never fail the analysis.
func recordRun(store contract.RunStore, cfg *contract.Config, result *schema.AnalysisResult, start time.Time) {
	if store == nil {
		return
	}

	configParams := map[string]any{
		"target_name":   result.Subject.TargetName,
		"target_type":   string(result.Subject.TargetType),
		"products":      result.Subject.Products,
		"workers":       cfg.Workers,
		"fetch_timeout": cfg.FetchTimeout.String(),
		"news_provider": string(cfg.NewsProvider),
		"weights":       result.ScoringConfig,
	}
	runID, err := store.BeginRun(result.RunID, start, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return
	}
	if runID <= 0 {
		return
	}

	if err := store.RecordScores(runID, result.Subject, result.Scores); err != nil {
		contract.LogWarn("Failed to record run scores", err)
	}
	if err := store.RecordEvidence(runID, result.Evidence); err != nil {
		contract.LogWarn("Failed to record run evidence", err)
	}
	if err := store.EndRun(runID, time.Now(), len(result.Evidence)); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// GetQueryPlan returns the search plan of a subject without fetching anything.
func GetQueryPlan(subject schema.Subject) schema.QueryPlan {
	return schema.QueryPlan{
		Subject:          subject,
		Queries:          BuildQueries(subject),
		TenderKeywords:   TenderKeywords(subject),
		SuggestedHSCodes: SuggestHSCodes(strings.Join(subject.Products, " ")),
	}
}

// ExecuteQueries prints the query plan of cfg.Subject.
func ExecuteQueries(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.NewOutWriter().WriteQueries(GetQueryPlan(cfg.Subject), cfg)
}

// LoadAnalysisResult reads a result previously written with --output json.
func LoadAnalysisResult(path string) (*schema.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}
	var result schema.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse result file %s: %w", path, err)
	}
	if result.Subject.TargetName == "" {
		return nil, fmt.Errorf("result file %s has no subject", path)
	}
	return &result, nil
}

// ExecuteRescore rescores a stored result with the active weights and prints it.
func ExecuteRescore(_ context.Context, cfg *contract.Config, _ contract.CacheManager, path string) error {
	start := time.Now()
	stored, err := LoadAnalysisResult(path)
	if err != nil {
		return err
	}
	result := Rescore(stored, cfg.Scoring)
	return outwriter.NewOutWriter().WriteAnalysis(result, cfg, time.Since(start))
}

// ExecuteWeights displays the default and active scoring weights.
// This is a static display that does not fetch anything.
func ExecuteWeights(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.NewOutWriter().WriteWeights(cfg)
}

// ExecuteHSCodes prints the HS categories matched by text.
func ExecuteHSCodes(_ context.Context, cfg *contract.Config, _ contract.CacheManager, text string) error {
	return outwriter.NewOutWriter().WriteHSCodes(text, MatchHSCategories(text), cfg)
}
