package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/iocache"
	"github.com/huangsam/marketscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, output schema.OutputMode) *contract.Config {
	t.Helper()
	subject, err := schema.NewSubject(turkeySubject())
	require.NoError(t, err)
	return &contract.Config{
		Subject:       subject,
		Workers:       2,
		FetchTimeout:  time.Second,
		Output:        output,
		OutputFile:    filepath.Join(t.TempDir(), "out"),
		EvidenceLimit: contract.DefaultEvidenceLimit,
		CacheBackend:  schema.NoneBackend,
		Scoring:       schema.DefaultScoringConfig(),
	}
}

// TestRunAnalysisRecordsRun tests the full run tracking sequence.
func TestRunAnalysisRecordsRun(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)

	runStore := &iocache.MockRunStore{}
	runStore.On("BeginRun", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(3), nil)
	runStore.On("RecordScores", int64(3), mock.Anything, mock.Anything).Return(nil)
	runStore.On("RecordEvidence", int64(3), mock.Anything).Return(nil)
	runStore.On("EndRun", int64(3), mock.AnythingOfType("time.Time"), 7).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetFetchStore").Return(nil)
	mgr.On("GetRunStore").Return(runStore)

	result, err := runAnalysis(WithSuppressHeader(context.Background()), cfg, mgr, turkeyCollaborators(), nil)
	require.NoError(t, err)
	assert.Len(t, result.Evidence, 7)

	mgr.AssertExpectations(t)
	runStore.AssertExpectations(t)

	params := runStore.Calls[0].Arguments.Get(2).(map[string]any)
	assert.Equal(t, "Turkey", params["target_name"])
	assert.Equal(t, "country", params["target_type"])
	assert.Equal(t, result.RunID, runStore.Calls[0].Arguments.String(0))
}

func TestRunAnalysisTrackingFailuresAreNotFatal(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)

	t.Run("begin fails", func(t *testing.T) {
		runStore := &iocache.MockRunStore{}
		runStore.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("db locked"))
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetFetchStore").Return(nil)
		mgr.On("GetRunStore").Return(runStore)

		_, err := runAnalysis(WithSuppressHeader(context.Background()), cfg, mgr, turkeyCollaborators(), nil)
		require.NoError(t, err)
		runStore.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("later steps fail", func(t *testing.T) {
		runStore := &iocache.MockRunStore{}
		runStore.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
		runStore.On("RecordScores", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("x"))
		runStore.On("RecordEvidence", mock.Anything, mock.Anything).Return(errors.New("y"))
		runStore.On("EndRun", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("z"))
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetFetchStore").Return(nil)
		mgr.On("GetRunStore").Return(runStore)

		_, err := runAnalysis(WithSuppressHeader(context.Background()), cfg, mgr, turkeyCollaborators(), nil)
		require.NoError(t, err)
		runStore.AssertExpectations(t)
	})

	t.Run("none backend stops after begin", func(t *testing.T) {
		runStore := &iocache.MockRunStore{}
		runStore.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetFetchStore").Return(nil)
		mgr.On("GetRunStore").Return(runStore)

		_, err := runAnalysis(WithSuppressHeader(context.Background()), cfg, mgr, turkeyCollaborators(), nil)
		require.NoError(t, err)
		runStore.AssertNotCalled(t, "RecordScores", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRunAnalysisWithoutManager(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	result, err := runAnalysis(WithSuppressHeader(context.Background()), cfg, nil, turkeyCollaborators(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Evidence)
}

func TestRunAnalysisResolutionError(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	cfg.Subject.TargetName = "Atlantis"

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetFetchStore").Return(nil)

	_, err := runAnalysis(WithSuppressHeader(context.Background()), cfg, mgr, turkeyCollaborators(), nil)
	assert.ErrorIs(t, err, ErrSubjectResolution)
	mgr.AssertNotCalled(t, "GetRunStore")
}

func TestNewCollaborators(t *testing.T) {
	cfg := &contract.Config{NewsProvider: schema.BraveProvider, FetchTimeout: time.Second, RateLimitRPM: 60}

	collab, err := NewCollaborators(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, collab.Resolver)
	assert.NotNil(t, collab.Indicators)
	assert.NotNil(t, collab.Tenders)
	require.NotNil(t, collab.News)
	assert.Equal(t, schema.BraveSource, collab.News.Name())
	assert.Nil(t, collab.Narrator)

	cfg.NewsProvider = schema.SearXNGProvider
	_, err = NewCollaborators(context.Background(), cfg)
	assert.Error(t, err, "SearXNG needs a base URL")
}

func TestGetAnalysisResultBadTenderSources(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	cfg.NewsProvider = schema.BraveProvider
	cfg.TenderSourcesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := GetAnalysisResult(WithSuppressHeader(context.Background()), cfg, nil)
	assert.Error(t, err)
}

func writeStoredResult(t *testing.T) string {
	t.Helper()
	cfg := testConfig(t, schema.JSONOut)
	result, err := runAnalysis(WithSuppressHeader(context.Background()), cfg, nil, turkeyCollaborators(), nil)
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadAnalysisResult(t *testing.T) {
	path := writeStoredResult(t)

	result, err := LoadAnalysisResult(path)
	require.NoError(t, err)
	assert.Equal(t, "Turkey", result.Subject.TargetName)
	require.Len(t, result.Evidence, 7)
	require.NotNil(t, result.Evidence[0].Classification, "News keeps its classification")
	assert.Nil(t, result.Evidence[2].Classification, "Indicators have none")

	_, err = LoadAnalysisResult(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"run_id":"x"}`), 0o644))
	_, err = LoadAnalysisResult(bad)
	assert.ErrorContains(t, err, "no subject")
}

func TestExecuteRescore(t *testing.T) {
	path := writeStoredResult(t)
	cfg := testConfig(t, schema.JSONOut)
	scoring, err := schema.NewScoringConfig(map[string]float64{"political_risk": 1})
	require.NoError(t, err)
	cfg.Scoring = scoring

	require.NoError(t, ExecuteRescore(context.Background(), cfg, nil, path))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var rescored schema.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &rescored))
	assert.Equal(t, 50, rescored.Scores.OverallScore)
	assert.Equal(t, 1.0, rescored.ScoringConfig[schema.PoliticalRisk])
	assert.Len(t, rescored.Evidence, 7)
}

func TestExecuteStaticCommands(t *testing.T) {
	tests := []struct {
		name    string
		run     func(cfg *contract.Config) error
		contain string
	}{
		{"queries", func(cfg *contract.Config) error { return ExecuteQueries(context.Background(), cfg, nil) }, "HS code 4004 Turkey tariff"},
		{"weights", func(cfg *contract.Config) error { return ExecuteWeights(context.Background(), cfg, nil) }, "market_demand"},
		{"hscodes", func(cfg *contract.Config) error {
			return ExecuteHSCodes(context.Background(), cfg, nil, "rubber tiles")
		}, "4016"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, schema.JSONOut)
			require.NoError(t, tt.run(cfg))

			data, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			assert.True(t, json.Valid(data))
			assert.Contains(t, string(data), tt.contain)
		})
	}
}
