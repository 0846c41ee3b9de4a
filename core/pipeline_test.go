package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/marketscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	known map[string]schema.ResolvedTarget
}

func (f *fakeResolver) Resolve(_ context.Context, name string) (schema.ResolvedTarget, error) {
	if r, ok := f.known[strings.ToLower(name)]; ok {
		return r, nil
	}
	return schema.ResolvedTarget{}, errors.New("unknown country")
}

type fakeIndicators struct {
	macro    schema.MacroData
	macroErr error
	values   map[string]float64
	failing  map[string]bool
	delay    time.Duration
}

func (f *fakeIndicators) GetMacroData(ctx context.Context, _ string) (schema.MacroData, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return schema.MacroData{}, ctx.Err()
		}
	}
	return f.macro, f.macroErr
}

func (f *fakeIndicators) GetIndicatorSeries(_ context.Context, _, indicator string) (*float64, error) {
	if f.failing[indicator] {
		return nil, fmt.Errorf("indicator %s unavailable", indicator)
	}
	if v, ok := f.values[indicator]; ok {
		return &v, nil
	}
	return nil, nil
}

type fakeNews struct {
	name    string
	mu      sync.Mutex
	targets []string
	hits    map[string][]schema.NewsHit
	failing map[string]bool
}

func (f *fakeNews) Search(_ context.Context, target, query string) ([]schema.NewsHit, error) {
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.mu.Unlock()
	if f.failing[query] {
		return nil, errors.New("rate limited")
	}
	return f.hits[query], nil
}

func (f *fakeNews) Name() string { return f.name }

type fakeTenders struct {
	feeds map[string][]schema.TenderPosting
}

func (f *fakeTenders) Collect(_ context.Context, locator string) ([]schema.TenderPosting, error) {
	postings, ok := f.feeds[locator]
	if !ok {
		return nil, fmt.Errorf("feed %s not reachable", locator)
	}
	return postings, nil
}

type fakeNarrator struct {
	text string
	err  error
}

func (f *fakeNarrator) Summarize(_ context.Context, _ *schema.AnalysisResult) (string, error) {
	return f.text, f.err
}

func turkeySubject() schema.Subject {
	return schema.Subject{
		TargetName:        "Turkey",
		Products:          []string{"crumb rubber"},
		HSCodes:           []string{"4004"},
		SignalsOfInterest: []string{"import growth"},
		TenderFeeds:       []string{"https://feeds.example.org/tenders.xml"},
	}
}

func turkeyCollaborators() Collaborators {
	return Collaborators{
		Resolver: &fakeResolver{known: map[string]schema.ResolvedTarget{
			"turkey": {Code: "TR", Name: "Türkiye"},
		}},
		Indicators: &fakeIndicators{
			macro: schema.MacroData{GDP: ptr(1.1e12), Population: ptr(8.5e7)},
			values: map[string]float64{
				schema.ImportsIndicator:      3.6e11,
				schema.MerchImportsIndicator: 3.2e11,
				schema.TariffIndicator:       2.1,
			},
		},
		News: &fakeNews{
			name: schema.BraveSource,
			hits: map[string][]schema.NewsHit{
				"crumb rubber market Turkey": {
					{Title: "Crumb rubber demand climbs", URL: "https://news.example.com/1", Description: "Import growth in crumb rubber"},
					{Title: "Ministry update", URL: "https://ticaret.gov.tr/2", Description: "Tariff review"},
				},
				"crumb rubber import Turkey": {
					{Title: "Crumb rubber demand climbs", URL: "https://news.example.com/1", Description: "Import growth in crumb rubber"},
				},
			},
		},
		Tenders: &fakeTenders{feeds: map[string][]schema.TenderPosting{
			"https://feeds.example.org/tenders.xml": {
				{Title: "Supply of crumb rubber for sports fields", URL: "https://tenders.example.org/1", Date: "2026-02-01"},
				{Title: "Office paper", URL: "https://tenders.example.org/2"},
			},
		}},
	}
}

// TestAnalyzeSubject tests a complete country run with every collaborator.
func TestAnalyzeSubject(t *testing.T) {
	collab := turkeyCollaborators()

	result, err := AnalyzeSubject(context.Background(), turkeySubject(), nil, collab, Options{Workers: 3, FetchTimeout: time.Second})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	require.NotNil(t, result.Resolved)
	assert.Equal(t, "TR", result.Resolved.Code)
	assert.Equal(t, 12, result.Subject.TimeHorizonMonths, "Defaults are applied")
	assert.Contains(t, result.QueryPlan, "HS 4004 Turkey import")
	assert.Equal(t, []string{"crumb rubber", "import growth", "4004"}, result.TenderKeywords)

	for _, target := range collab.News.(*fakeNews).targets {
		assert.Equal(t, "Türkiye", target, "Searches use the resolved name")
	}

	assert.Len(t, result.TradeSignals, 2)
	assert.Len(t, result.PolicySignals, 2)
	assert.True(t, result.TradeSignals.Has(schema.ImportsIndicator))
	assert.False(t, result.PolicySignals.Has(schema.LogisticsIndicator), "Missing values stay absent")

	// 2 unique news hits, 2 trade, 2 policy and 1 matching tender
	require.Len(t, result.Evidence, 7)
	assert.Equal(t, schema.NewsSignal, result.Evidence[0].SignalType)
	assert.Equal(t, schema.OfficialQuality, result.Evidence[1].Quality)
	assert.Equal(t, schema.TenderSignal, result.Evidence[6].SignalType)

	assert.Empty(t, result.FetchFailures)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, schema.NewsDataSource, result.DataSources[3])
	assert.Equal(t, schema.GetDefaultWeights(), result.ScoringConfig)
	assert.GreaterOrEqual(t, result.Scores.Confidence, 70)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestAnalyzeSubjectUnresolvedCountry(t *testing.T) {
	subject := schema.Subject{TargetName: "Atlantis"}

	_, err := AnalyzeSubject(context.Background(), subject, nil, turkeyCollaborators(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubjectResolution)

	var resErr *SubjectResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "Atlantis", resErr.Name)
	assert.Contains(t, err.Error(), "not found")

	_, err = AnalyzeSubject(context.Background(), subject, nil, Collaborators{}, Options{})
	assert.ErrorIs(t, err, ErrSubjectResolution, "A missing resolver cannot resolve anything")
}

func TestAnalyzeSubjectInvalidSubject(t *testing.T) {
	_, err := AnalyzeSubject(context.Background(), schema.Subject{TargetName: "X"}, nil, Collaborators{}, Options{})
	assert.ErrorIs(t, err, schema.ErrInvalidSubject)
}

// TestAnalyzeSubjectDegradedFetches tests that failed fetches are recorded, not fatal.
func TestAnalyzeSubjectDegradedFetches(t *testing.T) {
	collab := turkeyCollaborators()
	collab.Indicators = &fakeIndicators{
		macroErr: errors.New("world bank down"),
		failing:  map[string]bool{schema.ImportsIndicator: true},
		values:   map[string]float64{schema.MerchImportsIndicator: 1e11},
	}
	collab.News.(*fakeNews).failing = map[string]bool{"crumb rubber market Turkey": true}
	subject := turkeySubject()
	subject.TenderFeeds = append(subject.TenderFeeds, "https://down.example.org/feed.xml")

	result, err := AnalyzeSubject(context.Background(), subject, nil, collab, Options{Workers: 2})
	require.NoError(t, err)

	sources := make(map[string]int)
	for _, f := range result.FetchFailures {
		sources[f.Source]++
		assert.NotEmpty(t, f.Reason)
	}
	assert.Equal(t, map[string]int{macroFetch: 1, tradeFetch: 1, newsFetch: 1, tenderFetch: 1}, sources)

	assert.Nil(t, result.Macro.GDP)
	assert.False(t, result.TradeSignals.Has(schema.ImportsIndicator))
	assert.Contains(t, result.TradeSignals, schema.ImportsIndicator, "Failed indicators keep their slot")
	assert.False(t, result.Scores.ConfidenceBreakdown.HasGDP)
	assert.Less(t, result.Scores.Confidence, 70)
}

func TestAnalyzeSubjectFetchTimeout(t *testing.T) {
	collab := turkeyCollaborators()
	collab.Indicators.(*fakeIndicators).delay = time.Second

	start := time.Now()
	result, err := AnalyzeSubject(context.Background(), turkeySubject(), nil, collab, Options{FetchTimeout: 20 * time.Millisecond})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	require.NotEmpty(t, result.FetchFailures)
	assert.Equal(t, macroFetch, result.FetchFailures[0].Source)
	assert.Contains(t, result.FetchFailures[0].Reason, "deadline exceeded")
}

func TestAnalyzeSubjectNonCountry(t *testing.T) {
	collab := turkeyCollaborators()
	subject := schema.Subject{TargetType: schema.SectorTarget, TargetName: "Sports flooring"}

	result, err := AnalyzeSubject(context.Background(), subject, nil, collab, Options{})
	require.NoError(t, err)

	assert.Nil(t, result.Resolved)
	assert.Equal(t, []string{schema.UnsupportedTargetWarning}, result.Warnings)
	assert.Empty(t, result.TradeSignals)
	assert.Empty(t, result.PolicySignals)
	assert.Nil(t, result.Macro.GDP)
	for _, target := range collab.News.(*fakeNews).targets {
		assert.Equal(t, "Sports flooring", target)
	}
}

func TestAnalyzeSubjectCustomWeights(t *testing.T) {
	cfg, err := schema.NewScoringConfig(map[string]float64{"strategic_fit": 1})
	require.NoError(t, err)

	result, err := AnalyzeSubject(context.Background(), turkeySubject(), &cfg, turkeyCollaborators(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 50, result.Scores.OverallScore)
	assert.Equal(t, 1.0, result.ScoringConfig[schema.StrategicFit])
}

func TestAnalyzeSubjectNewsCap(t *testing.T) {
	hits := make(map[string][]schema.NewsHit)
	for _, q := range BuildQueries(turkeySubject()) {
		for i := range 5 {
			hits[q] = append(hits[q], schema.NewsHit{Title: fmt.Sprintf("%s %d", q, i), URL: fmt.Sprintf("https://n.example.com/%s/%d", q, i)})
		}
	}
	collab := turkeyCollaborators()
	collab.News = &fakeNews{name: "Tavily", hits: hits}

	result, err := AnalyzeSubject(context.Background(), turkeySubject(), nil, collab, Options{MaxNewsResults: 6})
	require.NoError(t, err)

	news := 0
	for _, item := range result.Evidence {
		if item.SignalType == schema.NewsSignal {
			news++
			assert.Equal(t, "Tavily", item.Source)
		}
	}
	assert.Equal(t, 6, news)
	assert.Equal(t, "Tavily API (news discovery)", result.DataSources[3])
}

func TestAnalyzeSubjectExtraFeeds(t *testing.T) {
	collab := turkeyCollaborators()
	collab.Tenders.(*fakeTenders).feeds["json:https://extra.example.org/api"] = []schema.TenderPosting{
		{Title: "Crumb rubber tender", URL: "https://extra.example.org/t/1"},
	}
	opts := Options{ExtraTenderFeeds: []string{"json:https://extra.example.org/api", "https://feeds.example.org/tenders.xml"}}

	result, err := AnalyzeSubject(context.Background(), turkeySubject(), nil, collab, opts)
	require.NoError(t, err)

	tenders := 0
	for _, item := range result.Evidence {
		if item.SignalType == schema.TenderSignal {
			tenders++
		}
	}
	assert.Equal(t, 2, tenders, "Repeated feeds are collected once")
	assert.Empty(t, result.FetchFailures)

	var titles []string
	for _, item := range result.Evidence {
		if item.SignalType == schema.TenderSignal {
			titles = append(titles, item.Title)
		}
	}
	assert.Equal(t, []string{"Crumb rubber tender", "Supply of crumb rubber for sports fields"}, titles,
		"Configured feeds come before the subject's feeds")
}

func TestMergeNews(t *testing.T) {
	results := []FetchResult[[]schema.NewsHit]{
		{Key: "q1", Value: []schema.NewsHit{
			{Title: "No link", Description: "first"},
			{Title: "A", URL: "https://n.example.com/a"},
			{Title: "No link again", Description: "second"},
		}},
		{Key: "q2", Err: errors.New("down")},
		{Key: "q3", Value: []schema.NewsHit{
			{Title: "A repeated", URL: "https://n.example.com/a"},
			{Title: "B", URL: "https://n.example.com/b"},
			{Title: "C", URL: "https://n.example.com/c"},
		}},
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"repeated urls and empty urls collapse", 10, []string{"No link", "A", "B", "C"}},
		{"cap counts unique hits", 3, []string{"No link", "A", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var titles []string
			for _, hit := range mergeNews(results, tt.limit) {
				titles = append(titles, hit.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestAnalyzeSubjectNarrator(t *testing.T) {
	t.Run("summary attached", func(t *testing.T) {
		collab := turkeyCollaborators()
		collab.Narrator = &fakeNarrator{text: "Solid demand."}

		result, err := AnalyzeSubject(context.Background(), turkeySubject(), nil, collab, Options{})
		require.NoError(t, err)
		assert.Equal(t, "Solid demand.", result.Narrative)
	})

	t.Run("failure becomes a warning", func(t *testing.T) {
		collab := turkeyCollaborators()
		collab.Narrator = &fakeNarrator{err: errors.New("model offline")}

		result, err := AnalyzeSubject(context.Background(), turkeySubject(), nil, collab, Options{})
		require.NoError(t, err)
		assert.Empty(t, result.Narrative)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "model offline")
	})
}

func TestAnalyzeSubjectWithoutOptionalCollaborators(t *testing.T) {
	collab := Collaborators{Resolver: turkeyCollaborators().Resolver}

	result, err := AnalyzeSubject(context.Background(), turkeySubject(), nil, collab, Options{})
	require.NoError(t, err)

	// Indicator slots are still reported, each without a value
	require.Len(t, result.Evidence, 4)
	for _, item := range result.Evidence {
		assert.Empty(t, item.Summary)
		assert.Equal(t, schema.OfficialQuality, item.Quality)
	}
	assert.Empty(t, result.FetchFailures)
	assert.Equal(t, 25, result.Scores.Confidence)
	assert.Len(t, result.DataSources, 5)
}
