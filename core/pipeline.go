package core

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/logger"
	"github.com/huangsam/marketscope/schema"
)

// Fetch sources used in failure records and log entries.
const (
	macroFetch  = "macro"
	tradeFetch  = "trade"
	policyFetch = "policy"
	newsFetch   = "news"
	tenderFetch = "tender"
)

// DefaultMaxNewsResults caps the news hits kept per run.
const DefaultMaxNewsResults = 15

// Collaborators are the external data sources of an analysis.
// Resolver and Indicators are only consulted for country targets.
// News, Tenders and Narrator are optional.
type Collaborators struct {
	Resolver   contract.TargetResolver
	Indicators contract.IndicatorSource
	News       contract.NewsSearcher
	Tenders    contract.TenderCollector
	Narrator   contract.Narrator
}

// Options tune how an analysis runs. Zero values pick the defaults.
type Options struct {
	Workers          int
	FetchTimeout     time.Duration
	MaxNewsResults   int
	ExtraTenderFeeds []string // configured sources, collected before the subject's feeds
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = contract.DefaultWorkers
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = contract.DefaultFetchTimeout
	}
	if o.MaxNewsResults <= 0 {
		o.MaxNewsResults = DefaultMaxNewsResults
	}
	return o
}

// collected holds the raw outcome of the fan-out stage, one slot per fetch.
type collected struct {
	macro   FetchResult[schema.MacroData]
	trade   []FetchResult[*float64]
	policy  []FetchResult[*float64]
	news    []FetchResult[[]schema.NewsHit]
	tenders []FetchResult[[]schema.TenderPosting]
}

// AnalyzeSubject screens one subject and returns the complete result.
// A nil cfg selects the default weights. The only error after validation is a
// SubjectResolutionError for a country that cannot be resolved; every other
// failed fetch is recorded in the result and the run continues.
func AnalyzeSubject(ctx context.Context, in schema.Subject, cfg *schema.ScoringConfig, collab Collaborators, opts Options) (*schema.AnalysisResult, error) {
	subject, err := schema.NewSubject(in)
	if err != nil {
		return nil, err
	}
	scoring := schema.DefaultScoringConfig()
	if cfg != nil {
		scoring = *cfg
	}
	opts = opts.withDefaults()

	result := &schema.AnalysisResult{
		RunID:         uuid.NewString(),
		Subject:       subject,
		TradeSignals:  schema.IndicatorSignals{},
		PolicySignals: schema.IndicatorSignals{},
		ScoringConfig: scoring.Weights(),
		Warnings:      []string{},
		Evidence:      []schema.EvidenceItem{},
	}

	if subject.IsCountry() {
		if collab.Resolver == nil {
			return nil, &SubjectResolutionError{Name: subject.TargetName, Err: fmt.Errorf("no resolver configured")}
		}
		resolved, err := collab.Resolver.Resolve(ctx, subject.TargetName)
		if err != nil {
			return nil, &SubjectResolutionError{Name: subject.TargetName, Err: err}
		}
		result.Resolved = &resolved
	} else {
		result.Warnings = append(result.Warnings, schema.UnsupportedTargetWarning)
	}

	result.QueryPlan = BuildQueries(subject)
	result.TenderKeywords = TenderKeywords(subject)
	feeds := uniqueInOrder(normalizeList(slices.Concat(opts.ExtraTenderFeeds, subject.TenderFeeds)))

	searchTarget := subject.TargetName
	if result.Resolved != nil && result.Resolved.Name != "" {
		searchTarget = result.Resolved.Name
	}

	raw := collect(ctx, result.Resolved, searchTarget, result.QueryPlan, feeds, collab, opts)
	result.FetchFailures = raw.failures()

	result.Macro = raw.macro.Value
	if result.Resolved != nil {
		result.TradeSignals = indicatorSignals(schema.TradeIndicators(), raw.trade)
		result.PolicySignals = indicatorSignals(schema.PolicyIndicators(), raw.policy)
	}

	news := mergeNews(raw.news, opts.MaxNewsResults)
	tenders := mergeTenders(raw.tenders)

	newsSource := schema.BraveSource
	if collab.News != nil {
		newsSource = collab.News.Name()
	}
	result.Evidence = NormalizeEvidence(
		ClassifyNews(news, result.TenderKeywords),
		newsSource,
		result.TradeSignals,
		result.PolicySignals,
		FilterTenders(tenders, result.TenderKeywords),
	)

	result.Scores = ScoreSubject(subject, result.Macro, result.Evidence, result.TradeSignals, scoring)
	result.DataSources = dataSources(newsSource)
	result.GeneratedAt = time.Now().UTC()

	if collab.Narrator != nil {
		narrative, err := collab.Narrator.Summarize(ctx, result)
		if err != nil {
			logger.WithSource("narrative").WithError(err).Warn("narrative summary failed")
			result.Warnings = append(result.Warnings, fmt.Sprintf("Narrative summary unavailable: %v", err))
		} else {
			result.Narrative = narrative
		}
	}

	return result, nil
}

// collect runs every outbound fetch of one analysis on a single bounded pool.
// Results land in fixed slots so the merge order matches the plan order.
func collect(ctx context.Context, resolved *schema.ResolvedTarget, target string, queries, feeds []string, collab Collaborators, opts Options) collected {
	var raw collected
	trade := schema.TradeIndicators()
	policy := schema.PolicyIndicators()

	if resolved != nil && collab.Indicators != nil {
		raw.trade = make([]FetchResult[*float64], len(trade))
		raw.policy = make([]FetchResult[*float64], len(policy))
	}
	if collab.News != nil {
		raw.news = make([]FetchResult[[]schema.NewsHit], len(queries))
	}
	if collab.Tenders != nil {
		raw.tenders = make([]FetchResult[[]schema.TenderPosting], len(feeds))
	}

	jobs := len(raw.trade) + len(raw.policy) + len(raw.news) + len(raw.tenders)
	if resolved != nil && collab.Indicators != nil {
		jobs++
	}
	if jobs == 0 {
		return raw
	}

	pool := newFetchPool(ctx, opts.Workers, opts.FetchTimeout, jobs)

	if resolved != nil && collab.Indicators != nil {
		code := resolved.Code
		schedule(pool, code, func(ctx context.Context) (schema.MacroData, error) {
			return collab.Indicators.GetMacroData(ctx, code)
		}, &raw.macro)
		for i, ind := range trade {
			schedule(pool, ind.Code, func(ctx context.Context) (*float64, error) {
				return collab.Indicators.GetIndicatorSeries(ctx, code, ind.Code)
			}, &raw.trade[i])
		}
		for i, ind := range policy {
			schedule(pool, ind.Code, func(ctx context.Context) (*float64, error) {
				return collab.Indicators.GetIndicatorSeries(ctx, code, ind.Code)
			}, &raw.policy[i])
		}
	}
	if collab.News != nil {
		for i, query := range queries {
			schedule(pool, query, func(ctx context.Context) ([]schema.NewsHit, error) {
				return collab.News.Search(ctx, target, query)
			}, &raw.news[i])
		}
	}
	if collab.Tenders != nil {
		for i, feed := range feeds {
			schedule(pool, feed, func(ctx context.Context) ([]schema.TenderPosting, error) {
				return collab.Tenders.Collect(ctx, feed)
			}, &raw.tenders[i])
		}
	}

	pool.wait()
	return raw
}

// failures lists every failed fetch in plan order and logs each one.
func (c *collected) failures() []schema.FetchFailure {
	var out []schema.FetchFailure
	record := func(source, key string, err error) {
		if err == nil {
			return
		}
		logger.WithSource(source).WithField("key", key).WithError(err).Warn("fetch failed, continuing without it")
		out = append(out, schema.FetchFailure{Source: source, Key: key, Reason: err.Error()})
	}
	record(macroFetch, c.macro.Key, c.macro.Err)
	for _, r := range c.trade {
		record(tradeFetch, r.Key, r.Err)
	}
	for _, r := range c.policy {
		record(policyFetch, r.Key, r.Err)
	}
	for _, r := range c.news {
		record(newsFetch, r.Key, r.Err)
	}
	for _, r := range c.tenders {
		record(tenderFetch, r.Key, r.Err)
	}
	return out
}

// indicatorSignals maps each table indicator to its fetched value.
// A failed or missing fetch keeps the indicator with a nil value.
func indicatorSignals(table []schema.Indicator, results []FetchResult[*float64]) schema.IndicatorSignals {
	signals := make(schema.IndicatorSignals, len(table))
	for i, ind := range table {
		var value *float64
		if i < len(results) && results[i].OK() {
			value = results[i].Value
		}
		signals[ind.Code] = schema.IndicatorValue{Label: ind.Label, Value: value}
	}
	return signals
}

// mergeNews concatenates hits in query order, drops repeated URLs and keeps at most limit.
func mergeNews(results []FetchResult[[]schema.NewsHit], limit int) []schema.NewsHit {
	seen := make(map[string]struct{})
	out := make([]schema.NewsHit, 0, limit)
	for _, r := range results {
		for _, hit := range r.Value {
			if len(out) >= limit {
				return out
			}
			if _, ok := seen[hit.URL]; ok {
				continue
			}
			seen[hit.URL] = struct{}{}
			out = append(out, hit)
		}
	}
	return out
}

// mergeTenders concatenates postings in feed order.
func mergeTenders(results []FetchResult[[]schema.TenderPosting]) []schema.TenderPosting {
	var out []schema.TenderPosting
	for _, r := range results {
		out = append(out, r.Value...)
	}
	return out
}

// dataSources is the fixed manifest, naming the news provider actually used.
func dataSources(newsSource string) []string {
	news := schema.NewsDataSource
	if newsSource != schema.BraveSource {
		news = fmt.Sprintf("%s API (news discovery)", newsSource)
	}
	return []string{
		schema.MacroDataSource,
		schema.TradeDataSource,
		schema.PolicyDataSource,
		news,
		schema.TenderDataSource,
	}
}
