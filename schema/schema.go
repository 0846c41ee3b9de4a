// Package schema has configs, models and static tables for all parts of marketscope.
package schema

import (
	"math"
	"time"
)

// ResolvedTarget is the canonical identity of a country target.
type ResolvedTarget struct {
	Code string `json:"country_code"` // ISO 3166-1 alpha-2
	Name string `json:"country_name"`
}

// MacroData holds the macro indicators of a country. Nil fields are absent.
type MacroData struct {
	GDP        *float64 `json:"gdp"`
	Population *float64 `json:"population"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

// IndicatorValue is the latest value of one trade or policy indicator.
type IndicatorValue struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// IndicatorSignals maps an indicator code to its latest value.
type IndicatorSignals map[string]IndicatorValue

// Has reports whether the indicator carries a usable value. Nil, zero and NaN count as absent.
func (s IndicatorSignals) Has(code string) bool {
	v, ok := s[code]
	return ok && v.Value != nil && *v.Value != 0 && !math.IsNaN(*v.Value)
}

// ValueOf returns the indicator value or zero when absent.
func (s IndicatorSignals) ValueOf(code string) float64 {
	if v, ok := s[code]; ok && v.Value != nil {
		return *v.Value
	}
	return 0
}

// NewsHit is one raw result returned by a news search provider.
type NewsHit struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Age         string `json:"age"`
}

// TenderPosting is one raw item read from a tender feed.
type TenderPosting struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
	Date    string `json:"date"`
}

// Classification is the keyword relevance tagging of a news or tender item.
type Classification struct {
	Severity       Severity `json:"severity"`
	KeywordHits    int      `json:"keyword_hits"`
	RelevanceScore int      `json:"relevance_score"`
}

// ClassifiedNews is a news hit with its keyword classification.
type ClassifiedNews struct {
	NewsHit
	Classification
}

// ClassifiedTender is a tender posting with its keyword classification.
type ClassifiedTender struct {
	TenderPosting
	Classification
}

// EvidenceItem is the uniform record backing a score.
// Classification is nil for trade and policy items.
type EvidenceItem struct {
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	Summary    string      `json:"summary"`
	Age        string      `json:"age"`
	Source     string      `json:"source"`
	SignalType string      `json:"signal_type"`
	Domain     string      `json:"domain"`
	Quality    QualityTier `json:"quality"`
	*Classification
}

// ConfidenceBreakdown lists the data coverage facts used by the confidence model.
type ConfidenceBreakdown struct {
	HasGDP                  bool `json:"has_gdp"`
	HasPopulation           bool `json:"has_population"`
	HasImportsGoodsServices bool `json:"has_imports_goods_services"`
	HasMerchImports         bool `json:"has_merch_imports"`
	EvidenceCount           int  `json:"evidence_count"`
}

// ConfidenceSources counts evidence items per category.
// Official is a cross-cutting count of items whose quality is official.
type ConfidenceSources struct {
	News     int `json:"news"`
	Trade    int `json:"trade"`
	Policy   int `json:"policy"`
	Tender   int `json:"tender"`
	Official int `json:"official"`
	Other    int `json:"other"`
}

// DimensionalScores holds the five weighted dimension scores plus signal strength.
type DimensionalScores struct {
	MarketDemand       int `json:"market_demand"`
	TradeEase          int `json:"trade_ease"`
	PoliticalRisk      int `json:"political_risk"`
	FinancialViability int `json:"financial_viability"`
	StrategicFit       int `json:"strategic_fit"`
	SignalStrength     int `json:"signal_strength"`
}

// Value returns the score of a dimension, or zero for an unknown one.
func (d DimensionalScores) Value(dim Dimension) int {
	switch dim {
	case MarketDemand:
		return d.MarketDemand
	case TradeEase:
		return d.TradeEase
	case PoliticalRisk:
		return d.PoliticalRisk
	case FinancialViability:
		return d.FinancialViability
	case StrategicFit:
		return d.StrategicFit
	case SignalStrength:
		return d.SignalStrength
	default:
		return 0
	}
}

// ScoreResult is the output of the scoring engine.
type ScoreResult struct {
	OverallScore        int                   `json:"overall_score"`
	Confidence          int                   `json:"confidence"`
	ConfidenceBreakdown ConfidenceBreakdown   `json:"confidence_breakdown"`
	ConfidenceSources   ConfidenceSources     `json:"confidence_sources"`
	DimensionalScores   DimensionalScores     `json:"dimensional_scores"`
	Rationale           string                `json:"rationale"`
	Weights             map[Dimension]float64 `json:"weights"`
}

// FetchFailure records one external fetch that degraded to an absent value.
type FetchFailure struct {
	Source string `json:"source"`
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// QueryPlan is the search plan of a subject, without running any fetch.
type QueryPlan struct {
	Subject          Subject  `json:"subject"`
	Queries          []string `json:"queries"`
	TenderKeywords   []string `json:"tender_keywords"`
	SuggestedHSCodes []string `json:"suggested_hs_codes"`
}

// AnalysisResult is the complete outcome of one screening run.
type AnalysisResult struct {
	RunID          string                `json:"run_id"`
	Subject        Subject               `json:"subject"`
	Resolved       *ResolvedTarget       `json:"resolved,omitempty"`
	Macro          MacroData             `json:"macro"`
	TradeSignals   IndicatorSignals      `json:"trade_signals"`
	PolicySignals  IndicatorSignals      `json:"policy_signals"`
	Scores         ScoreResult           `json:"scores"`
	ScoringConfig  map[Dimension]float64 `json:"scoring_config"`
	Evidence       []EvidenceItem        `json:"evidence"`
	QueryPlan      []string              `json:"query_plan"`
	TenderKeywords []string              `json:"tender_filters"`
	Warnings       []string              `json:"warnings"`
	FetchFailures  []FetchFailure        `json:"fetch_failures,omitempty"`
	DataSources    []string              `json:"data_sources"`
	Narrative      string                `json:"narrative,omitempty"`
	GeneratedAt    time.Time             `json:"generated_at"`
}
