package core

import (
	"math"
	"strings"

	"github.com/huangsam/marketscope/schema"
)

// Calibration bounds for log scaling, in log10 units.
// GDP spans roughly $1B to $100T, population 1M to 10B, imports $1B to $10T.
const (
	gdpLogLow         = 9.0
	gdpLogHigh        = 14.0
	populationLogLow  = 6.0
	populationLogHigh = 10.0
	importsLogLow     = 9.0
	importsLogHigh    = 13.0
)

// Fixed score components.
const (
	neutralScore        = 50
	signalPointsPerItem = 5
)

// Confidence thresholds and points.
const (
	confGDP             = 25
	confPopulation      = 25
	confImports         = 20
	confMerchImports    = 10
	confManyEvidence    = 20
	confSomeEvidence    = 10
	confManyNews        = 10
	confTradeCoverage   = 5
	confOfficialSources = 10

	manyEvidenceThreshold = 5
	manyNewsThreshold     = 5
	tradeThreshold        = 2
	officialThreshold     = 3
)

// LogScore maps v onto 0-100 on a log10 scale between lo and hi.
// Non-positive values score zero.
func LogScore(v, lo, hi float64) int {
	if v <= 0 || math.IsNaN(v) || hi <= lo {
		return 0
	}
	scaled := math.Round(100 * (math.Log10(v) - lo) / (hi - lo))
	return int(clamp(scaled, 0, 100))
}

// ScoreSubject computes the dimensional scores, weighted overall score and confidence.
// It is a pure function of its inputs.
func ScoreSubject(_ schema.Subject, macro schema.MacroData, evidence []schema.EvidenceItem, trade schema.IndicatorSignals, cfg schema.ScoringConfig) schema.ScoreResult {
	dims := dimensionalScores(macro, evidence, trade)
	weights := cfg.NormalizedWeights()

	overall := 0.0
	for _, dim := range schema.ScoringDimensions {
		overall += weights[dim] * float64(dims.Value(dim))
	}

	breakdown, sources := confidenceFacts(macro, evidence, trade)

	return schema.ScoreResult{
		OverallScore:        int(clamp(math.Round(overall), 0, 100)),
		Confidence:          confidenceScore(breakdown, sources),
		ConfidenceBreakdown: breakdown,
		ConfidenceSources:   sources,
		DimensionalScores:   dims,
		Rationale:           schema.ScoreRationale,
		Weights:             weights,
	}
}

// dimensionalScores computes the five weighted dimensions plus signal strength.
func dimensionalScores(macro schema.MacroData, evidence []schema.EvidenceItem, trade schema.IndicatorSignals) schema.DimensionalScores {
	gdpScore := LogScore(valueOr(macro.GDP), gdpLogLow, gdpLogHigh)
	popScore := LogScore(valueOr(macro.Population), populationLogLow, populationLogHigh)
	marketDemand := roundInt(0.6*float64(gdpScore) + 0.4*float64(popScore))

	signalStrength := min(100, len(evidence)*signalPointsPerItem)

	// Placeholder blend pending calibration: half the weight sits on a neutral constant.
	importsScore := LogScore(trade.ValueOf(schema.ImportsIndicator), importsLogLow, importsLogHigh)
	tradeEase := roundInt(0.5*float64(importsScore) + 0.5*neutralScore)

	financial := roundInt(0.5*float64(marketDemand) + 0.5*float64(signalStrength))

	return schema.DimensionalScores{
		MarketDemand:       marketDemand,
		TradeEase:          tradeEase,
		PoliticalRisk:      neutralScore,
		FinancialViability: financial,
		StrategicFit:       neutralScore,
		SignalStrength:     signalStrength,
	}
}

// confidenceFacts gathers the coverage facts and per-category counts.
func confidenceFacts(macro schema.MacroData, evidence []schema.EvidenceItem, trade schema.IndicatorSignals) (schema.ConfidenceBreakdown, schema.ConfidenceSources) {
	breakdown := schema.ConfidenceBreakdown{
		HasGDP:                  truthy(macro.GDP),
		HasPopulation:           truthy(macro.Population),
		HasImportsGoodsServices: trade.Has(schema.ImportsIndicator),
		HasMerchImports:         trade.Has(schema.MerchImportsIndicator),
		EvidenceCount:           len(evidence),
	}
	return breakdown, CountSources(evidence)
}

// CountSources tallies evidence per signal category plus the official cross-count.
func CountSources(evidence []schema.EvidenceItem) schema.ConfidenceSources {
	var sources schema.ConfidenceSources
	for _, item := range evidence {
		switch {
		case strings.HasPrefix(item.SignalType, schema.TradePrefix):
			sources.Trade++
		case strings.HasPrefix(item.SignalType, schema.PolicyPrefix):
			sources.Policy++
		case item.SignalType == schema.NewsSignal:
			sources.News++
		case item.SignalType == schema.TenderSignal:
			sources.Tender++
		default:
			sources.Other++
		}
		if item.Quality == schema.OfficialQuality {
			sources.Official++
		}
	}
	return sources
}

// confidenceScore applies the additive confidence model, clamped to 0-100.
func confidenceScore(b schema.ConfidenceBreakdown, s schema.ConfidenceSources) int {
	score := 0
	if b.HasGDP {
		score += confGDP
	}
	if b.HasPopulation {
		score += confPopulation
	}
	if b.HasImportsGoodsServices {
		score += confImports
	}
	if b.HasMerchImports {
		score += confMerchImports
	}
	switch {
	case b.EvidenceCount >= manyEvidenceThreshold:
		score += confManyEvidence
	case b.EvidenceCount >= 1:
		score += confSomeEvidence
	}
	if s.News >= manyNewsThreshold {
		score += confManyNews
	}
	if s.Trade >= tradeThreshold {
		score += confTradeCoverage
	}
	if s.Official >= officialThreshold {
		score += confOfficialSources
	}
	return min(max(score, 0), 100)
}

// Rescore recomputes the scores of a stored result under a new scoring config
// without touching its evidence.
func Rescore(result *schema.AnalysisResult, cfg schema.ScoringConfig) *schema.AnalysisResult {
	out := *result
	out.Scores = ScoreSubject(result.Subject, result.Macro, result.Evidence, result.TradeSignals, cfg)
	out.ScoringConfig = cfg.Weights()
	return &out
}

func truthy(v *float64) bool {
	return v != nil && *v != 0 && !math.IsNaN(*v)
}

func valueOr(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return *v
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
