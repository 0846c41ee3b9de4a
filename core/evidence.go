package core

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/marketscope/schema"
)

// dedupeSummaryPrefix is how many summary characters take part in the identity key.
const dedupeSummaryPrefix = 120

// EvidenceFromNews normalizes classified news hits. source names the search provider.
func EvidenceFromNews(news []schema.ClassifiedNews, source string) []schema.EvidenceItem {
	out := make([]schema.EvidenceItem, 0, len(news))
	for _, n := range news {
		domain := ExtractDomain(n.URL)
		c := n.Classification
		out = append(out, schema.EvidenceItem{
			Title:          n.Title,
			URL:            n.URL,
			Summary:        n.Description,
			Age:            n.Age,
			Source:         source,
			SignalType:     schema.NewsSignal,
			Domain:         domain,
			Quality:        ClassifyQuality(domain, schema.NewsSignal),
			Classification: &c,
		})
	}
	return out
}

// EvidenceFromTenders normalizes classified tender postings.
func EvidenceFromTenders(tenders []schema.ClassifiedTender) []schema.EvidenceItem {
	out := make([]schema.EvidenceItem, 0, len(tenders))
	for _, t := range tenders {
		domain := ExtractDomain(t.URL)
		c := t.Classification
		out = append(out, schema.EvidenceItem{
			Title:          t.Title,
			URL:            t.URL,
			Summary:        t.Summary,
			Age:            t.Date,
			Source:         schema.TenderFeedSource,
			SignalType:     schema.TenderSignal,
			Domain:         domain,
			Quality:        ClassifyQuality(domain, schema.TenderSignal),
			Classification: &c,
		})
	}
	return out
}

// EvidenceFromTradeSignals normalizes trade indicators in table order.
func EvidenceFromTradeSignals(signals schema.IndicatorSignals) []schema.EvidenceItem {
	return indicatorEvidence(signals, schema.TradeIndicators(), schema.TradePrefix)
}

// EvidenceFromPolicySignals normalizes policy indicators in table order.
func EvidenceFromPolicySignals(signals schema.IndicatorSignals) []schema.EvidenceItem {
	return indicatorEvidence(signals, schema.PolicyIndicators(), schema.PolicyPrefix)
}

// indicatorEvidence emits table indicators first, then any other codes sorted by code.
func indicatorEvidence(signals schema.IndicatorSignals, table []schema.Indicator, prefix string) []schema.EvidenceItem {
	codes := make([]string, 0, len(signals))
	known := make(map[string]struct{}, len(table))
	for _, ind := range table {
		known[ind.Code] = struct{}{}
		if _, ok := signals[ind.Code]; ok {
			codes = append(codes, ind.Code)
		}
	}
	for _, code := range slices.Sorted(maps.Keys(signals)) {
		if _, ok := known[code]; !ok {
			codes = append(codes, code)
		}
	}

	out := make([]schema.EvidenceItem, 0, len(codes))
	for _, code := range codes {
		v := signals[code]
		out = append(out, schema.EvidenceItem{
			Title:      v.Label,
			Summary:    formatValue(v.Value),
			Age:        schema.LatestAge,
			Source:     schema.WorldBankSource,
			SignalType: prefix + code,
			Domain:     schema.WorldBankDomain,
			Quality:    schema.OfficialQuality,
		})
	}
	return out
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ExtractDomain returns the lowercased hostname of rawURL, or "" when there is none.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// ClassifyQuality assigns the source quality tier of an evidence item.
// Trade and policy indicators are always official; other items are judged by hostname.
func ClassifyQuality(domain, signalType string) schema.QualityTier {
	if strings.HasPrefix(signalType, schema.TradePrefix) || strings.HasPrefix(signalType, schema.PolicyPrefix) {
		return schema.OfficialQuality
	}
	if domain == "" {
		return schema.UnknownQuality
	}
	if isOfficialHost(domain) {
		return schema.OfficialQuality
	}
	return schema.MediaQuality
}

func isOfficialHost(domain string) bool {
	d := strings.ToLower(domain)
	switch {
	case strings.HasSuffix(d, ".gov"), strings.Contains(d, ".gov."):
		return true
	case strings.HasSuffix(d, ".int"), strings.HasSuffix(d, ".edu"), strings.HasSuffix(d, ".ac"):
		return true
	default:
		return false
	}
}

// dedupeKey is the identity of an evidence item.
type dedupeKey struct {
	domain  string
	title   string
	summary string
}

func keyOf(item schema.EvidenceItem) dedupeKey {
	summary := []rune(strings.ToLower(strings.TrimSpace(item.Summary)))
	if len(summary) > dedupeSummaryPrefix {
		summary = summary[:dedupeSummaryPrefix]
	}
	return dedupeKey{
		domain:  strings.ToLower(item.Domain),
		title:   strings.ToLower(strings.TrimSpace(item.Title)),
		summary: string(summary),
	}
}

// DedupeEvidence keeps the first item of every (domain, title, summary prefix) key,
// preserving order. The input slice is left untouched.
func DedupeEvidence(items []schema.EvidenceItem) []schema.EvidenceItem {
	seen := make(map[dedupeKey]struct{}, len(items))
	out := make([]schema.EvidenceItem, 0, len(items))
	for _, item := range items {
		k := keyOf(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// NormalizeEvidence assembles news, trade, policy and tender evidence in that order and dedupes it.
func NormalizeEvidence(news []schema.ClassifiedNews, newsSource string, trade, policy schema.IndicatorSignals, tenders []schema.ClassifiedTender) []schema.EvidenceItem {
	all := EvidenceFromNews(news, newsSource)
	all = append(all, EvidenceFromTradeSignals(trade)...)
	all = append(all, EvidenceFromPolicySignals(policy)...)
	all = append(all, EvidenceFromTenders(tenders)...)
	return DedupeEvidence(all)
}
