package core

import (
	"fmt"
	"strings"

	"github.com/huangsam/marketscope/schema"
)

// MaxQueries caps the size of a query plan.
const MaxQueries = 10

// Fallback terms used when a subject lists no products or signals.
var (
	defaultProducts = []string{"recycled rubber", "crumb rubber"}
	defaultSignals  = []string{"import demand", "construction projects", "automotive production", "infrastructure tenders"}
)

// BuildQueries turns a subject into an ordered, deduplicated list of at most
// MaxQueries search strings. It is a pure function of the subject.
func BuildQueries(subject schema.Subject) []string {
	target := subject.TargetName

	products := normalizeList(subject.Products)
	if len(products) == 0 {
		products = defaultProducts
	}
	signals := normalizeList(subject.SignalsOfInterest)
	if len(signals) == 0 {
		signals = defaultSignals
	}
	hsCodes := normalizeList(subject.HSCodes)
	riskFocus := normalizeList(subject.RiskFocus)

	base := make([]string, 0, 2*len(products)+len(signals)+2*len(hsCodes)+len(riskFocus))
	for _, product := range products {
		base = append(base,
			fmt.Sprintf("%s market %s", product, target),
			fmt.Sprintf("%s import %s", product, target),
		)
	}
	for _, signal := range signals {
		base = append(base, fmt.Sprintf("%s %s", signal, target))
	}
	for _, code := range hsCodes {
		base = append(base,
			fmt.Sprintf("HS %s %s import", code, target),
			fmt.Sprintf("HS code %s %s tariff", code, target),
		)
	}
	for _, risk := range riskFocus {
		base = append(base, fmt.Sprintf("%s %s", risk, target))
	}

	queries := uniqueInOrder(base)
	if len(queries) > MaxQueries {
		queries = queries[:MaxQueries]
	}
	return queries
}

// normalizeList trims every entry and drops the blank ones.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// uniqueInOrder keeps the first occurrence of every value.
func uniqueInOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
