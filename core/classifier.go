package core

import (
	"strings"

	"github.com/huangsam/marketscope/schema"
)

// relevancePerHit is the relevance awarded for each matched keyword.
const relevancePerHit = 20

// TenderKeywords derives the classifier keyword list from a subject:
// products, then signals of interest, then HS codes, lowercased, with blanks
// and repeats removed.
func TenderKeywords(subject schema.Subject) []string {
	raw := make([]string, 0, len(subject.Products)+len(subject.SignalsOfInterest)+len(subject.HSCodes))
	raw = append(raw, subject.Products...)
	raw = append(raw, subject.SignalsOfInterest...)
	raw = append(raw, subject.HSCodes...)

	keywords := make([]string, 0, len(raw))
	for _, v := range raw {
		if k := strings.ToLower(strings.TrimSpace(v)); k != "" {
			keywords = append(keywords, k)
		}
	}
	return uniqueInOrder(keywords)
}

// Classify counts how many distinct keywords occur in text and maps the count
// to a severity tier and relevance score. Keywords must already be lowercased.
func Classify(text string, keywords []string) schema.Classification {
	haystack := strings.ToLower(text)
	seen := make(map[string]struct{}, len(keywords))
	hits := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		if strings.Contains(haystack, kw) {
			hits++
		}
	}
	return schema.Classification{
		Severity:       SeverityFor(hits),
		KeywordHits:    hits,
		RelevanceScore: min(100, hits*relevancePerHit),
	}
}

// SeverityFor maps a keyword hit count to its severity tier.
func SeverityFor(hits int) schema.Severity {
	switch {
	case hits >= 3:
		return schema.SeverityHigh
	case hits == 2:
		return schema.SeverityMedium
	case hits == 1:
		return schema.SeverityLow
	default:
		return schema.SeverityNone
	}
}

// ClassifyNews tags every news hit. News is never filtered.
func ClassifyNews(hits []schema.NewsHit, keywords []string) []schema.ClassifiedNews {
	out := make([]schema.ClassifiedNews, 0, len(hits))
	for _, h := range hits {
		out = append(out, schema.ClassifiedNews{
			NewsHit:        h,
			Classification: Classify(h.Title+" "+h.Description, keywords),
		})
	}
	return out
}

// FilterTenders tags tender postings and, when keywords are present, drops the
// ones that match none of them.
func FilterTenders(postings []schema.TenderPosting, keywords []string) []schema.ClassifiedTender {
	out := make([]schema.ClassifiedTender, 0, len(postings))
	for _, p := range postings {
		c := Classify(p.Title+" "+p.Summary, keywords)
		if len(keywords) > 0 && c.KeywordHits == 0 {
			continue
		}
		out = append(out, schema.ClassifiedTender{TenderPosting: p, Classification: c})
	}
	return out
}
