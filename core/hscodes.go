package core

import (
	"strings"

	"github.com/huangsam/marketscope/schema"
)

// SuggestHSCodes returns the HS codes whose category keyword appears in text,
// in table order without duplicates. Matches are case-insensitive and accept
// the keyword with underscores or spaces.
func SuggestHSCodes(text string) []string {
	var codes []string
	seen := make(map[string]struct{})
	for _, m := range MatchHSCategories(text) {
		for _, code := range m.Codes {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	return codes
}

// MatchHSCategories returns every table category matched by text.
func MatchHSCategories(text string) []schema.HSCategory {
	lowered := strings.ToLower(text)
	if strings.TrimSpace(lowered) == "" {
		return nil
	}
	var out []schema.HSCategory
	for _, cat := range schema.HSCategories() {
		spaced := strings.ReplaceAll(cat.Key, "_", " ")
		if strings.Contains(lowered, cat.Key) || strings.Contains(lowered, spaced) {
			out = append(out, cat)
		}
	}
	return out
}
