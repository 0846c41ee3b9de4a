package core

import (
	"testing"

	"github.com/huangsam/marketscope/schema"
	"github.com/stretchr/testify/assert"
)

func TestTenderKeywords(t *testing.T) {
	subject := schema.Subject{
		Products:          []string{"Crumb Rubber", " "},
		SignalsOfInterest: []string{"Import Growth", "crumb rubber"},
		HSCodes:           []string{"4004"},
	}
	assert.Equal(t, []string{"crumb rubber", "import growth", "4004"}, TenderKeywords(subject))
	assert.Empty(t, TenderKeywords(schema.Subject{}))
}

// TestClassify tests keyword hit counting and tier mapping.
func TestClassify(t *testing.T) {
	keywords := []string{"crumb rubber", "tiles", "4004", "playground"}

	tests := []struct {
		name      string
		text      string
		keywords  []string
		hits      int
		severity  schema.Severity
		relevance int
	}{
		{"no match", "Steel prices fall", keywords, 0, schema.SeverityNone, 0},
		{"one match", "Demand for CRUMB RUBBER rises", keywords, 1, schema.SeverityLow, 20},
		{"two matches", "crumb rubber tiles", keywords, 2, schema.SeverityMedium, 40},
		{"three matches", "crumb rubber tiles under HS 4004", keywords, 3, schema.SeverityHigh, 60},
		{"repeated keyword counts once", "tiles tiles tiles", keywords, 1, schema.SeverityLow, 20},
		{"duplicate keywords count once", "tiles", []string{"tiles", "tiles"}, 1, schema.SeverityLow, 20},
		{"no keywords", "anything", nil, 0, schema.SeverityNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.text, tt.keywords)
			assert.Equal(t, tt.hits, c.KeywordHits)
			assert.Equal(t, tt.severity, c.Severity)
			assert.Equal(t, tt.relevance, c.RelevanceScore)
		})
	}
}

func TestClassifyRelevanceCapped(t *testing.T) {
	keywords := []string{"a1", "b2", "c3", "d4", "e5", "f6"}
	c := Classify("a1 b2 c3 d4 e5 f6", keywords)
	assert.Equal(t, 6, c.KeywordHits)
	assert.Equal(t, 100, c.RelevanceScore)
	assert.Equal(t, schema.SeverityHigh, c.Severity)
}

func TestClassifyNewsKeepsEverything(t *testing.T) {
	hits := []schema.NewsHit{
		{Title: "Crumb rubber demand", Description: "up"},
		{Title: "Unrelated", Description: "nothing"},
	}
	out := ClassifyNews(hits, []string{"crumb rubber"})
	assert.Len(t, out, 2)
	assert.Equal(t, schema.SeverityLow, out[0].Severity)
	assert.Equal(t, schema.SeverityNone, out[1].Severity)
	assert.Equal(t, "Unrelated", out[1].Title)
}

func TestFilterTenders(t *testing.T) {
	postings := []schema.TenderPosting{
		{Title: "Supply of rubber tiles", Summary: "Playground surfacing"},
		{Title: "Office furniture", Summary: "Chairs"},
	}

	t.Run("drops unmatched postings", func(t *testing.T) {
		out := FilterTenders(postings, []string{"rubber tiles"})
		assert.Len(t, out, 1)
		assert.Equal(t, "Supply of rubber tiles", out[0].Title)
		assert.Equal(t, 1, out[0].KeywordHits)
	})

	t.Run("keeps everything without keywords", func(t *testing.T) {
		out := FilterTenders(postings, nil)
		assert.Len(t, out, 2)
		assert.Equal(t, schema.SeverityNone, out[1].Severity)
	})
}
