// Package narrative writes a short analyst summary of a finished analysis with an
// OpenAI-compatible chat model.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/resilience"
	"github.com/huangsam/marketscope/schema"
)

// maxPromptEvidence caps the evidence titles quoted in the prompt.
const maxPromptEvidence = 8

const systemPrompt = "You are a senior export market analyst. Write plain prose, no markdown, " +
	"at most 120 words. Only use the facts you are given."

// ErrEmptySummary is returned when the model answers with no text.
var ErrEmptySummary = errors.New("model returned an empty summary")

// generator is the part of model.BaseChatModel the narrator needs.
type generator interface {
	Generate(ctx context.Context, input []*einoschema.Message, opts ...model.Option) (*einoschema.Message, error)
}

// Narrator summarizes analysis results.
type Narrator struct {
	model generator
	retry resilience.RetryConfig
}

var _ contract.Narrator = &Narrator{} // Compile-time check

// New connects to the chat model at baseURL.
func New(ctx context.Context, baseURL, modelName, apiKey string) (*Narrator, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat model: %w", err)
	}
	return &Narrator{model: cm, retry: resilience.DefaultRetryConfig()}, nil
}

// Summarize asks the model for a short assessment of result.
func (n *Narrator) Summarize(ctx context.Context, result *schema.AnalysisResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no analysis result to summarize")
	}

	messages := []*einoschema.Message{
		{Role: einoschema.System, Content: systemPrompt},
		{Role: einoschema.User, Content: BuildPrompt(result)},
	}

	var summary string
	err := resilience.RetryWithConfig(ctx, n.retry, func() error {
		resp, err := n.model.Generate(ctx, messages)
		if err != nil {
			return err
		}
		summary = strings.TrimSpace(resp.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}
	if summary == "" {
		return "", ErrEmptySummary
	}
	return summary, nil
}

// BuildPrompt renders the facts of result the model is allowed to use.
func BuildPrompt(result *schema.AnalysisResult) string {
	var sb strings.Builder

	name := result.Subject.TargetName
	if result.Resolved != nil && result.Resolved.Name != "" {
		name = fmt.Sprintf("%s (%s)", result.Resolved.Name, result.Resolved.Code)
	}
	fmt.Fprintf(&sb, "Export market screening for %s, target type %s.\n", name, result.Subject.TargetType)
	if len(result.Subject.Products) > 0 {
		fmt.Fprintf(&sb, "Products: %s.\n", strings.Join(result.Subject.Products, ", "))
	}
	fmt.Fprintf(&sb, "Overall score %d/100 with confidence %d/100.\n", result.Scores.OverallScore, result.Scores.Confidence)

	sb.WriteString("Dimension scores:")
	for _, dim := range slices.Concat(schema.ScoringDimensions, []schema.Dimension{schema.SignalStrength}) {
		fmt.Fprintf(&sb, " %s=%d", dim, result.Scores.DimensionalScores.Value(dim))
	}
	sb.WriteString("\n")

	if len(result.Evidence) > 0 {
		sb.WriteString("Evidence:\n")
		for i, item := range result.Evidence {
			if i == maxPromptEvidence {
				break
			}
			fmt.Fprintf(&sb, "- [%s, %s] %s\n", item.SignalType, item.Quality, item.Title)
		}
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(&sb, "Note: %s\n", w)
	}

	sb.WriteString("\nSummarize the attractiveness of this market and the main caveats.")
	return sb.String()
}
