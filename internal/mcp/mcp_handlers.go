package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/marketscope/core"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// analyzeFunc runs one analysis. It is core.GetAnalysisResult outside of tests.
type analyzeFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.AnalysisResult, error)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	analyze analyzeFunc
}

func (h *toolHandler) handleAnalyzeMarket(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	subject, err := subjectFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid subject: %v", err)), nil
	}
	cfg.Subject = subject

	result, err := h.analyze(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if errors.Is(err, core.ErrSubjectResolution) {
		return mcp.NewToolResultError(fmt.Sprintf("target not found: %v", err)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handlePlanQueries(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject, err := subjectFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid subject: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(core.GetQueryPlan(subject), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSuggestHSCodes(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	payload := map[string]any{
		"text":    text,
		"codes":   core.SuggestHSCodes(text),
		"matches": core.MatchHSCategories(text),
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetWeights(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := map[string]any{
		"weights":    h.baseCfg.Scoring.Weights(),
		"normalized": h.baseCfg.Scoring.NormalizedWeights(),
		"sum":        h.baseCfg.Scoring.Sum(),
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// subjectFromRequest validates the subject arguments shared by the screening tools.
func subjectFromRequest(request mcp.CallToolRequest) (schema.Subject, error) {
	return schema.NewSubject(schema.Subject{
		TargetType:        schema.TargetType(request.GetString("target_type", "")),
		TargetName:        request.GetString("target_name", ""),
		Region:            request.GetString("region", ""),
		Products:          schema.SplitList(request.GetString("products", "")),
		SignalsOfInterest: schema.SplitList(request.GetString("signals", "")),
		RiskFocus:         schema.SplitList(request.GetString("risk_focus", "")),
		HSCodes:           schema.SplitList(request.GetString("hs_codes", "")),
		TenderFeeds:       schema.SplitList(request.GetString("tender_feeds", "")),
		TimeHorizonMonths: request.GetInt("horizon", 0),
	})
}
