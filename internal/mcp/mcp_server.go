// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/marketscope/core"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the MarketScope MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	return newMCPServer(&toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		analyze: core.GetAnalysisResult,
	})
}

func newMCPServer(h *toolHandler) *server.MCPServer {
	s := server.NewMCPServer(
		"MarketScope Screening Server",
		"1.0.0",
		server.WithLogging(),
	)

	// --- 1. Tool: analyze_market ---
	s.AddTool(subjectTool("analyze_market",
		"Screen an export market: fetch macro, trade, policy, news and tender signals, then score attractiveness with a confidence rating.",
	), h.handleAnalyzeMarket)

	// --- 2. Tool: plan_queries ---
	s.AddTool(subjectTool("plan_queries",
		"Show the search queries, tender keywords and HS code hints for a target without fetching anything.",
	), h.handlePlanQueries)

	// --- 3. Tool: suggest_hs_codes ---
	s.AddTool(mcp.NewTool("suggest_hs_codes",
		mcp.WithDescription("Suggest Harmonized System headings for a product description."),
		mcp.WithString("text", mcp.Description("Free-form product description, e.g. 'crumb rubber and rubber tiles'."), mcp.Required()),
	), h.handleSuggestHSCodes)

	// --- 4. Tool: get_weights ---
	s.AddTool(mcp.NewTool("get_weights",
		mcp.WithDescription("Show the active scoring weights and their normalized values."),
	), h.handleGetWeights)

	return s
}

// subjectTool declares a tool that takes the screening target arguments.
func subjectTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("target_name", mcp.Description("Market to screen, usually a country name such as 'Turkey'."), mcp.Required()),
		mcp.WithString("target_type", mcp.Description("Kind of target. Defaults to 'country'."),
			mcp.Enum("country", "sector", "product", "company", "supply_chain")),
		mcp.WithString("products", mcp.Description("Comma-separated product names.")),
		mcp.WithString("signals", mcp.Description("Comma-separated demand signals of interest.")),
		mcp.WithString("risk_focus", mcp.Description("Comma-separated risk topics to search for.")),
		mcp.WithString("hs_codes", mcp.Description("Comma-separated HS codes.")),
		mcp.WithString("tender_feeds", mcp.Description("Comma-separated tender feed URLs. Prefix with 'json:' for JSON feeds.")),
		mcp.WithString("region", mcp.Description("Optional region label.")),
		mcp.WithNumber("horizon", mcp.Description("Time horizon in months (1-60). Defaults to 12.")),
	)
}

// StartMCPServer starts the MarketScope MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
