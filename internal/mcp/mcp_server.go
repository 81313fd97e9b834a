// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/internal/eventsrc"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Casewatch MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Casewatch Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:   baseCfg,
		mgr:       mgr,
		newSource: eventsrc.NewEventSource,
	}

	// --- 1. Tool: monitor_series ---
	s.AddTool(mcp.NewTool("monitor_series",
		mcp.WithDescription("Classify daily surveillance case counts against statistical control limits derived from a baseline period."),
		mcp.WithString("baseline_start", mcp.Description("Baseline period start (YYYY-MM-DD or 'N months ago').")),
		mcp.WithString("baseline_end", mcp.Description("Baseline period end (YYYY-MM-DD or 'N months ago').")),
		mcp.WithString("current_start", mcp.Description("Current period start (YYYY-MM-DD or 'N months ago').")),
		mcp.WithString("current_end", mcp.Description("Current period end (YYYY-MM-DD or 'N months ago').")),
		mcp.WithBoolean("exceptions_only", mcp.Description("Return only breaches and unclassifiable days with cases.")),
	), h.handleMonitorSeries)

	// --- 2. Tool: resolve_thresholds ---
	s.AddTool(mcp.NewTool("resolve_thresholds",
		mcp.WithDescription("Aggregate case counts per calendar month and resolve them against the date-effective threshold-rule catalog."),
		mcp.WithString("rules_file", mcp.Description("Path to the threshold-rule catalog CSV (defaults to the configured file).")),
		mcp.WithString("current_start", mcp.Description("Period start (YYYY-MM-DD or 'N months ago').")),
		mcp.WithString("current_end", mcp.Description("Period end (YYYY-MM-DD or 'N months ago').")),
	), h.handleResolveThresholds)

	// --- 3. Tool: get_trend ---
	s.AddTool(mcp.NewTool("get_trend",
		mcp.WithDescription("Compute trailing rolling averages over the zero-filled daily series of each tracked entity."),
		mcp.WithNumber("window", mcp.Description("Rolling window size in days. Defaults to the configured window.")),
		mcp.WithString("current_start", mcp.Description("Period start (YYYY-MM-DD or 'N months ago').")),
		mcp.WithString("current_end", mcp.Description("Period end (YYYY-MM-DD or 'N months ago').")),
	), h.handleGetTrend)

	return s
}

// StartMCPServer starts the Casewatch MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
