package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arosling/casewatch/core"
	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/internal/eventsrc"
	"github.com/arosling/casewatch/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers. The server
// is long-lived, so every call builds its own event source and must close
// it before returning.
type toolHandler struct {
	baseCfg   *contract.Config
	mgr       contract.StoreManager
	newSource func(*contract.Config) (contract.EventSource, error)
}

func (h *toolHandler) handleMonitorSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyPeriodOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid monitoring parameters: %v", err)), nil
	}
	cfg.ExceptionsOnly = request.GetBool("exceptions_only", cfg.ExceptionsOnly)

	source, err := h.newSource(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("event source setup failed: %v", err)), nil
	}
	defer eventsrc.CloseSource(source)

	result, err := core.RunMonitor(core.WithSuppressHeader(ctx), cfg, source, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("monitoring failed: %v", err)), nil
	}

	rows := result.Classified
	if cfg.ExceptionsOnly {
		rows = result.Exceptions()
	}
	output := schema.MonitorResult{
		BaselineStart: result.BaselineStart,
		BaselineEnd:   result.BaselineEnd,
		CurrentStart:  result.CurrentStart,
		CurrentEnd:    result.CurrentEnd,
		Baselines:     result.Baselines,
		Classified:    rows,
	}
	jsonData, _ := json.MarshalIndent(output, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleResolveThresholds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyPeriodOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid threshold parameters: %v", err)), nil
	}
	if f := request.GetString("rules_file", ""); f != "" {
		cfg.RulesFile = f
	}
	if cfg.RulesFile == "" {
		return mcp.NewToolResultError("rules_file is required for threshold resolution"), nil
	}

	source, err := h.newSource(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("event source setup failed: %v", err)), nil
	}
	defer eventsrc.CloseSource(source)
	catalog := eventsrc.NewCSVRuleCatalog(cfg.RulesFile)

	result, err := core.RunThresholds(core.WithSuppressHeader(ctx), cfg, source, catalog, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("threshold resolution failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyPeriodOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid trend parameters: %v", err)), nil
	}
	if w := request.GetInt("window", 0); w > 0 {
		cfg.Window = w
	}

	source, err := h.newSource(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("event source setup failed: %v", err)), nil
	}
	defer eventsrc.CloseSource(source)

	result, err := core.RunTrend(core.WithSuppressHeader(ctx), cfg, source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trend analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// applyPeriodOverrides re-parses any period bounds supplied by the tool
// call, relative to the base config's as-of day.
func applyPeriodOverrides(cfg *contract.Config, request mcp.CallToolRequest) error {
	if s := request.GetString("baseline_start", ""); s != "" {
		day, err := contract.ParseDay(s, cfg.AsOf)
		if err != nil {
			return fmt.Errorf("baseline_start: %w", err)
		}
		cfg.BaselineStart = day
	}
	if s := request.GetString("baseline_end", ""); s != "" {
		day, err := contract.ParseDay(s, cfg.AsOf)
		if err != nil {
			return fmt.Errorf("baseline_end: %w", err)
		}
		cfg.BaselineEnd = day
	}
	if s := request.GetString("current_start", ""); s != "" {
		day, err := contract.ParseDay(s, cfg.AsOf)
		if err != nil {
			return fmt.Errorf("current_start: %w", err)
		}
		cfg.CurrentStart = day
	}
	if s := request.GetString("current_end", ""); s != "" {
		day, err := contract.ParseDay(s, cfg.AsOf)
		if err != nil {
			return fmt.Errorf("current_end: %w", err)
		}
		cfg.CurrentEnd = day
	}

	if cfg.BaselineEnd.Before(cfg.BaselineStart) {
		return errors.New("baseline period ends before it starts")
	}
	if cfg.CurrentEnd.Before(cfg.CurrentStart) {
		return errors.New("current period ends before it starts")
	}
	return nil
}
