package core

import (
	"context"
	"time"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/internal/eventsrc"
	"github.com/arosling/casewatch/internal/outwriter"
)

// ExecutorFunc defines the function signature for executing the different run modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteMonitor runs the statistical monitoring pipeline and prints
// results to the configured output. It serves as the main entry point for
// the 'monitor' mode.
func ExecuteMonitor(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	source, err := eventsrc.NewEventSource(cfg)
	if err != nil {
		return err
	}
	defer eventsrc.CloseSource(source)

	result, err := RunMonitor(ctx, cfg, source, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteMonitor(result, cfg, duration)
}

// ExecuteThresholds runs threshold resolution over the current period and
// prints results to the configured output. It serves as the main entry
// point for the 'thresholds' mode.
func ExecuteThresholds(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	source, err := eventsrc.NewEventSource(cfg)
	if err != nil {
		return err
	}
	defer eventsrc.CloseSource(source)
	catalog := eventsrc.NewCSVRuleCatalog(cfg.RulesFile)

	result, err := RunThresholds(ctx, cfg, source, catalog, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteBreaches(result, cfg, duration)
}

// ExecuteTrend runs the rolling-average pipeline and prints results to the
// configured output. It serves as the main entry point for the 'trend' mode.
func ExecuteTrend(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	source, err := eventsrc.NewEventSource(cfg)
	if err != nil {
		return err
	}
	defer eventsrc.CloseSource(source)

	result, err := RunTrend(ctx, cfg, source)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteTrend(result, cfg, duration)
}
