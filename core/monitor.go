package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/schema"
)

// RunMonitor executes one statistical monitoring run: it fetches events
// across the union of the baseline and current windows, derives the entity
// set, zero-fills both periods, estimates per-entity control limits over
// the baseline, and classifies every current-period day against them.
//
// Raw events never reach the estimator or classifier directly; both
// consume completed (zero-filled) series. The run is a pure function of
// its inputs plus the injected period bounds.
func RunMonitor(ctx context.Context, cfg *contract.Config, source contract.EventSource, mgr contract.StoreManager) (*schema.MonitorResult, error) {
	if !shouldSuppressHeader(ctx) {
		logMonitorHeader(cfg, source)
	}

	// --- 0. Begin run tracking (if configured) ---
	runID := beginRunTracking(mgr, map[string]any{
		"baseline_start": cfg.BaselineStart.Format(schema.DateFormat),
		"baseline_end":   cfg.BaselineEnd.Format(schema.DateFormat),
		"current_start":  cfg.CurrentStart.Format(schema.DateFormat),
		"current_end":    cfg.CurrentEnd.Format(schema.DateFormat),
		"workers":        cfg.Workers,
	})

	// --- 1. Fetch and aggregate ---
	events, err := source.FetchEvents(ctx, cfg.BaselineStart, cfg.CurrentEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	observations := AggregateDaily(events)

	// Entity set spans both periods, so entities active in only one period
	// still appear with zero counts in the other.
	entities := DistinctEntities(observations)

	// --- 2. Zero-fill both periods ---
	baselineDays, err := Days(cfg.BaselineStart, cfg.BaselineEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid baseline period: %w", err)
	}
	currentDays, err := Days(cfg.CurrentStart, cfg.CurrentEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid current period: %w", err)
	}

	baselineSeries := CompleteSeries(baselineDays, entities,
		FilterObservations(observations, cfg.BaselineStart, cfg.BaselineEnd))
	currentSeries := CompleteSeries(currentDays, entities,
		FilterObservations(observations, cfg.CurrentStart, cfg.CurrentEnd))

	// --- 3. Estimate and classify, parallel across entities ---
	baselines := EstimateBaseline(baselineSeries)
	classified := classifyEntities(cfg, currentSeries, BaselineIndex(baselines))

	result := &schema.MonitorResult{
		BaselineStart: cfg.BaselineStart,
		BaselineEnd:   cfg.BaselineEnd,
		CurrentStart:  cfg.CurrentStart,
		CurrentEnd:    cfg.CurrentEnd,
		Baselines:     baselines,
		Classified:    classified,
	}

	// --- 4. End run tracking ---
	endRunTracking(mgr, runID, len(entities), func(store contract.RunStore) error {
		return store.RecordClassified(runID, classified)
	})

	return result, nil
}

// classifyEntities classifies the current series using a worker pool, one
// entity per task. Entities are independent; no worker reads another's
// intermediate state. The merged output is re-sorted day-major so results
// stay byte-identical across runs regardless of scheduling.
func classifyEntities(cfg *contract.Config, series []schema.SeriesPoint, baselines map[schema.EntityKey]schema.BaselineLimits) []schema.ClassifiedObservation {
	byEntity := make(map[schema.EntityKey][]schema.SeriesPoint)
	for _, p := range series {
		byEntity[p.Entity] = append(byEntity[p.Entity], p)
	}

	entityCh := make(chan []schema.SeriesPoint, len(byEntity))
	resultCh := make(chan []schema.ClassifiedObservation, len(byEntity))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for points := range entityCh {
				resultCh <- ClassifySeries(points, baselines)
			}
		})
	}

	for _, points := range byEntity {
		entityCh <- points
	}
	close(entityCh)

	wg.Wait()
	close(resultCh)

	classified := make([]schema.ClassifiedObservation, 0, len(series))
	for rows := range resultCh {
		classified = append(classified, rows...)
	}
	sort.Slice(classified, func(i, j int) bool {
		if !classified[i].Date.Equal(classified[j].Date) {
			return classified[i].Date.Before(classified[j].Date)
		}
		return lessEntity(classified[i].Entity, classified[j].Entity)
	})
	return classified
}

// RunThresholds executes one threshold-resolution run: it aggregates the
// current period's events per calendar month and entity, then resolves
// each aggregate against the externally supplied rule catalog.
func RunThresholds(ctx context.Context, cfg *contract.Config, source contract.EventSource, catalog contract.RuleCatalog, mgr contract.StoreManager) (*schema.BreachResult, error) {
	if !shouldSuppressHeader(ctx) {
		logThresholdsHeader(cfg, source)
	}

	runID := beginRunTracking(mgr, map[string]any{
		"current_start": cfg.CurrentStart.Format(schema.DateFormat),
		"current_end":   cfg.CurrentEnd.Format(schema.DateFormat),
		"rules_file":    cfg.RulesFile,
	})

	rules, err := catalog.FetchRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load threshold rules: %w", err)
	}

	events, err := source.FetchEvents(ctx, cfg.CurrentStart, cfg.CurrentEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	aggregates := AggregateMonthly(events)
	breaches := ResolveBreaches(rules, aggregates)
	result := &schema.BreachResult{Breaches: breaches}

	entities := make(map[schema.EntityKey]struct{}, len(aggregates))
	for _, a := range aggregates {
		entities[a.Entity] = struct{}{}
	}
	endRunTracking(mgr, runID, len(entities), func(store contract.RunStore) error {
		return store.RecordBreaches(runID, breaches)
	})

	return result, nil
}

// RunTrend executes one rolling-average run over the current period.
func RunTrend(ctx context.Context, cfg *contract.Config, source contract.EventSource) (*schema.TrendResult, error) {
	if !shouldSuppressHeader(ctx) {
		logTrendHeader(cfg, source)
	}

	events, err := source.FetchEvents(ctx, cfg.CurrentStart, cfg.CurrentEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	observations := AggregateDaily(events)
	entities := DistinctEntities(observations)

	days, err := Days(cfg.CurrentStart, cfg.CurrentEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid trend period: %w", err)
	}
	series := CompleteSeries(days, entities,
		FilterObservations(observations, cfg.CurrentStart, cfg.CurrentEnd))

	return &schema.TrendResult{
		Start:  cfg.CurrentStart,
		End:    cfg.CurrentEnd,
		Window: cfg.Window,
		Points: RollingAverages(series, cfg.Window),
	}, nil
}

// beginRunTracking starts run tracking when a store is configured.
// Failures are warnings, never fatal.
func beginRunTracking(mgr contract.StoreManager, params map[string]any) int64 {
	if mgr == nil {
		return 0
	}
	store := mgr.GetRunStore()
	if store == nil {
		return 0
	}
	runID, err := store.BeginRun(time.Now(), params)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return 0
	}
	return runID
}

// endRunTracking persists run output and finalizes tracking.
func endRunTracking(mgr contract.StoreManager, runID int64, totalEntities int, record func(contract.RunStore) error) {
	if mgr == nil || runID <= 0 {
		return
	}
	store := mgr.GetRunStore()
	if store == nil {
		return
	}
	if err := record(store); err != nil {
		contract.LogWarn("Failed to persist run output", err)
	}
	if err := store.EndRun(runID, time.Now(), totalEntities); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

func logMonitorHeader(cfg *contract.Config, source contract.EventSource) {
	if cfg.UseEmojis {
		fmt.Printf("🧪 casewatch: monitoring %s\n", source.Describe())
	} else {
		fmt.Printf("casewatch: monitoring %s\n", source.Describe())
	}
	fmt.Printf("Baseline: %s → %s  Current: %s → %s\n\n",
		cfg.BaselineStart.Format(schema.DateFormat), cfg.BaselineEnd.Format(schema.DateFormat),
		cfg.CurrentStart.Format(schema.DateFormat), cfg.CurrentEnd.Format(schema.DateFormat))
}

func logThresholdsHeader(cfg *contract.Config, source contract.EventSource) {
	if cfg.UseEmojis {
		fmt.Printf("📏 casewatch: resolving thresholds for %s\n", source.Describe())
	} else {
		fmt.Printf("casewatch: resolving thresholds for %s\n", source.Describe())
	}
	fmt.Printf("Period: %s → %s\n\n",
		cfg.CurrentStart.Format(schema.DateFormat), cfg.CurrentEnd.Format(schema.DateFormat))
}

func logTrendHeader(cfg *contract.Config, source contract.EventSource) {
	if cfg.UseEmojis {
		fmt.Printf("📈 casewatch: %d-day rolling averages for %s\n", cfg.Window, source.Describe())
	} else {
		fmt.Printf("casewatch: %d-day rolling averages for %s\n", cfg.Window, source.Describe())
	}
	fmt.Printf("Period: %s → %s\n\n",
		cfg.CurrentStart.Format(schema.DateFormat), cfg.CurrentEnd.Format(schema.DateFormat))
}
