package core

import (
	"context"
	"errors"
	"testing"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func monitorConfig() *contract.Config {
	return &contract.Config{
		BaselineStart: day(2025, 1, 1),
		BaselineEnd:   day(2025, 1, 10),
		CurrentStart:  day(2025, 1, 11),
		CurrentEnd:    day(2025, 1, 15),
		Workers:       2,
		Window:        7,
	}
}

// fixtureEvents returns one wardA event per baseline day plus a 3-case
// spike on the first current day, and a single wardB event that exists
// only in the current period.
func fixtureEvents() []schema.EventRecord {
	var events []schema.EventRecord
	for d := 1; d <= 10; d++ {
		events = append(events, schema.EventRecord{Date: day(2025, 1, d), Entity: wardA})
	}
	for range 3 {
		events = append(events, schema.EventRecord{Date: day(2025, 1, 11), Entity: wardA})
	}
	events = append(events, schema.EventRecord{Date: day(2025, 1, 12), Entity: wardB})
	return events
}

// TestRunMonitor runs the full monitoring pipeline against an in-memory
// event source and checks cardinality, limits and labels end to end.
func TestRunMonitor(t *testing.T) {
	cfg := monitorConfig()
	source := &contract.MockEventSource{}
	source.On("FetchEvents", mock.Anything, cfg.BaselineStart, cfg.CurrentEnd).Return(fixtureEvents(), nil)

	result, err := RunMonitor(WithSuppressHeader(context.Background()), cfg, source, nil)
	require.NoError(t, err)
	source.AssertExpectations(t)

	assert.Equal(t, cfg.BaselineStart, result.BaselineStart)
	assert.Equal(t, cfg.CurrentEnd, result.CurrentEnd)

	// Two entities, even though wardB only appears in the current period.
	require.Len(t, result.Baselines, 2)
	assert.Equal(t, wardA, result.Baselines[0].Entity)
	assert.InDelta(t, 1.0, result.Baselines[0].Mean, 0.001, "one event per baseline day")
	assert.Equal(t, wardB, result.Baselines[1].Entity)
	assert.InDelta(t, 0.0, result.Baselines[1].Mean, 0.001, "absent entity gets a zero-filled baseline")

	// 5 current days x 2 entities, day-major.
	require.Len(t, result.Classified, 10)
	spike := result.Classified[0]
	assert.Equal(t, day(2025, 1, 11), spike.Date)
	assert.Equal(t, wardA, spike.Entity)
	assert.Equal(t, 3, spike.Count)
	assert.Equal(t, schema.ControlBreachLabel, spike.Label, "constant baseline collapses limits to the mean")

	quiet := result.Classified[1]
	assert.Equal(t, wardB, quiet.Entity)
	assert.Equal(t, schema.WithinLabel, quiet.Label, "zero-count day never breaches")
}

// TestRunMonitorDeterministic verifies repeated runs produce identical
// output regardless of worker scheduling.
func TestRunMonitorDeterministic(t *testing.T) {
	cfg := monitorConfig()
	cfg.Workers = 4
	ctx := WithSuppressHeader(context.Background())

	var previous []schema.ClassifiedObservation
	for i := range 3 {
		source := &contract.MockEventSource{}
		source.On("FetchEvents", mock.Anything, cfg.BaselineStart, cfg.CurrentEnd).Return(fixtureEvents(), nil)

		result, err := RunMonitor(ctx, cfg, source, nil)
		require.NoError(t, err)
		if i > 0 {
			assert.Equal(t, previous, result.Classified)
		}
		previous = result.Classified
	}
}

// TestRunMonitorFetchError verifies source failures surface as errors.
func TestRunMonitorFetchError(t *testing.T) {
	cfg := monitorConfig()
	source := &contract.MockEventSource{}
	source.On("FetchEvents", mock.Anything, cfg.BaselineStart, cfg.CurrentEnd).Return(nil, errors.New("connection refused"))

	result, err := RunMonitor(WithSuppressHeader(context.Background()), cfg, source, nil)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "failed to fetch events")
}

// TestRunMonitorTracksRun verifies run tracking begins, persists the
// classified rows and finalizes with the entity count.
func TestRunMonitorTracksRun(t *testing.T) {
	cfg := monitorConfig()
	source := &contract.MockEventSource{}
	source.On("FetchEvents", mock.Anything, cfg.BaselineStart, cfg.CurrentEnd).Return(fixtureEvents(), nil)

	store := &contract.MockRunStore{}
	store.On("BeginRun", mock.Anything, mock.Anything).Return(int64(7), nil)
	store.On("RecordClassified", int64(7), mock.Anything).Return(nil)
	store.On("EndRun", int64(7), mock.Anything, 2).Return(nil)
	mgr := &contract.MockStoreManager{}
	mgr.On("GetRunStore").Return(store)

	_, err := RunMonitor(WithSuppressHeader(context.Background()), cfg, source, mgr)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

// TestRunThresholds runs the threshold pipeline with a mocked catalog and
// verifies the resolved severities.
func TestRunThresholds(t *testing.T) {
	cfg := monitorConfig()
	cfg.CurrentStart = day(2025, 1, 1)
	cfg.CurrentEnd = day(2025, 1, 31)

	source := &contract.MockEventSource{}
	source.On("FetchEvents", mock.Anything, cfg.CurrentStart, cfg.CurrentEnd).Return(fixtureEvents(), nil)

	catalog := &contract.MockRuleCatalog{}
	catalog.On("FetchRules", mock.Anything).Return([]schema.ThresholdRule{
		{ID: 1, EffectiveFrom: day(2024, 1, 1), Organism: "mrsa", MonthlyCaseThreshold: 10},
	}, nil)

	result, err := RunThresholds(WithSuppressHeader(context.Background()), cfg, source, catalog, nil)
	require.NoError(t, err)
	source.AssertExpectations(t)
	catalog.AssertExpectations(t)

	require.Len(t, result.Breaches, 2)
	assert.Equal(t, "2025-01", result.Breaches[0].Period)
	assert.Equal(t, wardA, result.Breaches[0].Entity)
	assert.Equal(t, 13, result.Breaches[0].Count)
	assert.Equal(t, schema.BreachSeverity, result.Breaches[0].Severity)
	assert.True(t, result.Breaches[0].Breached)
	assert.Equal(t, wardB, result.Breaches[1].Entity)
	assert.Equal(t, schema.WithinSeverity, result.Breaches[1].Severity)
}

// TestRunThresholdsTracksRun verifies run tracking persists the resolved
// breaches and finalizes with the distinct entity count of the aggregates.
func TestRunThresholdsTracksRun(t *testing.T) {
	cfg := monitorConfig()
	cfg.CurrentStart = day(2025, 1, 1)
	cfg.CurrentEnd = day(2025, 1, 31)

	source := &contract.MockEventSource{}
	source.On("FetchEvents", mock.Anything, cfg.CurrentStart, cfg.CurrentEnd).Return(fixtureEvents(), nil)

	catalog := &contract.MockRuleCatalog{}
	catalog.On("FetchRules", mock.Anything).Return([]schema.ThresholdRule{
		{ID: 1, EffectiveFrom: day(2024, 1, 1), Organism: "mrsa", MonthlyCaseThreshold: 10},
	}, nil)

	store := &contract.MockRunStore{}
	store.On("BeginRun", mock.Anything, mock.Anything).Return(int64(9), nil)
	store.On("RecordBreaches", int64(9), mock.Anything).Return(nil)
	store.On("EndRun", int64(9), mock.Anything, 2).Return(nil)
	mgr := &contract.MockStoreManager{}
	mgr.On("GetRunStore").Return(store)

	_, err := RunThresholds(WithSuppressHeader(context.Background()), cfg, source, catalog, mgr)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

// TestRunThresholdsCatalogError verifies catalog failures surface as errors.
func TestRunThresholdsCatalogError(t *testing.T) {
	cfg := monitorConfig()
	source := &contract.MockEventSource{}
	catalog := &contract.MockRuleCatalog{}
	catalog.On("FetchRules", mock.Anything).Return(nil, errors.New("no such file"))

	result, err := RunThresholds(WithSuppressHeader(context.Background()), cfg, source, catalog, nil)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "failed to load threshold rules")
}

// TestRunTrend runs the rolling-average pipeline end to end.
func TestRunTrend(t *testing.T) {
	cfg := monitorConfig()
	cfg.CurrentStart = day(2025, 1, 11)
	cfg.CurrentEnd = day(2025, 1, 13)
	cfg.Window = 2

	source := &contract.MockEventSource{}
	source.On("FetchEvents", mock.Anything, cfg.CurrentStart, cfg.CurrentEnd).Return([]schema.EventRecord{
		{Date: day(2025, 1, 11), Entity: wardA},
		{Date: day(2025, 1, 11), Entity: wardA},
		{Date: day(2025, 1, 13), Entity: wardA},
	}, nil)

	result, err := RunTrend(WithSuppressHeader(context.Background()), cfg, source)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Window)
	require.Len(t, result.Points, 3)
	assert.InDelta(t, 2.0, result.Points[0].Average, 0.001)
	assert.InDelta(t, 1.0, result.Points[1].Average, 0.001)
	assert.InDelta(t, 0.5, result.Points[2].Average, 0.001)
	assert.Equal(t, 2, result.Points[2].WindowDays)
}
