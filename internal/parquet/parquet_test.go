package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arosling/casewatch/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []Run {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1 * time.Hour)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	configParams1 := `{"baseline_start":"2024-01-01","workers":4}`

	// Second run is still open; its nullable fields stay nil.
	startTime2 := now.Add(-10 * time.Minute)

	return []Run{
		{
			RunID:         1,
			StartTime:     startTime1,
			EndTime:       &endTime1,
			RunDurationMs: &durationMs1,
			TotalEntities: 42,
			ConfigParams:  &configParams1,
		},
		{
			RunID:     2,
			StartTime: startTime2,
		},
	}
}

func TestRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(Run))
	require.NotNil(t, s)

	expectedColumns := []string{
		"run_id",
		"start_time",
		"end_time",
		"run_duration_ms",
		"total_entities",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestClassifiedObservationStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ClassifiedObservation))
	require.NotNil(t, s)

	expectedColumns := []string{
		"run_id",
		"obs_date",
		"site",
		"department",
		"organism",
		"case_count",
		"baseline_mean",
		"baseline_std_dev",
		"upper_warning_limit",
		"upper_control_limit",
		"label",
	}

	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestResolvedBreachStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ResolvedBreach))
	require.NotNil(t, s)

	expectedColumns := []string{
		"run_id",
		"period",
		"site",
		"department",
		"organism",
		"case_count",
		"rule_id",
		"severity",
		"breached",
	}

	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := sampleRuns()

	require.NoError(t, WriteRunsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[Run](file)
	defer func() { _ = reader.Close() }()

	readData := make([]Run, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n, "Should read all records")

	for i := range data {
		assert.Equal(t, data[i].RunID, readData[i].RunID)
		assert.Equal(t, data[i].TotalEntities, readData[i].TotalEntities)

		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime)
		} else {
			require.NotNil(t, readData[i].EndTime)
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Microsecond)
		}
		if data[i].RunDurationMs == nil {
			assert.Nil(t, readData[i].RunDurationMs)
		} else {
			require.NotNil(t, readData[i].RunDurationMs)
			assert.Equal(t, *data[i].RunDurationMs, *readData[i].RunDurationMs)
		}
		if data[i].ConfigParams == nil {
			assert.Nil(t, readData[i].ConfigParams)
		} else {
			require.NotNil(t, readData[i].ConfigParams)
			assert.Equal(t, *data[i].ConfigParams, *readData[i].ConfigParams)
		}
	}
}

func TestWriteClassifiedParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "classified.parquet")
	mean := 1.5
	data := []ClassifiedObservation{
		{
			RunID:        1,
			Date:         "2025-01-15",
			Site:         "central",
			Department:   "icu",
			Organism:     "mrsa",
			Count:        6,
			BaselineMean: &mean,
			Label:        string(schema.ControlBreachLabel),
		},
		{
			RunID:      1,
			Date:       "2025-01-15",
			Site:       "north",
			Department: "surgical",
			Organism:   "cdiff",
			Count:      0,
			Label:      string(schema.NoBaselineLabel),
		},
	}

	require.NoError(t, WriteClassifiedParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[ClassifiedObservation](file)
	defer func() { _ = reader.Close() }()

	readData := make([]ClassifiedObservation, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)
	assert.Equal(t, data, readData)
}

func TestWriteBreachesParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "breaches.parquet")
	ruleID := int32(3)
	data := []ResolvedBreach{
		{RunID: 1, Period: "2025-01", Site: "central", Department: "icu", Organism: "mrsa", Count: 8, RuleID: &ruleID, Severity: string(schema.BreachSeverity), Breached: true},
		{RunID: 1, Period: "2025-01", Site: "north", Department: "icu", Organism: "cdiff", Count: 1, Severity: string(schema.NoThresholdSeverity)},
	}

	require.NoError(t, WriteBreachesParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[ResolvedBreach](file)
	defer func() { _ = reader.Close() }()

	readData := make([]ResolvedBreach, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)
	assert.Equal(t, data, readData)
}

func TestWriteTrendParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "trend.parquet")
	data := []TrendPoint{
		{Date: "2025-01-15", Site: "central", Department: "icu", Organism: "mrsa", Count: 2, Average: 1.5, WindowDays: 7},
	}

	require.NoError(t, WriteTrendParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestConvertClassifiedObservations(t *testing.T) {
	mean := 2.0
	rows := []schema.ClassifiedObservation{
		{
			Date:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Entity:       schema.EntityKey{Site: "central", Department: "icu", Organism: "mrsa"},
			Count:        5,
			BaselineMean: &mean,
			Label:        schema.WarningBreachLabel,
		},
	}

	got := ConvertClassifiedObservations(rows)

	require.Len(t, got, 1)
	assert.Equal(t, int64(0), got[0].RunID, "direct exports carry no run ID")
	assert.Equal(t, "2025-01-15", got[0].Date)
	assert.Equal(t, "central", got[0].Site)
	assert.Equal(t, int32(5), got[0].Count)
	assert.Same(t, &mean, got[0].BaselineMean)
	assert.Equal(t, string(schema.WarningBreachLabel), got[0].Label)
}

func TestConvertResolvedBreaches(t *testing.T) {
	rule := schema.ThresholdRule{ID: 7, Organism: "mrsa", MonthlyCaseThreshold: 5}
	rows := []schema.ResolvedBreach{
		{
			Period:   "2025-01",
			Entity:   schema.EntityKey{Site: "central", Department: "icu", Organism: "mrsa"},
			Count:    9,
			Rule:     &rule,
			Severity: schema.BreachSeverity,
			Breached: true,
		},
		{
			Period:   "2025-01",
			Entity:   schema.EntityKey{Site: "north", Department: "icu", Organism: "cdiff"},
			Count:    1,
			Severity: schema.NoThresholdSeverity,
		},
	}

	got := ConvertResolvedBreaches(rows)

	require.Len(t, got, 2)
	require.NotNil(t, got[0].RuleID)
	assert.Equal(t, int32(7), *got[0].RuleID)
	assert.True(t, got[0].Breached)
	assert.Nil(t, got[1].RuleID)
}

func TestConvertRunRecords(t *testing.T) {
	now := time.Now()
	records := []schema.RunRecord{
		{RunID: 5, StartTime: now, TotalEntities: 3},
	}

	got := ConvertRunRecords(records)

	require.Len(t, got, 1)
	assert.Equal(t, int64(5), got[0].RunID)
	assert.Equal(t, now, got[0].StartTime)
	assert.Nil(t, got[0].EndTime)
	assert.Equal(t, int32(3), got[0].TotalEntities)
}

func TestConvertTrendPoints(t *testing.T) {
	rows := []schema.TrendPoint{
		{
			Date:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Entity:     schema.EntityKey{Site: "central", Department: "icu", Organism: "mrsa"},
			Count:      2,
			Average:    0.75,
			WindowDays: 4,
		},
	}

	got := ConvertTrendPoints(rows)

	require.Len(t, got, 1)
	assert.Equal(t, "2025-01-15", got[0].Date)
	assert.Equal(t, int32(2), got[0].Count)
	assert.InDelta(t, 0.75, got[0].Average, 0.001)
	assert.Equal(t, int32(4), got[0].WindowDays)
}
