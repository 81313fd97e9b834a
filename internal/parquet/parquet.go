// Package parquet provides data structures and functions for exporting
// stored casewatch runs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/arosling/casewatch/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents one engine run with metadata.
// This struct maps to the casewatch_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalEntities is the number of tracked entities covered by the run
	TotalEntities int32 `parquet:"total_entities,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ClassifiedObservation represents one classified day of one entity's series.
// This struct maps to the casewatch_classified database table.
type ClassifiedObservation struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// Date is the observation day as a calendar-day string
	Date string `parquet:"obs_date,snappy"`

	// Site is the reporting site
	Site string `parquet:"site,snappy"`

	// Department is the department within the site
	Department string `parquet:"department,snappy"`

	// Organism is the tracked organism
	Organism string `parquet:"organism,snappy"`

	// Count is the observed case count for the day
	Count int32 `parquet:"case_count,snappy"`

	// BaselineMean is the baseline-period mean (nullable)
	BaselineMean *float64 `parquet:"baseline_mean,optional,snappy"`

	// BaselineStdDev is the baseline-period sample standard deviation (nullable)
	BaselineStdDev *float64 `parquet:"baseline_std_dev,optional,snappy"`

	// UpperWarningLimit is mean + 2 standard deviations (nullable)
	UpperWarningLimit *float64 `parquet:"upper_warning_limit,optional,snappy"`

	// UpperControlLimit is mean + 3 standard deviations (nullable)
	UpperControlLimit *float64 `parquet:"upper_control_limit,optional,snappy"`

	// Label is the breach classification for the day
	Label string `parquet:"label,snappy"`
}

// ResolvedBreach represents one period aggregate resolved against the
// threshold-rule catalog. This struct maps to the casewatch_breaches table.
type ResolvedBreach struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// Period is the aggregation period label, e.g. "2025-01"
	Period string `parquet:"period,snappy"`

	// Site is the reporting site
	Site string `parquet:"site,snappy"`

	// Department is the department within the site
	Department string `parquet:"department,snappy"`

	// Organism is the tracked organism
	Organism string `parquet:"organism,snappy"`

	// Count is the observed case count for the period
	Count int32 `parquet:"case_count,snappy"`

	// RuleID identifies the applied threshold rule (nullable)
	RuleID *int32 `parquet:"rule_id,optional,snappy"`

	// Severity is the resolved severity label
	Severity string `parquet:"severity,snappy"`

	// Breached reports whether the base threshold was met
	Breached bool `parquet:"breached,snappy"`
}

// TrendPoint represents one day of a trailing rolling average for one entity.
type TrendPoint struct {
	// Date is the observation day as a calendar-day string
	Date string `parquet:"obs_date,snappy"`

	// Site is the reporting site
	Site string `parquet:"site,snappy"`

	// Department is the department within the site
	Department string `parquet:"department,snappy"`

	// Organism is the tracked organism
	Organism string `parquet:"organism,snappy"`

	// Count is the observed case count for the day
	Count int32 `parquet:"case_count,snappy"`

	// Average is the trailing rolling average ending on this day
	Average float64 `parquet:"rolling_average,snappy"`

	// WindowDays is the actual window size used for this day
	WindowDays int32 `parquet:"window_days,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the Run struct tags
	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteClassifiedParquet writes a slice of ClassifiedObservation structs to a Parquet file.
func WriteClassifiedParquet(data []ClassifiedObservation, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[ClassifiedObservation](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteBreachesParquet writes a slice of ResolvedBreach structs to a Parquet file.
func WriteBreachesParquet(data []ResolvedBreach, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[ResolvedBreach](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteTrendParquet writes a slice of TrendPoint structs to a Parquet file.
func WriteTrendParquet(data []TrendPoint, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[TrendPoint](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalEntities: record.TotalEntities,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertClassifiedRecords converts schema.ClassifiedRecord to
// ClassifiedObservation for Parquet export.
func ConvertClassifiedRecords(records []schema.ClassifiedRecord) []ClassifiedObservation {
	result := make([]ClassifiedObservation, len(records))
	for i, record := range records {
		result[i] = ClassifiedObservation{
			RunID:             record.RunID,
			Date:              record.Date,
			Site:              record.Site,
			Department:        record.Department,
			Organism:          record.Organism,
			Count:             record.Count,
			BaselineMean:      record.BaselineMean,
			BaselineStdDev:    record.BaselineStdDev,
			UpperWarningLimit: record.UpperWarningLimit,
			UpperControlLimit: record.UpperControlLimit,
			Label:             record.Label,
		}
	}
	return result
}

// ConvertBreachRecords converts schema.BreachRecord to ResolvedBreach for
// Parquet export.
func ConvertBreachRecords(records []schema.BreachRecord) []ResolvedBreach {
	result := make([]ResolvedBreach, len(records))
	for i, record := range records {
		result[i] = ResolvedBreach{
			RunID:      record.RunID,
			Period:     record.Period,
			Site:       record.Site,
			Department: record.Department,
			Organism:   record.Organism,
			Count:      record.Count,
			RuleID:     record.RuleID,
			Severity:   record.Severity,
			Breached:   record.Breached,
		}
	}
	return result
}

// ConvertClassifiedObservations converts in-memory classified observations
// to ClassifiedObservation for Parquet output. RunID is zero for direct
// exports that bypass the run store.
func ConvertClassifiedObservations(rows []schema.ClassifiedObservation) []ClassifiedObservation {
	result := make([]ClassifiedObservation, len(rows))
	for i, row := range rows {
		result[i] = ClassifiedObservation{
			Date:              row.Date.Format(schema.DateFormat),
			Site:              row.Entity.Site,
			Department:        row.Entity.Department,
			Organism:          row.Entity.Organism,
			Count:             int32(row.Count),
			BaselineMean:      row.BaselineMean,
			BaselineStdDev:    row.BaselineStdDev,
			UpperWarningLimit: row.UpperWarningLimit,
			UpperControlLimit: row.UpperControlLimit,
			Label:             string(row.Label),
		}
	}
	return result
}

// ConvertResolvedBreaches converts in-memory resolved breaches to
// ResolvedBreach for Parquet output. RunID is zero for direct exports that
// bypass the run store.
func ConvertResolvedBreaches(rows []schema.ResolvedBreach) []ResolvedBreach {
	result := make([]ResolvedBreach, len(rows))
	for i, row := range rows {
		var ruleID *int32
		if row.Rule != nil {
			id := int32(row.Rule.ID)
			ruleID = &id
		}
		result[i] = ResolvedBreach{
			Period:     row.Period,
			Site:       row.Entity.Site,
			Department: row.Entity.Department,
			Organism:   row.Entity.Organism,
			Count:      int32(row.Count),
			RuleID:     ruleID,
			Severity:   string(row.Severity),
			Breached:   row.Breached,
		}
	}
	return result
}

// ConvertTrendPoints converts in-memory trend points to TrendPoint for
// Parquet output.
func ConvertTrendPoints(rows []schema.TrendPoint) []TrendPoint {
	result := make([]TrendPoint, len(rows))
	for i, row := range rows {
		result[i] = TrendPoint{
			Date:       row.Date.Format(schema.DateFormat),
			Site:       row.Entity.Site,
			Department: row.Entity.Department,
			Organism:   row.Entity.Organism,
			Count:      int32(row.Count),
			Average:    row.Average,
			WindowDays: int32(row.WindowDays),
		}
	}
	return result
}
