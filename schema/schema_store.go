package schema

import "time"

// RunStatus represents the status of the run store.
type RunStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalRuns         int              `json:"total_runs"`
	LastRunID         int64            `json:"last_run_id"`
	LastRunTime       time.Time        `json:"last_run_time"`
	OldestRunTime     time.Time        `json:"oldest_run_time"`
	TotalObservations int              `json:"total_observations"`
	TotalBreaches     int              `json:"total_breaches"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the casewatch_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalEntities int32
	ConfigParams  *string
}

// ClassifiedRecord represents a row from the casewatch_classified table.
// Dates are stored as calendar-day strings; limits are nil where no
// baseline was available for the entity.
type ClassifiedRecord struct {
	RunID             int64
	Date              string
	Site              string
	Department        string
	Organism          string
	Count             int32
	BaselineMean      *float64
	BaselineStdDev    *float64
	UpperWarningLimit *float64
	UpperControlLimit *float64
	Label             string
}

// BreachRecord represents a row from the casewatch_breaches table.
// RuleID is nil when no threshold rule applied to the entity.
type BreachRecord struct {
	RunID      int64
	Period     string
	Site       string
	Department string
	Organism   string
	Count      int32
	RuleID     *int32
	Severity   string
	Breached   bool
}
