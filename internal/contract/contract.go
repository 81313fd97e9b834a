// Package contract provides interfaces and shared utilities for the casewatch CLI's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/arosling/casewatch/schema"
)

// EventSource defines read access to the external event store. The engine
// only ever sees a finite, pre-filtered collection of raw events; ingestion
// and field-completeness checks happen upstream of this interface.
type EventSource interface {
	// FetchEvents returns all events with dates in [start, end] inclusive.
	FetchEvents(ctx context.Context, start, end time.Time) ([]schema.EventRecord, error)

	// Describe returns a short human-readable description of the source.
	Describe() string
}

// RuleCatalog supplies the threshold-rule catalog as a finite in-memory
// collection, loaded once per run and never re-fetched mid-run.
type RuleCatalog interface {
	FetchRules(ctx context.Context) ([]schema.ThresholdRule, error)
}

// StoreManager defines the interface for managing the run store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking runs and persisting their
// classified output. A nil or no-op store disables persistence; the core
// engine itself never writes anywhere.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalEntities int) error

	// RecordClassified stores classified observations for a run
	RecordClassified(runID int64, rows []schema.ClassifiedObservation) error

	// RecordBreaches stores resolved threshold breaches for a run
	RecordBreaches(runID int64, rows []schema.ResolvedBreach) error

	// GetAllRuns retrieves all run records for export
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllClassified retrieves all classified observation rows for export
	GetAllClassified() ([]schema.ClassifiedRecord, error)

	// GetAllBreaches retrieves all resolved breach rows for export
	GetAllBreaches() ([]schema.BreachRecord, error)

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// Clear removes all stored runs and their rows
	Clear() error

	// Close closes the underlying connection
	Close() error
}
