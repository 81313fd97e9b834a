// Package schema has configs, models and shared constants for all parts of casewatch.
package schema

import "time"

// DateFormat is the canonical calendar-day representation used across
// inputs, outputs and stored rows.
const DateFormat = "2006-01-02"

// UnknownValue is the literal label carried by unresolved dimension values.
// Blank fields are normalized to this rather than dropped, so incomplete
// records still produce a trackable series.
const UnknownValue = "unknown"

// EntityKey identifies one tracked series: the ordered tuple of
// site, department and organism. The struct is comparable and is used
// directly as a map key throughout the engine.
type EntityKey struct {
	Site       string `json:"site"`
	Department string `json:"department"`
	Organism   string `json:"organism"`
}

// Normalize replaces blank dimension values with the "unknown" label.
func (e EntityKey) Normalize() EntityKey {
	if e.Site == "" {
		e.Site = UnknownValue
	}
	if e.Department == "" {
		e.Department = UnknownValue
	}
	if e.Organism == "" {
		e.Organism = UnknownValue
	}
	return e
}

// String renders the key as site/department/organism for display.
func (e EntityKey) String() string {
	return e.Site + "/" + e.Department + "/" + e.Organism
}

// EventRecord is one raw surveillance event as read from the event store.
// Dates are assumed non-null and counts implicit (one row = one case);
// field completeness is the upstream validator's job.
type EventRecord struct {
	Date   time.Time `json:"date"`
	Entity EntityKey `json:"entity"`
}

// DailyObservation is the per-day, per-entity aggregate of raw events.
// It is sparse: days with no events have no row.
type DailyObservation struct {
	Date   time.Time `json:"date"`
	Entity EntityKey `json:"entity"`
	Count  int       `json:"count"`
}

// SeriesPoint is one cell of a complete (zero-filled) daily series.
// For a given period and entity set there is exactly one point per
// (day, entity) combination, with Count = 0 where nothing was observed.
type SeriesPoint struct {
	Date   time.Time `json:"date"`
	Entity EntityKey `json:"entity"`
	Count  int       `json:"count"`
}

// BaselineLimits holds the per-entity statistics estimated over the
// baseline period. StdDev and the derived limits are nil (not zero) when
// fewer than two baseline days were available.
type BaselineLimits struct {
	Entity            EntityKey `json:"entity"`
	DaysUsed          int       `json:"days_used"`
	Mean              float64   `json:"mean"`
	StdDev            *float64  `json:"std_dev"`
	UpperWarningLimit *float64  `json:"upper_warning_limit"` // mean + 2 sigma
	UpperControlLimit *float64  `json:"upper_control_limit"` // mean + 3 sigma
}

// ClassifiedObservation is a complete-series point joined with its
// entity's baseline limits and a breach label. The limit fields stay nil
// for entities without a usable baseline.
type ClassifiedObservation struct {
	Date              time.Time `json:"date"`
	Entity            EntityKey `json:"entity"`
	Count             int       `json:"count"`
	BaselineMean      *float64  `json:"baseline_mean"`
	BaselineStdDev    *float64  `json:"baseline_std_dev"`
	UpperWarningLimit *float64  `json:"upper_warning_limit"`
	UpperControlLimit *float64  `json:"upper_control_limit"`
	Label             Label     `json:"label"`
}
