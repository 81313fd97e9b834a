package schema

import "time"

// TrendPoint is one day of a trailing rolling average for one entity.
// WindowDays is the actual window used, truncated below the configured
// size for the first days of the series.
type TrendPoint struct {
	Date       time.Time `json:"date"`
	Entity     EntityKey `json:"entity"`
	Count      int       `json:"count"`
	Average    float64   `json:"average"`
	WindowDays int       `json:"window_days"`
}

// TrendResult holds the rolling-average series for one trend run.
type TrendResult struct {
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Window int          `json:"window"`
	Points []TrendPoint `json:"points"`
}
