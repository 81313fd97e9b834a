package schema

import "time"

// MonitorResult holds the output of one statistical monitoring run:
// the per-entity baseline limits and the classified current-period series.
type MonitorResult struct {
	BaselineStart time.Time               `json:"baseline_start"`
	BaselineEnd   time.Time               `json:"baseline_end"`
	CurrentStart  time.Time               `json:"current_start"`
	CurrentEnd    time.Time               `json:"current_end"`
	Baselines     []BaselineLimits        `json:"baselines"`
	Classified    []ClassifiedObservation `json:"classified"`
}

// Exceptions returns only the classified rows that need attention:
// warning breaches, control breaches, and days without a baseline that
// saw at least one case.
func (r *MonitorResult) Exceptions() []ClassifiedObservation {
	out := make([]ClassifiedObservation, 0)
	for _, c := range r.Classified {
		switch c.Label {
		case ControlBreachLabel, WarningBreachLabel:
			out = append(out, c)
		case NoBaselineLabel:
			if c.Count > 0 {
				out = append(out, c)
			}
		}
	}
	return out
}
