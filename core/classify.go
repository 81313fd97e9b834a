package core

import (
	"github.com/arosling/casewatch/schema"
)

// ClassifySeries labels every point of a monitored complete series against
// the baseline limits for its entity. The join is an outer one: entities
// with no baseline row, or with insufficient baseline days, still produce
// output rows carrying the "no baseline available" label.
//
// Classification is a pure per-row function; no row affects another.
func ClassifySeries(series []schema.SeriesPoint, baselines map[schema.EntityKey]schema.BaselineLimits) []schema.ClassifiedObservation {
	out := make([]schema.ClassifiedObservation, 0, len(series))
	for _, p := range series {
		out = append(out, classifyPoint(p, baselines))
	}
	return out
}

// classifyPoint labels a single series point. Both limits are inclusive:
// a count exactly equal to a limit breaches it, and the control limit is
// checked first so it takes precedence when both hold.
func classifyPoint(p schema.SeriesPoint, baselines map[schema.EntityKey]schema.BaselineLimits) schema.ClassifiedObservation {
	obs := schema.ClassifiedObservation{
		Date:   p.Date,
		Entity: p.Entity,
		Count:  p.Count,
		Label:  schema.NoBaselineLabel,
	}

	b, ok := baselines[p.Entity]
	if !ok || b.StdDev == nil {
		return obs
	}

	mean := b.Mean
	obs.BaselineMean = &mean
	obs.BaselineStdDev = b.StdDev
	obs.UpperWarningLimit = b.UpperWarningLimit
	obs.UpperControlLimit = b.UpperControlLimit

	// A zero-count day never breaches, even when an all-zero baseline
	// collapses both limits to zero.
	count := float64(p.Count)
	switch {
	case p.Count == 0:
		obs.Label = schema.WithinLabel
	case count >= *b.UpperControlLimit:
		obs.Label = schema.ControlBreachLabel
	case count >= *b.UpperWarningLimit:
		obs.Label = schema.WarningBreachLabel
	default:
		obs.Label = schema.WithinLabel
	}
	return obs
}
