package core

import (
	"iter"
	"time"

	"github.com/arosling/casewatch/schema"
)

// CompleteSeries materializes the full cross product of days and entities,
// left-populated from the sparse observations. Combinations with no
// observation get an explicit zero count; observations outside the day
// sequence or entity set are excluded by construction.
//
// The observed counts are indexed once by (date, entity) and probed once
// per cross-product cell, so the cost is O(days*entities) time with
// O(observed) auxiliary space. Output is day-major: all entities for the
// first day, then the next day, in the entity order given.
func CompleteSeries(days iter.Seq[time.Time], entities []schema.EntityKey, observations []schema.DailyObservation) []schema.SeriesPoint {
	observed := make(map[dayEntity]int, len(observations))
	for _, o := range observations {
		observed[dayEntity{date: DayOf(o.Date), entity: o.Entity}] = o.Count
	}

	var out []schema.SeriesPoint
	for day := range days {
		for _, entity := range entities {
			out = append(out, schema.SeriesPoint{
				Date:   day,
				Entity: entity,
				Count:  observed[dayEntity{date: day, entity: entity}],
			})
		}
	}
	return out
}
