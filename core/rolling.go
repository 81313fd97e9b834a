package core

import (
	"sort"

	"github.com/arosling/casewatch/schema"
)

// RollingAverages computes a trailing N-day mean for every point of a
// complete series. Windows are scoped per entity and truncated at the
// start of the series: the first day averages over one value, the second
// over two, until the full window is reached. Output preserves calendar
// order (day-major, entities sorted within a day).
func RollingAverages(series []schema.SeriesPoint, window int) []schema.TrendPoint {
	if window < 1 {
		window = 1
	}

	// Group per entity in calendar order; windows never cross entities.
	byEntity := make(map[schema.EntityKey][]schema.SeriesPoint)
	for _, p := range series {
		byEntity[p.Entity] = append(byEntity[p.Entity], p)
	}

	out := make([]schema.TrendPoint, 0, len(series))
	for entity, points := range byEntity {
		sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

		var sum int
		for i, p := range points {
			sum += p.Count
			if i >= window {
				sum -= points[i-window].Count
			}
			n := min(i+1, window)
			out = append(out, schema.TrendPoint{
				Date:       p.Date,
				Entity:     entity,
				Count:      p.Count,
				Average:    float64(sum) / float64(n),
				WindowDays: n,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return lessEntity(out[i].Entity, out[j].Entity)
	})
	return out
}
