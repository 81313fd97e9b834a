package core

import (
	"math"
	"sort"

	"github.com/arosling/casewatch/schema"
)

// EstimateBaseline computes per-entity control-limit statistics over a
// complete baseline series. The series must be zero-filled: excluding
// zero-count days would upward-bias the mean and understate variance,
// producing limits too tight for real variation.
//
// StdDev is the sample standard deviation (n-1 denominator). Entities with
// fewer than two baseline days get nil StdDev and nil limits, never zero.
// Output is sorted by entity.
func EstimateBaseline(series []schema.SeriesPoint) []schema.BaselineLimits {
	sums := make(map[schema.EntityKey]float64)
	days := make(map[schema.EntityKey]int)
	for _, p := range series {
		sums[p.Entity] += float64(p.Count)
		days[p.Entity]++
	}

	sqDiffs := make(map[schema.EntityKey]float64, len(sums))
	for _, p := range series {
		mean := sums[p.Entity] / float64(days[p.Entity])
		d := float64(p.Count) - mean
		sqDiffs[p.Entity] += d * d
	}

	out := make([]schema.BaselineLimits, 0, len(sums))
	for entity, n := range days {
		mean := sums[entity] / float64(n)
		limits := schema.BaselineLimits{Entity: entity, DaysUsed: n, Mean: mean}
		if n >= 2 {
			sd := math.Sqrt(sqDiffs[entity] / float64(n-1))
			uwl := mean + 2*sd
			ucl := mean + 3*sd
			limits.StdDev = &sd
			limits.UpperWarningLimit = &uwl
			limits.UpperControlLimit = &ucl
		}
		out = append(out, limits)
	}
	sort.Slice(out, func(i, j int) bool { return lessEntity(out[i].Entity, out[j].Entity) })
	return out
}

// BaselineIndex indexes baseline limits by entity for classification joins.
func BaselineIndex(limits []schema.BaselineLimits) map[schema.EntityKey]schema.BaselineLimits {
	idx := make(map[schema.EntityKey]schema.BaselineLimits, len(limits))
	for _, l := range limits {
		idx[l.Entity] = l
	}
	return idx
}
