package core

import (
	"sort"
	"time"

	"github.com/arosling/casewatch/schema"
)

// dayEntity is the composite lookup key for one series cell.
type dayEntity struct {
	date   time.Time
	entity schema.EntityKey
}

// AggregateDaily groups raw events into one observation per (day, entity).
// Entity fields are normalized so unresolved dimension values become
// "unknown" series rather than disappearing. Output is sorted by date,
// then entity, for stable downstream ordering.
func AggregateDaily(events []schema.EventRecord) []schema.DailyObservation {
	counts := make(map[dayEntity]int, len(events))
	for _, ev := range events {
		key := dayEntity{date: DayOf(ev.Date), entity: ev.Entity.Normalize()}
		counts[key]++
	}

	out := make([]schema.DailyObservation, 0, len(counts))
	for key, n := range counts {
		out = append(out, schema.DailyObservation{Date: key.date, Entity: key.entity, Count: n})
	}
	sortObservations(out)
	return out
}

// AggregateMonthly groups raw events into one aggregate per (month, entity).
// The period label is YYYY-MM and the period start anchors effective-date
// matching during threshold resolution.
func AggregateMonthly(events []schema.EventRecord) []schema.PeriodAggregate {
	type monthEntity struct {
		start  time.Time
		entity schema.EntityKey
	}
	counts := make(map[monthEntity]int)
	for _, ev := range events {
		day := DayOf(ev.Date)
		key := monthEntity{
			start:  time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC),
			entity: ev.Entity.Normalize(),
		}
		counts[key]++
	}

	out := make([]schema.PeriodAggregate, 0, len(counts))
	for key, n := range counts {
		out = append(out, schema.PeriodAggregate{
			Period:      key.start.Format("2006-01"),
			PeriodStart: key.start,
			Entity:      key.entity,
			Count:       n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PeriodStart.Equal(out[j].PeriodStart) {
			return out[i].PeriodStart.Before(out[j].PeriodStart)
		}
		return lessEntity(out[i].Entity, out[j].Entity)
	})
	return out
}

// DistinctEntities returns the sorted set of entity keys present in the
// given observations. The set spans whatever periods the caller passes in,
// so entities active in only one period still get zero-filled rows in the
// other.
func DistinctEntities(observations []schema.DailyObservation) []schema.EntityKey {
	seen := make(map[schema.EntityKey]struct{}, len(observations))
	for _, o := range observations {
		seen[o.Entity] = struct{}{}
	}
	out := make([]schema.EntityKey, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return lessEntity(out[i], out[j]) })
	return out
}

// FilterObservations returns only the observations whose date falls within
// [start, end] inclusive.
func FilterObservations(observations []schema.DailyObservation, start, end time.Time) []schema.DailyObservation {
	start, end = DayOf(start), DayOf(end)
	out := make([]schema.DailyObservation, 0, len(observations))
	for _, o := range observations {
		day := DayOf(o.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func lessEntity(a, b schema.EntityKey) bool {
	if a.Site != b.Site {
		return a.Site < b.Site
	}
	if a.Department != b.Department {
		return a.Department < b.Department
	}
	return a.Organism < b.Organism
}

func sortObservations(obs []schema.DailyObservation) {
	sort.Slice(obs, func(i, j int) bool {
		if !obs[i].Date.Equal(obs[j].Date) {
			return obs[i].Date.Before(obs[j].Date)
		}
		return lessEntity(obs[i].Entity, obs[j].Entity)
	})
}
