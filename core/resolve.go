package core

import (
	"sort"
	"time"

	"github.com/arosling/casewatch/schema"
)

// ResolveBreaches resolves, for each period aggregate, the single
// applicable threshold rule and classifies its severity. Aggregates with
// no matching rule carry a nil rule and the "no threshold available"
// severity, which is distinct from being within limits.
func ResolveBreaches(rules []schema.ThresholdRule, aggregates []schema.PeriodAggregate) []schema.ResolvedBreach {
	out := make([]schema.ResolvedBreach, 0, len(aggregates))
	for _, agg := range aggregates {
		rule := selectRule(rules, agg.Entity, agg.PeriodStart)
		severity, breached := classifySeverity(rule, agg.Count)
		out = append(out, schema.ResolvedBreach{
			Period:      agg.Period,
			PeriodStart: agg.PeriodStart,
			Entity:      agg.Entity,
			Count:       agg.Count,
			Rule:        rule,
			Severity:    severity,
			Breached:    breached,
		})
	}
	return out
}

// selectRule picks the one applicable rule for an entity and period start,
// or nil when no rule matches. Precedence is declarative: candidates are
// sorted by a composite key and the first one wins.
//
//  1. Department-specific rules outrank department-agnostic ones.
//  2. Among equal specificity, the latest effectiveFrom wins.
//  3. Remaining ties break on the lowest rule ID, so resolution stays
//     deterministic even for duplicate catalog entries.
func selectRule(rules []schema.ThresholdRule, entity schema.EntityKey, periodStart time.Time) *schema.ThresholdRule {
	var candidates []schema.ThresholdRule
	for _, r := range rules {
		if r.AppliesTo(entity, periodStart) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		aSpecific, bSpecific := a.Department != nil, b.Department != nil
		if aSpecific != bSpecific {
			return aSpecific
		}
		if !a.EffectiveFrom.Equal(b.EffectiveFrom) {
			return a.EffectiveFrom.After(b.EffectiveFrom)
		}
		return a.ID < b.ID
	})

	selected := candidates[0]
	return &selected
}

// classifySeverity grades an observed count against the selected rule's
// tiers. All thresholds are inclusive. When a rule defines no red tier,
// the base monthly threshold acts as the top tier; when it defines neither
// amber nor red, "Breach" is the only severity above "Within limits".
//
// The binary breach flag keys off the effective top tier: the red
// threshold when present, otherwise the base threshold.
func classifySeverity(rule *schema.ThresholdRule, count int) (schema.Severity, bool) {
	if rule == nil {
		return schema.NoThresholdSeverity, false
	}

	breached := count >= rule.MonthlyCaseThreshold
	if rule.RedThreshold != nil {
		breached = count >= *rule.RedThreshold
	}

	switch {
	case rule.RedThreshold != nil && count >= *rule.RedThreshold:
		return schema.RedSeverity, breached
	case rule.RedThreshold == nil && rule.AmberThreshold != nil && count >= rule.MonthlyCaseThreshold:
		return schema.RedSeverity, breached
	case rule.AmberThreshold != nil && count >= *rule.AmberThreshold:
		return schema.AmberSeverity, breached
	case count >= rule.MonthlyCaseThreshold:
		return schema.BreachSeverity, breached
	default:
		return schema.WithinSeverity, breached
	}
}
