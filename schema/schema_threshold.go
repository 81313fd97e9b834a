package schema

import "time"

// ThresholdRule is one externally supplied, date-effective threshold.
// Department is nil for rules that apply to all departments. EffectiveTo
// is nil for open-ended rules. Amber and Red tiers are optional; when
// absent, the base monthly threshold is the only tier above "within".
type ThresholdRule struct {
	ID                   int        `json:"id"`
	EffectiveFrom        time.Time  `json:"effective_from"`
	EffectiveTo          *time.Time `json:"effective_to"`
	Organism             string     `json:"organism"`
	Department           *string    `json:"department"`
	MonthlyCaseThreshold int        `json:"monthly_case_threshold"`
	AmberThreshold       *int       `json:"amber_threshold"`
	RedThreshold         *int       `json:"red_threshold"`
}

// AppliesTo reports whether the rule's scope covers the given entity and
// whether the period starting at periodStart falls inside the rule's
// effective window. A nil Department matches every department.
func (r *ThresholdRule) AppliesTo(entity EntityKey, periodStart time.Time) bool {
	if r.Organism != entity.Organism {
		return false
	}
	if r.Department != nil && *r.Department != entity.Department {
		return false
	}
	if periodStart.Before(r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && periodStart.After(*r.EffectiveTo) {
		return false
	}
	return true
}

// PeriodAggregate is a coarser-grained observed count per entity, used as
// input to threshold resolution. Period is a display label such as
// "2025-01"; PeriodStart anchors effective-date matching.
type PeriodAggregate struct {
	Period      string    `json:"period"`
	PeriodStart time.Time `json:"period_start"`
	Entity      EntityKey `json:"entity"`
	Count       int       `json:"count"`
}

// ResolvedBreach pairs a period aggregate with the single applicable
// threshold rule (nil when no rule matched) and a severity label.
type ResolvedBreach struct {
	Period      string         `json:"period"`
	PeriodStart time.Time      `json:"period_start"`
	Entity      EntityKey      `json:"entity"`
	Count       int            `json:"count"`
	Rule        *ThresholdRule `json:"rule"`
	Severity    Severity       `json:"severity"`
	Breached    bool           `json:"breached"`
}

// BreachResult holds all resolved breaches for one thresholds run.
type BreachResult struct {
	Breaches []ResolvedBreach `json:"breaches"`
}
