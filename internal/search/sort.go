package search

// SortKey is a validated ordering for a candidate set.
type SortKey string

const (
	SortDistance   SortKey = "distance"
	SortRating     SortKey = "rating"
	SortExperience SortKey = "experience"
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortBudgetLow  SortKey = "budget-low"
	SortBudgetHigh SortKey = "budget-high"
	SortUrgency    SortKey = "urgency"
	SortLatest     SortKey = "latest"
)

// The two entity types historically use different price-sort vocabularies
// (price-low/price-high for teachers, budget-low/budget-high for jobs); the
// asymmetry is part of the query surface and is kept.
var teacherSortKeys = map[SortKey]bool{
	SortDistance:   true,
	SortRating:     true,
	SortExperience: true,
	SortPriceLow:   true,
	SortPriceHigh:  true,
	SortLatest:     true,
}

var jobSortKeys = map[SortKey]bool{
	SortDistance:   true,
	SortBudgetLow:  true,
	SortBudgetHigh: true,
	SortUrgency:    true,
	SortLatest:     true,
}

// SelectSortKey validates a requested sort key against the entity's
// vocabulary. Unknown or empty keys fall back to recency. Distance sort
// without an origin also falls back to recency rather than erroring.
func SelectSortKey(entity EntityType, requested string, hasOrigin bool) SortKey {
	key := SortKey(requested)
	allowed := teacherSortKeys
	if entity == EntityJob {
		allowed = jobSortKeys
	}
	if !allowed[key] {
		return SortLatest
	}
	if key == SortDistance && !hasOrigin {
		return SortLatest
	}
	return key
}

// UrgencyRank maps a job urgency tier to its sort priority; lower sorts
// first. Unknown tiers rank last.
func UrgencyRank(urgency string) int {
	switch urgency {
	case "immediate":
		return 1
	case "within-week":
		return 2
	case "within-month":
		return 3
	case "flexible":
		return 4
	default:
		return 5
	}
}

// UrgencyLevels lists the known urgency tiers in rank order, for building
// the SQL ordering expression.
var UrgencyLevels = []string{"immediate", "within-week", "within-month", "flexible"}
