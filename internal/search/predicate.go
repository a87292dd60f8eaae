package search

import (
	"fmt"
	"time"
)

// EntityType selects which searchable collection a predicate applies to.
type EntityType string

const (
	EntityTeacher EntityType = "teacher"
	EntityJob     EntityType = "job"
)

// ConditionKind discriminates the supported condition shapes.
type ConditionKind int

const (
	// KindEquals matches a scalar field exactly.
	KindEquals ConditionKind = iota
	// KindRange matches a numeric or time field within inclusive bounds;
	// either bound may be nil to leave that side open.
	KindRange
	// KindSetMembership matches when the entity value is one of the requested
	// values, or when an array-valued field overlaps the requested set.
	KindSetMembership
	// KindSubstring matches a case-insensitive substring; for array-valued
	// fields, any element may match.
	KindSubstring
)

// Condition is a single field constraint. Which payload fields are meaningful
// depends on Kind.
type Condition struct {
	Field  string
	Kind   ConditionKind
	Value  any      // KindEquals
	Min    any      // KindRange lower bound, nil = open
	Max    any      // KindRange upper bound, nil = open
	Values []string // KindSetMembership
	Text   string   // KindSubstring

	// MaxExclusive makes the upper bound of a KindRange condition strict,
	// for half-open intervals like [2, 5).
	MaxExclusive bool
}

// Predicate is a conjunction of conditions over one entity type. An empty
// condition list matches everything except what the always-on lifecycle
// constraints exclude.
type Predicate struct {
	Entity     EntityType
	Conditions []Condition
}

// FieldSpec declares a filterable column and the condition kinds it accepts.
type FieldSpec struct {
	Column string
	Array  bool
	Kinds  []ConditionKind
}

func (s FieldSpec) allows(k ConditionKind) bool {
	for _, allowed := range s.Kinds {
		if allowed == k {
			return true
		}
	}
	return false
}

var teacherFields = map[string]FieldSpec{
	"subject":          {Column: "subjects", Array: true, Kinds: []ConditionKind{KindSubstring}},
	"class_levels":     {Column: "class_levels", Array: true, Kinds: []ConditionKind{KindSetMembership}},
	"teaching_modes":   {Column: "teaching_modes", Array: true, Kinds: []ConditionKind{KindSetMembership}},
	"experience_years": {Column: "experience_years", Kinds: []ConditionKind{KindRange}},
	"avg_rating":       {Column: "avg_rating", Kinds: []ConditionKind{KindRange}},
	"hourly_rate":      {Column: "hourly_rate", Kinds: []ConditionKind{KindRange}},
	"gender":           {Column: "gender", Kinds: []ConditionKind{KindEquals}},
	"languages":        {Column: "languages", Array: true, Kinds: []ConditionKind{KindSetMembership}},
	"qualifications":   {Column: "qualifications", Array: true, Kinds: []ConditionKind{KindSetMembership}},
	"city":             {Column: "city", Kinds: []ConditionKind{KindSubstring}},
	"is_active":        {Column: "is_active", Kinds: []ConditionKind{KindEquals}},
	"is_verified":      {Column: "is_verified", Kinds: []ConditionKind{KindEquals}},
}

var jobFields = map[string]FieldSpec{
	"subject":                   {Column: "subject", Kinds: []ConditionKind{KindSubstring}},
	"class_level":               {Column: "class_level", Kinds: []ConditionKind{KindSetMembership, KindEquals}},
	"teaching_mode":             {Column: "teaching_mode", Kinds: []ConditionKind{KindSetMembership, KindEquals}},
	"urgency":                   {Column: "urgency", Kinds: []ConditionKind{KindEquals}},
	"budget_amount":             {Column: "budget_amount", Kinds: []ConditionKind{KindRange}},
	"required_experience_years": {Column: "required_experience_years", Kinds: []ConditionKind{KindRange}},
	"required_gender":           {Column: "required_gender", Kinds: []ConditionKind{KindEquals}},
	"city":                      {Column: "city", Kinds: []ConditionKind{KindSubstring}},
	"status":                    {Column: "status", Kinds: []ConditionKind{KindEquals}},
	"expires_at":                {Column: "expires_at", Kinds: []ConditionKind{KindRange}},
}

// FieldSchema returns the filterable field schema for an entity type.
func FieldSchema(e EntityType) map[string]FieldSpec {
	if e == EntityJob {
		return jobFields
	}
	return teacherFields
}

// PredicateBuilder accumulates validated conditions. Adding an unknown field
// or a kind the field does not accept records an error returned by Build;
// adding an empty value is a no-op so that absent filters stay neutral.
type PredicateBuilder struct {
	pred   Predicate
	schema map[string]FieldSpec
	err    error
}

// NewPredicate returns a builder for the given entity type.
func NewPredicate(e EntityType) *PredicateBuilder {
	return &PredicateBuilder{
		pred:   Predicate{Entity: e},
		schema: FieldSchema(e),
	}
}

func (b *PredicateBuilder) check(field string, kind ConditionKind) bool {
	if b.err != nil {
		return false
	}
	spec, ok := b.schema[field]
	if !ok {
		b.err = fmt.Errorf("predicate: unknown field %q for entity %s", field, b.pred.Entity)
		return false
	}
	if !spec.allows(kind) {
		b.err = fmt.Errorf("predicate: field %q does not accept condition kind %d", field, kind)
		return false
	}
	return true
}

// Equals adds an exact-match condition.
func (b *PredicateBuilder) Equals(field string, v any) *PredicateBuilder {
	if s, ok := v.(string); ok && s == "" {
		return b
	}
	if !b.check(field, KindEquals) {
		return b
	}
	b.pred.Conditions = append(b.pred.Conditions, Condition{Field: field, Kind: KindEquals, Value: v})
	return b
}

// Range adds an inclusive range condition; nil bounds are open. Supplying
// only a minimum must not implicitly bound the maximum, and vice versa.
func (b *PredicateBuilder) Range(field string, min, max *float64) *PredicateBuilder {
	if min == nil && max == nil {
		return b
	}
	if !b.check(field, KindRange) {
		return b
	}
	c := Condition{Field: field, Kind: KindRange}
	if min != nil {
		c.Min = *min
	}
	if max != nil {
		c.Max = *max
	}
	b.pred.Conditions = append(b.pred.Conditions, c)
	return b
}

// HalfOpenRange adds a range condition with an inclusive minimum and an
// exclusive maximum; nil bounds are open.
func (b *PredicateBuilder) HalfOpenRange(field string, min, max *float64) *PredicateBuilder {
	if min == nil && max == nil {
		return b
	}
	if !b.check(field, KindRange) {
		return b
	}
	c := Condition{Field: field, Kind: KindRange, MaxExclusive: max != nil}
	if min != nil {
		c.Min = *min
	}
	if max != nil {
		c.Max = *max
	}
	b.pred.Conditions = append(b.pred.Conditions, c)
	return b
}

// TimeMin adds a lower-bounded time range condition.
func (b *PredicateBuilder) TimeMin(field string, min time.Time) *PredicateBuilder {
	if !b.check(field, KindRange) {
		return b
	}
	b.pred.Conditions = append(b.pred.Conditions, Condition{Field: field, Kind: KindRange, Min: min})
	return b
}

// In adds a set-membership condition. Empty values are dropped; an entirely
// empty set is a no-op.
func (b *PredicateBuilder) In(field string, values []string) *PredicateBuilder {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return b
	}
	if !b.check(field, KindSetMembership) {
		return b
	}
	b.pred.Conditions = append(b.pred.Conditions, Condition{Field: field, Kind: KindSetMembership, Values: kept})
	return b
}

// Contains adds a case-insensitive substring condition.
func (b *PredicateBuilder) Contains(field, text string) *PredicateBuilder {
	if text == "" {
		return b
	}
	if !b.check(field, KindSubstring) {
		return b
	}
	b.pred.Conditions = append(b.pred.Conditions, Condition{Field: field, Kind: KindSubstring, Text: text})
	return b
}

// Build returns the accumulated predicate, or the first validation error.
func (b *PredicateBuilder) Build() (Predicate, error) {
	if b.err != nil {
		return Predicate{}, b.err
	}
	return b.pred, nil
}

// TeachingModeBoth is the UI vocabulary value meaning "either mode". The
// stored data never contains it, so as a filter it is skipped entirely
// rather than matched.
const TeachingModeBoth = "both"

// BuildTeacherPredicate translates normalized teacher filters into a
// predicate. Active and verified are always constrained.
func BuildTeacherPredicate(p *TeacherParams) (Predicate, error) {
	b := NewPredicate(EntityTeacher).
		Equals("is_active", true).
		Equals("is_verified", true).
		Contains("subject", p.Subject).
		Equals("gender", p.Gender).
		In("languages", p.Languages).
		In("qualifications", p.Qualifications).
		Range("avg_rating", p.MinRating, nil).
		Range("hourly_rate", p.MinBudget, p.MaxBudget).
		HalfOpenRange("experience_years", p.MinExperience, p.MaxExperience)
	if p.ClassLevel != "" {
		b.In("class_levels", []string{p.ClassLevel})
	}
	if p.TeachingMode != "" && p.TeachingMode != TeachingModeBoth {
		b.In("teaching_modes", []string{p.TeachingMode})
	}
	return b.Build()
}

// BuildJobPredicate translates normalized job filters into a predicate.
// Status and expiry are always constrained.
func BuildJobPredicate(p *JobParams, now time.Time) (Predicate, error) {
	b := NewPredicate(EntityJob).
		Equals("status", "active").
		TimeMin("expires_at", now).
		Contains("subject", p.Subject).
		Equals("class_level", p.ClassLevel).
		Equals("urgency", p.Urgency).
		Equals("required_gender", p.Gender).
		Range("budget_amount", p.MinBudget, p.MaxBudget).
		HalfOpenRange("required_experience_years", p.MinExperience, p.MaxExperience)
	if p.TeachingMode != "" && p.TeachingMode != TeachingModeBoth {
		b.Equals("teaching_mode", p.TeachingMode)
	}
	return b.Build()
}
