package search

import (
	"testing"
)

var testLimits = Limits{DefaultLimit: 20, MaxLimit: 100, DefaultRadiusM: 25000}

func TestTeacherParamsNormalize_Defaults(t *testing.T) {
	p := &TeacherParams{}
	g := p.Normalize(testLimits)

	if p.Page != 1 || p.Limit != 20 {
		t.Errorf("defaults = page %d limit %d, want 1/20", p.Page, p.Limit)
	}
	if g != nil {
		t.Error("no coordinates must mean no spatial bound")
	}
	if p.SortBy != string(SortLatest) {
		t.Errorf("default sort = %q, want latest", p.SortBy)
	}
}

func TestTeacherParamsNormalize_LimitCapAndPageFloor(t *testing.T) {
	p := &TeacherParams{Page: -3, Limit: 5000}
	p.Normalize(testLimits)
	if p.Page != 1 {
		t.Errorf("page = %d, want 1", p.Page)
	}
	if p.Limit != 100 {
		t.Errorf("limit = %d, want capped 100", p.Limit)
	}
}

func TestTeacherParamsNormalize_Origin(t *testing.T) {
	p := &TeacherParams{Latitude: f(28.6), Longitude: f(77.2), MaxDistance: f(10000)}
	g := p.Normalize(testLimits)
	if g == nil {
		t.Fatal("expected spatial bound")
	}
	if g.RadiusM != 10000 {
		t.Errorf("radius = %v, want 10000", g.RadiusM)
	}
	if g.Origin.Latitude != 28.6 || g.Origin.Longitude != 77.2 {
		t.Errorf("origin = %+v", g.Origin)
	}
}

func TestTeacherParamsNormalize_RadiusClampedToDefault(t *testing.T) {
	// Zero and negative radii are treated exactly like an absent
	// maxDistance: the default radius applies.
	for _, radius := range []float64{0, -500} {
		p := &TeacherParams{Latitude: f(28.6), Longitude: f(77.2), MaxDistance: f(radius)}
		g := p.Normalize(testLimits)
		if g == nil {
			t.Fatalf("radius %v: expected spatial bound", radius)
		}
		if g.RadiusM != testLimits.DefaultRadiusM {
			t.Errorf("radius %v clamped to %v, want %v", radius, g.RadiusM, testLimits.DefaultRadiusM)
		}
		if p.MaxDistance == nil || *p.MaxDistance != testLimits.DefaultRadiusM {
			t.Errorf("radius %v: echoed maxDistance = %v", radius, p.MaxDistance)
		}
	}
}

func TestTeacherParamsNormalize_PartialCoordinatesIgnored(t *testing.T) {
	p := &TeacherParams{Latitude: f(28.6)}
	if g := p.Normalize(testLimits); g != nil {
		t.Error("latitude without longitude must not create a spatial bound")
	}
}

func TestTeacherParamsNormalize_InvalidCoordinatesIgnored(t *testing.T) {
	p := &TeacherParams{Latitude: f(99), Longitude: f(77.2)}
	if g := p.Normalize(testLimits); g != nil {
		t.Error("out-of-range latitude must not create a spatial bound")
	}
}

func TestTeacherParamsNormalize_DistanceSortWithoutOriginFallsBack(t *testing.T) {
	p := &TeacherParams{SortBy: "distance"}
	p.Normalize(testLimits)
	if p.SortBy != string(SortLatest) {
		t.Errorf("sortBy = %q, want fallback to latest", p.SortBy)
	}

	p = &TeacherParams{SortBy: "distance", Latitude: f(28.6), Longitude: f(77.2)}
	p.Normalize(testLimits)
	if p.SortBy != string(SortDistance) {
		t.Errorf("sortBy = %q, want distance with origin", p.SortBy)
	}
}

func TestTeacherParamsNormalize_ZeroNumericFiltersDropped(t *testing.T) {
	p := &TeacherParams{MinRating: f(0), MinBudget: f(0), MaxBudget: f(0)}
	p.Normalize(testLimits)
	if p.MinRating != nil || p.MinBudget != nil || p.MaxBudget != nil {
		t.Errorf("zero-valued numeric filters must be dropped: %+v", p)
	}
}

func TestJobParamsNormalize_SortVocabulary(t *testing.T) {
	tests := []struct {
		sortBy string
		want   SortKey
	}{
		{"budget-low", SortBudgetLow},
		{"budget-high", SortBudgetHigh},
		{"urgency", SortUrgency},
		{"price-low", SortLatest}, // teacher vocabulary, invalid for jobs
		{"rating", SortLatest},    // no rating on jobs
		{"", SortLatest},
	}
	for _, tt := range tests {
		p := &JobParams{SortBy: tt.sortBy}
		p.Normalize(testLimits)
		if p.SortBy != string(tt.want) {
			t.Errorf("job sortBy %q = %q, want %q", tt.sortBy, p.SortBy, tt.want)
		}
	}
}
