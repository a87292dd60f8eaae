package search

import (
	"tutormatch/search-service/internal/geo"
)

// Limits carries the request-shaping defaults applied during normalization.
type Limits struct {
	DefaultLimit   int
	MaxLimit       int
	DefaultRadiusM float64
}

// Experience band vocabulary. A band name is translated into a years range
// before it reaches the predicate.
const (
	ExperienceBeginner     = "beginner"     // < 2 years
	ExperienceIntermediate = "intermediate" // [2, 5)
	ExperienceExperienced  = "experienced"  // [5, 10)
	ExperienceExpert       = "expert"       // >= 10
)

// experienceBand returns the inclusive-min / exclusive-max years range for a
// band name. Unknown names constrain nothing.
func experienceBand(name string) (min, max *float64) {
	f := func(v float64) *float64 { return &v }
	switch name {
	case ExperienceBeginner:
		return nil, f(2)
	case ExperienceIntermediate:
		return f(2), f(5)
	case ExperienceExperienced:
		return f(5), f(10)
	case ExperienceExpert:
		return f(10), nil
	default:
		return nil, nil
	}
}

// TeacherParams are the normalized teacher search parameters. The struct is
// also echoed back in the response as searchParams.
type TeacherParams struct {
	Subject        string   `json:"subject,omitempty"`
	ClassLevel     string   `json:"classLevel,omitempty"`
	TeachingMode   string   `json:"teachingMode,omitempty"`
	Experience     string   `json:"experience,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	Languages      []string `json:"languages,omitempty"`
	Qualifications []string `json:"qualifications,omitempty"`
	MinRating      *float64 `json:"minRating,omitempty"`
	MinBudget      *float64 `json:"minBudget,omitempty"`
	MaxBudget      *float64 `json:"maxBudget,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	MaxDistance    *float64 `json:"maxDistance,omitempty"`
	Page           int      `json:"page"`
	Limit          int      `json:"limit"`
	SortBy         string   `json:"sortBy"`

	// Derived from Experience during normalization; not part of the echo.
	MinExperience *float64 `json:"-"`
	MaxExperience *float64 `json:"-"`
}

// JobParams are the normalized job search parameters.
type JobParams struct {
	Subject      string   `json:"subject,omitempty"`
	ClassLevel   string   `json:"classLevel,omitempty"`
	TeachingMode string   `json:"teachingMode,omitempty"`
	Urgency      string   `json:"urgency,omitempty"`
	Experience   string   `json:"experience,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	MinBudget    *float64 `json:"minBudget,omitempty"`
	MaxBudget    *float64 `json:"maxBudget,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	MaxDistance  *float64 `json:"maxDistance,omitempty"`
	Page         int      `json:"page"`
	Limit        int      `json:"limit"`
	SortBy       string   `json:"sortBy"`

	MinExperience *float64 `json:"-"`
	MaxExperience *float64 `json:"-"`
}

// GeoBound is the spatial constraint of a query: results must lie within
// RadiusM meters of Origin, nearest first.
type GeoBound struct {
	Origin  geo.Point
	RadiusM float64
}

// origin returns the spatial bound for a lat/lon/radius triple, or nil when
// coordinates are absent or invalid. A radius <= 0 (or none) is silently
// clamped to the default.
func origin(lat, lon, radius *float64, def float64) *GeoBound {
	if lat == nil || lon == nil {
		return nil
	}
	p := geo.Point{Latitude: *lat, Longitude: *lon}
	if !p.Valid() {
		return nil
	}
	r := def
	if radius != nil && *radius > 0 {
		r = *radius
	}
	return &GeoBound{Origin: p, RadiusM: r}
}

func normalizePage(page, limit int, l Limits) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = l.DefaultLimit
	}
	if limit > l.MaxLimit {
		limit = l.MaxLimit
	}
	return page, limit
}

// Normalize applies defaults and derives the fields the pipeline consumes.
// It returns the spatial bound, if any.
func (p *TeacherParams) Normalize(l Limits) *GeoBound {
	p.Page, p.Limit = normalizePage(p.Page, p.Limit, l)
	p.MinExperience, p.MaxExperience = experienceBand(p.Experience)
	zeroIsAbsent(&p.MinRating)
	zeroIsAbsent(&p.MinBudget)
	zeroIsAbsent(&p.MaxBudget)
	g := origin(p.Latitude, p.Longitude, p.MaxDistance, l.DefaultRadiusM)
	if g != nil {
		p.MaxDistance = &g.RadiusM
	} else {
		p.MaxDistance = nil
	}
	p.SortBy = string(SelectSortKey(EntityTeacher, p.SortBy, g != nil))
	return g
}

// Normalize applies defaults and derives the fields the pipeline consumes.
func (p *JobParams) Normalize(l Limits) *GeoBound {
	p.Page, p.Limit = normalizePage(p.Page, p.Limit, l)
	p.MinExperience, p.MaxExperience = experienceBand(p.Experience)
	zeroIsAbsent(&p.MinBudget)
	zeroIsAbsent(&p.MaxBudget)
	g := origin(p.Latitude, p.Longitude, p.MaxDistance, l.DefaultRadiusM)
	if g != nil {
		p.MaxDistance = &g.RadiusM
	} else {
		p.MaxDistance = nil
	}
	p.SortBy = string(SelectSortKey(EntityJob, p.SortBy, g != nil))
	return g
}

// zeroIsAbsent drops a numeric filter whose value is the literal 0, which
// the query surface treats as "no constraint", never "match nothing".
func zeroIsAbsent(v **float64) {
	if *v != nil && **v == 0 {
		*v = nil
	}
}
