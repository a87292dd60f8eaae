package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tutormatch/search-service/internal/model"
)

// Query is one executable page query: a predicate, an optional spatial
// bound, a validated sort key and the page slice.
type Query struct {
	Predicate Predicate
	Geo       *GeoBound
	Sort      SortKey
	Limit     int
	Offset    int
}

// Store is the persistence contract the pipeline runs against. The page and
// count calls are deliberately separate: the total must reflect the full
// matching set, and results may shift between the two calls under concurrent
// writes; that window is accepted.
type Store interface {
	SearchTeachers(ctx context.Context, q *Query) ([]model.TeacherResult, error)
	CountTeachers(ctx context.Context, p Predicate, g *GeoBound) (int, error)
	SearchJobs(ctx context.Context, q *Query) ([]model.JobResult, error)
	CountJobs(ctx context.Context, p Predicate, g *GeoBound) (int, error)
	TeacherLocations(ctx context.Context, text string) ([]model.LocationGroup, error)
	JobLocations(ctx context.Context, text string) ([]model.LocationGroup, error)
	LogSearch(ctx context.Context, entry *model.SearchLog) error
}

// Config holds the request-shaping knobs of the search pipeline.
type Config struct {
	DefaultLimit   int
	MaxLimit       int
	DefaultRadiusM float64
	NearbyCap      int
	RequestTimeout time.Duration
}

// Service runs the search pipeline: predicate → spatial page query ∥ count →
// pagination → distance buckets. Stateless; safe for concurrent use.
type Service struct {
	store  Store
	cfg    Config
	logger *zap.Logger
}

// NewService creates a search service.
func NewService(store Store, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cfg: cfg, logger: logger}
}

func (s *Service) limits() Limits {
	return Limits{
		DefaultLimit:   s.cfg.DefaultLimit,
		MaxLimit:       s.cfg.MaxLimit,
		DefaultRadiusM: s.cfg.DefaultRadiusM,
	}
}

func (s *Service) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.RequestTimeout)
}

// fetchPage runs the page query and the independent count concurrently.
type countResult struct {
	n   int
	err error
}

func fetchPage[R any](
	ctx context.Context,
	fetch func(context.Context) ([]R, error),
	count func(context.Context) (int, error),
) ([]R, int, error) {
	ch := make(chan countResult, 1)
	go func() {
		n, err := count(ctx)
		ch <- countResult{n: n, err: err}
	}()

	items, err := fetch(ctx)
	cr := <-ch
	if err != nil {
		return nil, 0, err
	}
	if cr.err != nil {
		return nil, 0, cr.err
	}
	return items, cr.n, nil
}

// PaginationMeta computes the page metadata; pages is zero when nothing
// matched.
func PaginationMeta(page, limit, total int) model.Pagination {
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return model.Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// SearchTeachers runs a teacher search.
func (s *Service) SearchTeachers(ctx context.Context, p *TeacherParams) (*model.TeacherSearchData, error) {
	started := time.Now()
	ctx, cancel := s.requestCtx(ctx)
	defer cancel()

	g := p.Normalize(s.limits())
	pred, err := BuildTeacherPredicate(p)
	if err != nil {
		return nil, classify("teacher predicate", err)
	}

	q := &Query{
		Predicate: pred,
		Geo:       g,
		Sort:      SortKey(p.SortBy),
		Limit:     p.Limit,
		Offset:    (p.Page - 1) * p.Limit,
	}

	teachers, total, err := fetchPage(ctx,
		func(ctx context.Context) ([]model.TeacherResult, error) { return s.store.SearchTeachers(ctx, q) },
		func(ctx context.Context) (int, error) { return s.store.CountTeachers(ctx, pred, g) },
	)
	if err != nil {
		return nil, classify("teacher search", err)
	}
	if teachers == nil {
		teachers = []model.TeacherResult{}
	}

	s.logSearch(string(EntityTeacher), p, len(teachers), total, time.Since(started))

	return &model.TeacherSearchData{
		Teachers:        teachers,
		Pagination:      PaginationMeta(p.Page, p.Limit, total),
		DistanceBuckets: BucketDistances(teachers, g != nil),
		SearchParams:    p,
	}, nil
}

// SearchJobs runs a job search. Expiry is evaluated against the clock at
// predicate-build time.
func (s *Service) SearchJobs(ctx context.Context, p *JobParams) (*model.JobSearchData, error) {
	started := time.Now()
	ctx, cancel := s.requestCtx(ctx)
	defer cancel()

	g := p.Normalize(s.limits())
	pred, err := BuildJobPredicate(p, time.Now())
	if err != nil {
		return nil, classify("job predicate", err)
	}

	q := &Query{
		Predicate: pred,
		Geo:       g,
		Sort:      SortKey(p.SortBy),
		Limit:     p.Limit,
		Offset:    (p.Page - 1) * p.Limit,
	}

	jobs, total, err := fetchPage(ctx,
		func(ctx context.Context) ([]model.JobResult, error) { return s.store.SearchJobs(ctx, q) },
		func(ctx context.Context) (int, error) { return s.store.CountJobs(ctx, pred, g) },
	)
	if err != nil {
		return nil, classify("job search", err)
	}
	if jobs == nil {
		jobs = []model.JobResult{}
	}

	s.logSearch(string(EntityJob), p, len(jobs), total, time.Since(started))

	return &model.JobSearchData{
		Jobs:            jobs,
		Pagination:      PaginationMeta(p.Page, p.Limit, total),
		DistanceBuckets: BucketDistances(jobs, g != nil),
		SearchParams:    p,
	}, nil
}

// NearbyParams are the raw parameters of a nearby scan.
type NearbyParams struct {
	Latitude    *float64
	Longitude   *float64
	MaxDistance *float64
	Type        string
}

// Nearby scans for the closest entities around a required origin and groups
// them into the fixed distance bands. The raw scan is hard-capped so a dense
// area cannot fan out unboundedly.
func (s *Service) Nearby(ctx context.Context, p *NearbyParams) (*model.NearbyData, error) {
	if p.Latitude == nil || p.Longitude == nil {
		return nil, &ValidationError{Field: "coordinates", Message: "latitude and longitude are required"}
	}
	g := origin(p.Latitude, p.Longitude, p.MaxDistance, s.cfg.DefaultRadiusM)
	if g == nil {
		return nil, &ValidationError{Field: "coordinates", Message: "latitude and longitude out of range"}
	}

	typ := p.Type
	if typ == "" {
		typ = "teachers"
	}
	if typ != "teachers" && typ != "jobs" {
		return nil, &ValidationError{Field: "type", Message: "must be teachers or jobs"}
	}

	ctx, cancel := s.requestCtx(ctx)
	defer cancel()

	bands := Bands()
	out := &model.NearbyData{
		Type:        typ,
		Origin:      g.Origin,
		MaxDistance: g.RadiusM,
		Buckets:     make([]model.NearbyBucket, len(bands)),
	}

	if typ == "teachers" {
		pred, err := NewPredicate(EntityTeacher).
			Equals("is_active", true).
			Equals("is_verified", true).
			Build()
		if err != nil {
			return nil, classify("nearby predicate", err)
		}
		q := &Query{Predicate: pred, Geo: g, Sort: SortDistance, Limit: s.cfg.NearbyCap}
		teachers, err := s.store.SearchTeachers(ctx, q)
		if err != nil {
			return nil, classify("nearby teachers", err)
		}
		out.Total = len(teachers)
		for i, group := range GroupByBand(teachers) {
			out.Buckets[i] = model.NearbyBucket{
				Label: bands[i].Label, MinM: bands[i].MinM, MaxM: bands[i].MaxM,
				Count: len(group), Items: group,
			}
		}
		return out, nil
	}

	pred, err := NewPredicate(EntityJob).
		Equals("status", "active").
		TimeMin("expires_at", time.Now()).
		Build()
	if err != nil {
		return nil, classify("nearby predicate", err)
	}
	q := &Query{Predicate: pred, Geo: g, Sort: SortDistance, Limit: s.cfg.NearbyCap}
	jobs, err := s.store.SearchJobs(ctx, q)
	if err != nil {
		return nil, classify("nearby jobs", err)
	}
	out.Total = len(jobs)
	for i, group := range GroupByBand(jobs) {
		out.Buckets[i] = model.NearbyBucket{
			Label: bands[i].Label, MinM: bands[i].MinM, MaxM: bands[i].MaxM,
			Count: len(group), Items: group,
		}
	}
	return out, nil
}

// logSearch records the executed search asynchronously, exactly as a
// fire-and-forget: a logging failure never affects the response.
func (s *Service) logSearch(entity string, params any, resultCount, total int, took time.Duration) {
	raw, err := json.Marshal(params)
	if err != nil {
		s.logger.Warn("search log marshal failed", zap.Error(err))
		return
	}
	entry := &model.SearchLog{
		ID:          uuid.NewString(),
		Entity:      entity,
		Params:      raw,
		ResultCount: resultCount,
		Total:       total,
		TookMs:      took.Milliseconds(),
		CreatedAt:   time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.LogSearch(ctx, entry); err != nil {
			s.logger.Warn("search log write failed", zap.String("entity", entity), zap.Error(err))
		}
	}()
}
