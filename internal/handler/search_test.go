package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutormatch/search-service/internal/model"
	"tutormatch/search-service/internal/search"
)

// stubService records the parameters the handler passed down and returns
// canned payloads.
type stubService struct {
	teacherParams *search.TeacherParams
	jobParams     *search.JobParams
	nearbyParams  *search.NearbyParams
	locationQuery string

	nearbyErr error
}

func (s *stubService) SearchTeachers(_ context.Context, p *search.TeacherParams) (*model.TeacherSearchData, error) {
	s.teacherParams = p
	return &model.TeacherSearchData{
		Teachers:        []model.TeacherResult{},
		Pagination:      search.PaginationMeta(1, 20, 0),
		DistanceBuckets: []model.DistanceBucket{},
		SearchParams:    p,
	}, nil
}

func (s *stubService) SearchJobs(_ context.Context, p *search.JobParams) (*model.JobSearchData, error) {
	s.jobParams = p
	return &model.JobSearchData{
		Jobs:            []model.JobResult{},
		Pagination:      search.PaginationMeta(1, 20, 0),
		DistanceBuckets: []model.DistanceBucket{},
		SearchParams:    p,
	}, nil
}

func (s *stubService) Nearby(_ context.Context, p *search.NearbyParams) (*model.NearbyData, error) {
	s.nearbyParams = p
	if s.nearbyErr != nil {
		return nil, s.nearbyErr
	}
	return &model.NearbyData{Type: "teachers", Buckets: []model.NearbyBucket{}}, nil
}

func (s *stubService) SuggestLocations(_ context.Context, query string) ([]model.LocationSuggestion, error) {
	s.locationQuery = query
	return []model.LocationSuggestion{}, nil
}

func newTestRouter(svc SearchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewSearchHandler(svc, nil, false).Register(r)
	return r
}

func get(t *testing.T, r *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)
	return w
}

func TestSearchTeachers_ResponseEnvelope(t *testing.T) {
	r := newTestRouter(&stubService{})
	w := get(t, r, "/search/teachers?subject=math")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Teachers        []json.RawMessage `json:"teachers"`
			Pagination      model.Pagination  `json:"pagination"`
			DistanceBuckets []json.RawMessage `json:"distanceBuckets"`
			SearchParams    json.RawMessage   `json:"searchParams"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotNil(t, body.Data.Teachers)
	assert.Equal(t, 1, body.Data.Pagination.Page)
}

func TestSearchTeachers_ParamParsing(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)
	get(t, r, "/search/teachers?subject=math&minRating=4.5&latitude=28.6&longitude=77.2&page=2&limit=10&languages[]=hindi&languages[]=english")

	require.NotNil(t, svc.teacherParams)
	p := svc.teacherParams
	assert.Equal(t, "math", p.Subject)
	require.NotNil(t, p.MinRating)
	assert.Equal(t, 4.5, *p.MinRating)
	require.NotNil(t, p.Latitude)
	assert.Equal(t, 28.6, *p.Latitude)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, []string{"hindi", "english"}, p.Languages)
}

func TestSearchTeachers_MalformedNumbersAreLenient(t *testing.T) {
	// Unparseable numeric filters are treated as absent, not as errors.
	svc := &stubService{}
	r := newTestRouter(svc)
	w := get(t, r, "/search/teachers?minRating=lots&minBudget=cheap&page=first&latitude=here")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.teacherParams)
	assert.Nil(t, svc.teacherParams.MinRating)
	assert.Nil(t, svc.teacherParams.MinBudget)
	assert.Nil(t, svc.teacherParams.Latitude)
	assert.Equal(t, 0, svc.teacherParams.Page)
}

func TestSearchTeachers_CommaSeparatedArrays(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)
	get(t, r, "/search/teachers?qualifications=btech,med")

	require.NotNil(t, svc.teacherParams)
	assert.Equal(t, []string{"btech", "med"}, svc.teacherParams.Qualifications)
}

func TestSearchJobs_ParamParsing(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)
	w := get(t, r, "/search/jobs?urgency=immediate&sortBy=budget-low&maxBudget=900")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.jobParams)
	assert.Equal(t, "immediate", svc.jobParams.Urgency)
	assert.Equal(t, "budget-low", svc.jobParams.SortBy)
	require.NotNil(t, svc.jobParams.MaxBudget)
	assert.Equal(t, 900.0, *svc.jobParams.MaxBudget)
}

func TestNearby_MissingCoordinatesIs400(t *testing.T) {
	svc := &stubService{
		nearbyErr: &search.ValidationError{Field: "coordinates", Message: "latitude and longitude are required"},
	}
	r := newTestRouter(svc)
	w := get(t, r, "/search/nearby")

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "latitude and longitude")
}

func TestNearby_UpstreamErrorIsGeneric500(t *testing.T) {
	svc := &stubService{
		nearbyErr: &search.UpstreamQueryError{Op: "nearby teachers", Err: assert.AnError},
	}
	r := newTestRouter(svc)
	w := get(t, r, "/search/nearby?latitude=28.6&longitude=77.2")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestNearby_TimeoutIs504(t *testing.T) {
	svc := &stubService{nearbyErr: &search.TimeoutError{Op: "nearby teachers"}}
	r := newTestRouter(svc)
	w := get(t, r, "/search/nearby?latitude=28.6&longitude=77.2")
	require.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestLocations_NoEnvelope(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)
	w := get(t, r, "/search/locations?query=Delh")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Delh", svc.locationQuery)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "suggestions")
	assert.NotContains(t, body, "success")
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(1, 1))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := get(t, r, "/ping")
	require.Equal(t, http.StatusOK, first.Code)

	// Burst of one: the immediate second request is rejected.
	second := get(t, r, "/ping")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
}
