package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutormatch/search-service/internal/model"
	"tutormatch/search-service/internal/search"
)

// SearchService is the slice of the search pipeline the HTTP layer consumes.
type SearchService interface {
	SearchTeachers(ctx context.Context, p *search.TeacherParams) (*model.TeacherSearchData, error)
	SearchJobs(ctx context.Context, p *search.JobParams) (*model.JobSearchData, error)
	Nearby(ctx context.Context, p *search.NearbyParams) (*model.NearbyData, error)
	SuggestLocations(ctx context.Context, query string) ([]model.LocationSuggestion, error)
}

// SearchHandler handles the search HTTP surface.
type SearchHandler struct {
	svc    SearchService
	logger *zap.Logger
	debug  bool
}

// NewSearchHandler creates a search handler. With debug set, 500 responses
// include the underlying error detail; in production they stay generic.
func NewSearchHandler(svc SearchService, logger *zap.Logger, debug bool) *SearchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchHandler{svc: svc, logger: logger, debug: debug}
}

// Register mounts the search routes.
func (h *SearchHandler) Register(r gin.IRouter) {
	r.GET("/search/teachers", h.SearchTeachers)
	r.GET("/search/jobs", h.SearchJobs)
	r.GET("/search/nearby", h.Nearby)
	r.GET("/search/locations", h.Locations)
}

// SearchTeachers handles GET /search/teachers.
func (h *SearchHandler) SearchTeachers(c *gin.Context) {
	p := &search.TeacherParams{
		Subject:        strings.TrimSpace(c.Query("subject")),
		ClassLevel:     strings.TrimSpace(c.Query("classLevel")),
		TeachingMode:   strings.TrimSpace(c.Query("teachingMode")),
		Experience:     strings.TrimSpace(c.Query("experience")),
		Gender:         strings.TrimSpace(c.Query("gender")),
		Languages:      queryStrings(c, "languages"),
		Qualifications: queryStrings(c, "qualifications"),
		MinRating:      queryFloat(c, "minRating"),
		MinBudget:      queryFloat(c, "minBudget"),
		MaxBudget:      queryFloat(c, "maxBudget"),
		Latitude:       queryFloat(c, "latitude"),
		Longitude:      queryFloat(c, "longitude"),
		MaxDistance:    queryFloat(c, "maxDistance"),
		Page:           queryInt(c, "page", 0),
		Limit:          queryInt(c, "limit", 0),
		SortBy:         strings.TrimSpace(c.Query("sortBy")),
	}

	data, err := h.svc.SearchTeachers(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// SearchJobs handles GET /search/jobs.
func (h *SearchHandler) SearchJobs(c *gin.Context) {
	p := &search.JobParams{
		Subject:      strings.TrimSpace(c.Query("subject")),
		ClassLevel:   strings.TrimSpace(c.Query("classLevel")),
		TeachingMode: strings.TrimSpace(c.Query("teachingMode")),
		Urgency:      strings.TrimSpace(c.Query("urgency")),
		Experience:   strings.TrimSpace(c.Query("experience")),
		Gender:       strings.TrimSpace(c.Query("gender")),
		MinBudget:    queryFloat(c, "minBudget"),
		MaxBudget:    queryFloat(c, "maxBudget"),
		Latitude:     queryFloat(c, "latitude"),
		Longitude:    queryFloat(c, "longitude"),
		MaxDistance:  queryFloat(c, "maxDistance"),
		Page:         queryInt(c, "page", 0),
		Limit:        queryInt(c, "limit", 0),
		SortBy:       strings.TrimSpace(c.Query("sortBy")),
	}

	data, err := h.svc.SearchJobs(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Nearby handles GET /search/nearby.
func (h *SearchHandler) Nearby(c *gin.Context) {
	p := &search.NearbyParams{
		Latitude:    queryFloat(c, "latitude"),
		Longitude:   queryFloat(c, "longitude"),
		MaxDistance: queryFloat(c, "maxDistance"),
		Type:        strings.TrimSpace(c.Query("type")),
	}

	data, err := h.svc.Nearby(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Locations handles GET /search/locations. The response has no success/data
// envelope; the suggestion list is the historical surface of this endpoint.
func (h *SearchHandler) Locations(c *gin.Context) {
	suggestions, err := h.svc.SuggestLocations(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (h *SearchHandler) respondError(c *gin.Context, err error) {
	var verr *search.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Error()})
		return
	}

	var terr *search.TimeoutError
	if errors.As(err, &terr) {
		h.logger.Warn("search timed out", zap.String("path", c.FullPath()))
		c.JSON(http.StatusGatewayTimeout, gin.H{"success": false, "error": "search timed out"})
		return
	}

	h.logger.Error("search failed", zap.String("path", c.FullPath()), zap.Error(err))
	msg := "internal server error"
	if h.debug {
		msg = err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg})
}

// queryFloat reads a numeric query parameter. Absent or unparseable values
// are treated as absent, never as an error: leniency here is policy.
func queryFloat(c *gin.Context, name string) *float64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// queryInt reads an integer query parameter with the same leniency.
func queryInt(c *gin.Context, name string, def int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// queryStrings reads a repeatable parameter in either its bracketed array
// form (languages[]=a&languages[]=b) or as a comma-separated scalar.
func queryStrings(c *gin.Context, name string) []string {
	values := c.QueryArray(name + "[]")
	if len(values) == 0 {
		values = c.QueryArray(name)
	}
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
