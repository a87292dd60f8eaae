package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"tutormatch/search-service/internal/geo"
	"tutormatch/search-service/internal/model"
)

const (
	minSuggestionQueryLen = 2
	maxSuggestions        = 8
)

// SuggestLocations serves location typeahead: a case-insensitive substring
// scan over city/state across both collections, grouped by (city, state),
// merged by summed count, top 8. Queries shorter than two characters return
// an empty list, not an error.
func (s *Service) SuggestLocations(ctx context.Context, query string) ([]model.LocationSuggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestionQueryLen {
		return []model.LocationSuggestion{}, nil
	}

	ctx, cancel := s.requestCtx(ctx)
	defer cancel()

	teacherGroups, err := s.store.TeacherLocations(ctx, query)
	if err != nil {
		return nil, classify("teacher locations", err)
	}
	jobGroups, err := s.store.JobLocations(ctx, query)
	if err != nil {
		return nil, classify("job locations", err)
	}

	return MergeLocationGroups(teacherGroups, jobGroups), nil
}

// MergeLocationGroups merges per-collection (city, state) aggregations by
// summing counts, keeping the first-seen representative coordinates, and
// returns the top suggestions by count descending. Ties break on label so
// the ordering is stable.
func MergeLocationGroups(groupLists ...[]model.LocationGroup) []model.LocationSuggestion {
	merged := make(map[string]*model.LocationSuggestion)
	var order []string

	for _, groups := range groupLists {
		for _, g := range groups {
			key := strings.ToLower(g.City) + "|" + strings.ToLower(g.State)
			if existing, ok := merged[key]; ok {
				existing.Count += g.Count
				continue
			}
			merged[key] = &model.LocationSuggestion{
				City:        g.City,
				State:       g.State,
				Coordinates: geo.Point{Latitude: g.Latitude, Longitude: g.Longitude},
				Count:       g.Count,
				Label:       fmt.Sprintf("%s, %s", g.City, g.State),
			}
			order = append(order, key)
		}
	}

	out := make([]model.LocationSuggestion, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
