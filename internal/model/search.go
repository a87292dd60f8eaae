package model

import (
	"time"

	"tutormatch/search-service/internal/geo"
)

// Pagination describes the page slice of a result set. Total always reflects
// the full matching set, not the page.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// DistanceBucket is one band of the fixed distance histogram computed over
// the current page of results.
type DistanceBucket struct {
	Label string `json:"label"`
	MinM  int    `json:"min"`
	MaxM  int    `json:"max"`
	Count int    `json:"count"`
}

// NearbyBucket groups the entities of a nearby scan into a distance band.
type NearbyBucket struct {
	Label string `json:"label"`
	MinM  int    `json:"min"`
	MaxM  int    `json:"max"`
	Count int    `json:"count"`
	Items any    `json:"items"`
}

// TeacherSearchData is the data payload of a teacher search response.
type TeacherSearchData struct {
	Teachers        []TeacherResult  `json:"teachers"`
	Pagination      Pagination       `json:"pagination"`
	DistanceBuckets []DistanceBucket `json:"distanceBuckets"`
	SearchParams    any              `json:"searchParams"`
}

// JobSearchData is the data payload of a job search response.
type JobSearchData struct {
	Jobs            []JobResult      `json:"jobs"`
	Pagination      Pagination       `json:"pagination"`
	DistanceBuckets []DistanceBucket `json:"distanceBuckets"`
	SearchParams    any              `json:"searchParams"`
}

// NearbyData is the data payload of a nearby scan response.
type NearbyData struct {
	Type        string         `json:"type"`
	Origin      geo.Point      `json:"origin"`
	MaxDistance float64        `json:"maxDistance"`
	Total       int            `json:"total"`
	Buckets     []NearbyBucket `json:"buckets"`
}

// LocationGroup is one (city, state) aggregation row from a single
// collection, before cross-collection merging.
type LocationGroup struct {
	City      string  `db:"city"`
	State     string  `db:"state"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
	Count     int     `db:"cnt"`
}

// LocationSuggestion is a merged typeahead suggestion. Coordinates are those
// of whichever row the aggregation saw first for the (city, state) group and
// are not deterministic across dataset reloads.
type LocationSuggestion struct {
	City        string    `json:"city"`
	State       string    `json:"state"`
	Coordinates geo.Point `json:"coordinates"`
	Count       int       `json:"count"`
	Label       string    `json:"label"`
}

// SearchLog records one executed search for offline analysis. Written
// asynchronously; never blocks or fails a request.
type SearchLog struct {
	ID          string    `db:"id"`
	Entity      string    `db:"entity"`
	Params      []byte    `db:"params"`
	ResultCount int       `db:"result_count"`
	Total       int       `db:"total"`
	TookMs      int64     `db:"took_ms"`
	CreatedAt   time.Time `db:"created_at"`
}
