package search

import "tutormatch/search-service/internal/model"

// The fixed distance bands, meters. Contiguous and non-overlapping;
// distances at or beyond the last upper bound are simply not counted.
type band struct {
	minM  int
	maxM  int
	label string
}

var distanceBands = []band{
	{0, 5000, "0-5 km"},
	{5000, 10000, "5-10 km"},
	{10000, 15000, "10-15 km"},
	{15000, 25000, "15-25 km"},
	{25000, 100000, "25-100 km"},
}

// Distanced is anything carrying an optional rounded distance annotation.
type Distanced interface {
	DistanceMeters() *int
}

// BucketDistances histograms the current page of results into the fixed
// bands. Without an origin no result carries a distance and the histogram is
// empty. This is a page-level approximation for UI faceting, not a histogram
// over the full matching set.
func BucketDistances[R Distanced](page []R, hasOrigin bool) []model.DistanceBucket {
	if !hasOrigin {
		return []model.DistanceBucket{}
	}
	buckets := make([]model.DistanceBucket, len(distanceBands))
	for i, b := range distanceBands {
		buckets[i] = model.DistanceBucket{Label: b.label, MinM: b.minM, MaxM: b.maxM}
	}
	for _, r := range page {
		d := r.DistanceMeters()
		if d == nil {
			continue
		}
		for i, b := range distanceBands {
			if *d >= b.minM && *d < b.maxM {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// GroupByBand partitions items into one slice per band, in band order.
// Items without a distance or beyond the last band are dropped.
func GroupByBand[R Distanced](items []R) [][]R {
	groups := make([][]R, len(distanceBands))
	for i := range groups {
		groups[i] = []R{}
	}
	for _, r := range items {
		d := r.DistanceMeters()
		if d == nil {
			continue
		}
		for i, b := range distanceBands {
			if *d >= b.minM && *d < b.maxM {
				groups[i] = append(groups[i], r)
				break
			}
		}
	}
	return groups
}

// Bands exposes the band table as bucket descriptors with zero counts.
func Bands() []model.DistanceBucket {
	out := make([]model.DistanceBucket, len(distanceBands))
	for i, b := range distanceBands {
		out[i] = model.DistanceBucket{Label: b.label, MinM: b.minM, MaxM: b.maxM}
	}
	return out
}
