package search

import (
	"testing"

	"tutormatch/search-service/internal/model"
)

func teacherAt(distanceM *int) model.TeacherResult {
	return model.TeacherResult{Distance: distanceM}
}

func meters(m int) *int { return &m }

func TestBucketDistances_NoOriginIsEmpty(t *testing.T) {
	page := []model.TeacherResult{teacherAt(nil), teacherAt(nil)}
	buckets := BucketDistances(page, false)
	if len(buckets) != 0 {
		t.Errorf("without origin histogram must be empty, got %d buckets", len(buckets))
	}
}

func TestBucketDistances_Bands(t *testing.T) {
	page := []model.TeacherResult{
		teacherAt(meters(0)),      // 0-5 km
		teacherAt(meters(2000)),   // 0-5 km
		teacherAt(meters(4999)),   // 0-5 km
		teacherAt(meters(5000)),   // 5-10 km, lower bound inclusive
		teacherAt(meters(8000)),   // 5-10 km
		teacherAt(meters(12000)),  // 10-15 km
		teacherAt(meters(24999)),  // 15-25 km
		teacherAt(meters(25000)),  // 25-100 km
		teacherAt(meters(99999)),  // 25-100 km
		teacherAt(meters(100000)), // beyond the last band: uncounted
		teacherAt(nil),            // no distance: uncounted
	}

	buckets := BucketDistances(page, true)
	if len(buckets) != 5 {
		t.Fatalf("got %d buckets, want 5", len(buckets))
	}

	wantCounts := []int{3, 2, 1, 1, 2}
	wantLabels := []string{"0-5 km", "5-10 km", "10-15 km", "15-25 km", "25-100 km"}
	for i, b := range buckets {
		if b.Count != wantCounts[i] {
			t.Errorf("bucket %q count = %d, want %d", b.Label, b.Count, wantCounts[i])
		}
		if b.Label != wantLabels[i] {
			t.Errorf("bucket %d label = %q, want %q", i, b.Label, wantLabels[i])
		}
	}
}

func TestBucketDistances_SumBoundedByPageSize(t *testing.T) {
	page := []model.TeacherResult{
		teacherAt(meters(1000)),
		teacherAt(meters(200000)), // uncounted
		teacherAt(nil),            // uncounted
		teacherAt(meters(30000)),
	}
	buckets := BucketDistances(page, true)

	sum := 0
	for _, b := range buckets {
		sum += b.Count
	}
	if sum > len(page) {
		t.Errorf("bucket counts sum %d exceeds page size %d", sum, len(page))
	}
	if sum != 2 {
		t.Errorf("bucket counts sum = %d, want 2", sum)
	}
}

func TestBucketDistances_SumEqualsPageWhenAllInRange(t *testing.T) {
	page := []model.TeacherResult{
		teacherAt(meters(100)),
		teacherAt(meters(7000)),
		teacherAt(meters(14000)),
		teacherAt(meters(20000)),
		teacherAt(meters(50000)),
	}
	buckets := BucketDistances(page, true)

	sum := 0
	for _, b := range buckets {
		sum += b.Count
	}
	if sum != len(page) {
		t.Errorf("all distances in range: sum = %d, want %d", sum, len(page))
	}
}

func TestBandsAreContiguous(t *testing.T) {
	bands := Bands()
	for i := 1; i < len(bands); i++ {
		if bands[i].MinM != bands[i-1].MaxM {
			t.Errorf("band %d starts at %d, previous ends at %d", i, bands[i].MinM, bands[i-1].MaxM)
		}
	}
	if bands[0].MinM != 0 || bands[len(bands)-1].MaxM != 100000 {
		t.Errorf("band table spans [%d, %d), want [0, 100000)", bands[0].MinM, bands[len(bands)-1].MaxM)
	}
}

func TestGroupByBand(t *testing.T) {
	items := []model.JobResult{
		{Distance: meters(1000)},
		{Distance: meters(6000)},
		{Distance: meters(7000)},
		{Distance: nil},
		{Distance: meters(150000)},
	}
	groups := GroupByBand(items)
	if len(groups) != 5 {
		t.Fatalf("got %d groups, want 5", len(groups))
	}
	if len(groups[0]) != 1 || len(groups[1]) != 2 {
		t.Errorf("group sizes = %d/%d, want 1/2", len(groups[0]), len(groups[1]))
	}
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total != 3 {
		t.Errorf("grouped %d items, want 3 (nil and out-of-range dropped)", total)
	}
}
