package geo

import "math"

// EarthRadiusM is the mean earth radius in meters.
const EarthRadiusM = 6371000.0

// Point is a geographic coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point lies within the WGS84 coordinate domain.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// RoundMeters converts a raw distance to the rounded integer meters exposed
// in API responses. Returns nil for nil input (no origin supplied).
func RoundMeters(d *float64) *int {
	if d == nil {
		return nil
	}
	m := int(math.Round(*d))
	return &m
}
