package services

import (
	"math"

	"village-route-service/internal/domain"
)

const (
	earthRadiusKm = 6371.0

	// DefaultAvgSpeedKmh is representative of unpaved rural roads.
	DefaultAvgSpeedKmh = 35.0
)

// HaversineKm returns the great-circle distance between a and b in kilometers.
// Inputs are expected to be range-validated already.
func HaversineKm(a, b domain.Coordinates) float64 {
	if a == b {
		return 0
	}

	p1 := a.Lat * math.Pi / 180
	p2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(p1)*math.Cos(p2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// Rounding can push h marginally past 1 for antipodal points.
	h = min(h, 1)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// TravelMinutes converts a distance into minutes at avgKmh.
// A non-positive speed falls back to DefaultAvgSpeedKmh.
func TravelMinutes(distanceKm, avgKmh float64) float64 {
	if avgKmh <= 0 {
		avgKmh = DefaultAvgSpeedKmh
	}
	return distanceKm / avgKmh * 60
}

func roundTenth(km float64) float64 {
	return math.Round(km*10) / 10
}
