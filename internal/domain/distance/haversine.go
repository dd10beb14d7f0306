// Package distance computes great-circle distances between coordinates.
package distance

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusMiles is the sphere radius used for all distances.
const EarthRadiusMiles = 3956.0

// MetersPerMile converts miles to meters for orb/geo bounds.
const MetersPerMile = 1609.344

// Miles returns the haversine distance in miles between two points given in
// degrees. Callers must not pass absent coordinates.
func Miles(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lng1Rad := lng1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lng2Rad := lng2 * math.Pi / 180

	deltaLat := lat2Rad - lat1Rad
	deltaLng := lng2Rad - lng1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	// Rounding can push a slightly above 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusMiles * c
}

// MilesBetween is Miles for orb points (X longitude, Y latitude).
func MilesBetween(a, b orb.Point) float64 {
	return Miles(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

// Round2 rounds a distance to two decimal places for display.
func Round2(miles float64) float64 {
	return math.Round(miles*100) / 100
}
