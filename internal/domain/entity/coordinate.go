// Package entity contains the core business objects of the project.
package entity

import (
	"math"

	"github.com/paulmach/orb"
)

// Coordinate is a resolved (latitude, longitude) pair in degrees.
// The zero value is Absent: resolution was attempted and failed.
type Coordinate struct {
	Point orb.Point // X is longitude, Y is latitude (orb convention).
	Valid bool      // False means Absent.
}

// AbsentCoordinate is the explicit "resolution failed" value.
var AbsentCoordinate = Coordinate{}

// NewCoordinate builds a present coordinate from latitude and longitude.
// Out-of-range or non-finite values produce AbsentCoordinate.
func NewCoordinate(lat, lng float64) Coordinate {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return AbsentCoordinate
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return AbsentCoordinate
	}

	return Coordinate{Point: orb.Point{lng, lat}, Valid: true}
}

// Lat returns the latitude in degrees.
func (c Coordinate) Lat() float64 {
	return c.Point.Lat()
}

// Lng returns the longitude in degrees.
func (c Coordinate) Lng() float64 {
	return c.Point.Lon()
}

// IsAbsent reports whether resolution failed for this coordinate.
func (c Coordinate) IsAbsent() bool {
	return !c.Valid
}
