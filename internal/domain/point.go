package domain

import "math"

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Round returns the point rounded to 6 decimal digits (~0.11 m).
// Candidate points are always rounded before reaching the routing oracle
// so cache keys stay stable across floating-point noise.
func (p Point) Round() Point {
	return Point{
		Lat: math.Round(p.Lat*1e6) / 1e6,
		Lng: math.Round(p.Lng*1e6) / 1e6,
	}
}

// Return coordinates as [lon, lat] for external API compatibility.
func (p Point) CoordsToList() []float64 { return []float64{p.Lng, p.Lat} }
