// Package geo provides the great-circle and centroid math used by the
// gathering-point search. All functions are pure.
package geo

import (
	"fmt"
	"math"

	"meetpoint-service/internal/domain"
)

// Mean Earth radius in meters.
const earthRadiusM = 6371000.0

// Haversine returns the great-circle distance between two points in meters.
func Haversine(p1, p2 domain.Point) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	dLat := (p2.Lat - p1.Lat) * math.Pi / 180
	dLng := (p2.Lng - p1.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusM * c
}

// WeightedCentroid returns the per-axis weighted mean of points, rounded to
// 6 decimal digits. A weights slice shorter than points is padded with 1.0;
// if the total weight is zero the unweighted arithmetic mean is returned.
func WeightedCentroid(points []domain.Point, weights []float64) (domain.Point, error) {
	if len(points) == 0 {
		return domain.Point{}, fmt.Errorf("weighted centroid: %w", domain.ErrEmptyInput)
	}

	w := weights
	if len(w) < len(points) {
		w = make([]float64, len(points))
		copy(w, weights)
		for i := len(weights); i < len(points); i++ {
			w[i] = 1.0
		}
	}

	var sumLat, sumLng, total float64
	for i, p := range points {
		sumLat += p.Lat * w[i]
		sumLng += p.Lng * w[i]
		total += w[i]
	}

	if total == 0 {
		var lat, lng float64
		for _, p := range points {
			lat += p.Lat
			lng += p.Lng
		}
		n := float64(len(points))
		return domain.Point{Lat: lat / n, Lng: lng / n}.Round(), nil
	}

	return domain.Point{Lat: sumLat / total, Lng: sumLng / total}.Round(), nil
}
