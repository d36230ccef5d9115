package geo

import (
	"errors"
	"math"
	"testing"

	"meetpoint-service/internal/domain"
)

func TestHaversine(t *testing.T) {
	a := domain.Point{Lat: 40.0, Lng: -73.0}
	b := domain.Point{Lat: 40.0, Lng: -71.0}

	// Two degrees of longitude at latitude 40 is roughly 170 km.
	d := Haversine(a, b)
	if d < 169000 || d > 172000 {
		t.Fatalf("distance = %.0f m, want ~170 km", d)
	}

	if d := Haversine(a, a); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}

	// Symmetric.
	if Haversine(a, b) != Haversine(b, a) {
		t.Fatalf("distance is not symmetric")
	}
}

func TestWeightedCentroidSquareCenter(t *testing.T) {
	corners := []domain.Point{
		{Lat: 40.0, Lng: -73.0},
		{Lat: 40.0, Lng: -71.0},
		{Lat: 42.0, Lng: -73.0},
		{Lat: 42.0, Lng: -71.0},
	}
	weights := []float64{1, 1, 1, 1}

	c, err := WeightedCentroid(corners, weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Point{Lat: 41.0, Lng: -72.0}
	if c != want {
		t.Fatalf("centroid = %+v, want %+v", c, want)
	}
}

func TestWeightedCentroidPullsTowardHeavyPoint(t *testing.T) {
	points := []domain.Point{
		{Lat: 40.0, Lng: -73.0},
		{Lat: 40.0, Lng: -71.0},
	}

	c, err := WeightedCentroid(points, []float64{3, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(c.Lng-(-72.5)) > 1e-6 {
		t.Fatalf("centroid lng = %f, want -72.5", c.Lng)
	}
}

func TestWeightedCentroidZeroTotalWeightFallsBackToMean(t *testing.T) {
	points := []domain.Point{
		{Lat: 40.0, Lng: -73.0},
		{Lat: 42.0, Lng: -71.0},
	}

	c, err := WeightedCentroid(points, []float64{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Point{Lat: 41.0, Lng: -72.0}
	if c != want {
		t.Fatalf("centroid = %+v, want unweighted mean %+v", c, want)
	}
}

func TestWeightedCentroidPadsShortWeights(t *testing.T) {
	points := []domain.Point{
		{Lat: 40.0, Lng: -73.0},
		{Lat: 40.0, Lng: -71.0},
		{Lat: 40.0, Lng: -69.0},
	}

	// Missing weights default to 1.0.
	c, err := WeightedCentroid(points, []float64{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(c.Lng-(-71.0)) > 1e-6 {
		t.Fatalf("centroid lng = %f, want -71.0", c.Lng)
	}
}

func TestWeightedCentroidEmptyInput(t *testing.T) {
	_, err := WeightedCentroid(nil, nil)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}
}

func TestPointRound(t *testing.T) {
	p := domain.Point{Lat: 40.1234567, Lng: -73.9876544}
	r := p.Round()
	if r.Lat != 40.123457 || r.Lng != -73.987654 {
		t.Fatalf("rounded = %+v", r)
	}
}
