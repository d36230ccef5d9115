package services

import (
	"math"
	"testing"

	"meetpoint-service/internal/domain"
)

// cross returns five points: a center and four offsets ~100 m out.
func cross(lat, lng float64) []domain.Point {
	return []domain.Point{
		{Lat: lat, Lng: lng},
		{Lat: lat + 0.001, Lng: lng},
		{Lat: lat - 0.001, Lng: lng},
		{Lat: lat, Lng: lng + 0.001},
		{Lat: lat, Lng: lng - 0.001},
	}
}

func unitWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

func totalWeight(vls []domain.VirtualLocation) float64 {
	var t float64
	for _, v := range vls {
		t += v.Weight
	}
	return t
}

func TestDensityClusterNoOpBelowMinSize(t *testing.T) {
	coords := []domain.Point{
		{Lat: 40.0, Lng: -73.0},
		{Lat: 40.1, Lng: -73.1},
		{Lat: 40.2, Lng: -73.2},
	}
	weights := []float64{1, 2, 3}

	out := DensityCluster(coords, weights, 5)
	if len(out) != len(coords) {
		t.Fatalf("got %d virtual locations, want %d", len(out), len(coords))
	}
	for i, v := range out {
		if v.Coord != coords[i] || v.Weight != weights[i] {
			t.Fatalf("singleton %d = %+v, want coord %+v weight %g", i, v, coords[i], weights[i])
		}
	}
}

func TestDensityClusterKeepsNoiseAsSingletons(t *testing.T) {
	var coords []domain.Point
	coords = append(coords, cross(40.0, -73.0)...)
	coords = append(coords, cross(40.1, -73.0)...)
	noise := domain.Point{Lat: 42.0, Lng: -73.0}
	coords = append(coords, noise)

	weights := unitWeights(len(coords))

	out := DensityCluster(coords, weights, 5)
	if len(out) != 3 {
		t.Fatalf("got %d virtual locations, want 2 clusters + 1 noise singleton", len(out))
	}

	if out[0].Weight != 5 || out[1].Weight != 5 {
		t.Fatalf("cluster weights = %g, %g, want 5 and 5", out[0].Weight, out[1].Weight)
	}
	if math.Abs(out[0].Coord.Lat-40.0) > 1e-6 || math.Abs(out[0].Coord.Lng-(-73.0)) > 1e-6 {
		t.Fatalf("first cluster centroid = %+v", out[0].Coord)
	}
	if math.Abs(out[1].Coord.Lat-40.1) > 1e-6 {
		t.Fatalf("second cluster centroid = %+v", out[1].Coord)
	}

	// The outlier survives as itself, full weight.
	last := out[2]
	if last.Coord != noise || last.Weight != 1 {
		t.Fatalf("noise singleton = %+v", last)
	}

	if got := totalWeight(out); got != float64(len(coords)) {
		t.Fatalf("total weight = %g, want %d", got, len(coords))
	}
}

func TestDensityClusterAggregatesWeights(t *testing.T) {
	coords := cross(40.0, -73.0)
	weights := []float64{1, 2, 3, 4, 5}

	out := DensityCluster(coords, weights, 5)
	if len(out) != 1 {
		t.Fatalf("got %d virtual locations, want 1 cluster", len(out))
	}
	if out[0].Weight != 15 {
		t.Fatalf("cluster weight = %g, want 15", out[0].Weight)
	}
}

func TestCapacityClusterNoOpAtOrBelowMaxSize(t *testing.T) {
	coords := cross(40.0, -73.0)
	weights := []float64{1, 1, 2, 2, 3}

	out := CapacityCluster(coords, weights, 10)
	if len(out) != len(coords) {
		t.Fatalf("got %d virtual locations, want %d singletons", len(out), len(coords))
	}
	for i, v := range out {
		if v.Coord != coords[i] || v.Weight != weights[i] {
			t.Fatalf("singleton %d = %+v", i, v)
		}
	}
}

func TestCapacityClusterPartitions(t *testing.T) {
	var coords []domain.Point
	for i := 0; i < 6; i++ {
		coords = append(coords, domain.Point{Lat: 40.0 + float64(i)*0.001, Lng: -73.0})
	}
	for i := 0; i < 6; i++ {
		coords = append(coords, domain.Point{Lat: 41.0 + float64(i)*0.001, Lng: -74.0})
	}
	weights := unitWeights(len(coords))

	// n=12, maxClusterSize=5 => k = max(2, 12/5) = 2.
	out := CapacityCluster(coords, weights, 5)
	if len(out) != 2 {
		t.Fatalf("got %d virtual locations, want 2", len(out))
	}
	if got := totalWeight(out); got != 12 {
		t.Fatalf("total weight = %g, want 12", got)
	}
	for i, v := range out {
		if v.Weight <= 0 {
			t.Fatalf("cluster %d has non-positive weight %g", i, v.Weight)
		}
	}
}
