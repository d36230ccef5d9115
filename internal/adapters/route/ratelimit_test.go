package route

import (
	"context"
	"testing"

	"meetpoint-service/internal/domain"
)

func TestRateLimitedPassesThrough(t *testing.T) {
	a := domain.Point{Lat: 40.0, Lng: -73.0}
	b := domain.Point{Lat: 40.1, Lng: -73.0}

	inner := NewMockOracle([]MockPair{{From: a, To: b, Seconds: 720}})
	limited := NewRateLimited(inner, 100, 100)

	s, ok := limited.RouteTime(context.Background(), a, b)
	if !ok || s != 720 {
		t.Fatalf("got %d/%v, want 720/true", s, ok)
	}
}

func TestRateLimitedFansOutWithoutBatchSupport(t *testing.T) {
	a := domain.Point{Lat: 40.0, Lng: -73.0}
	b := domain.Point{Lat: 40.1, Lng: -73.0}
	c := domain.Point{Lat: 40.2, Lng: -73.0}

	// MockOracle has no batch path, so the decorator falls back to
	// per-destination calls.
	inner := NewMockOracle([]MockPair{{From: a, To: b, Seconds: 300}})
	limited := NewRateLimited(inner, 100, 100)

	got := limited.RouteTimes(context.Background(), a, []domain.Point{b, c})
	if len(got) != 1 || got[b] != 300 {
		t.Fatalf("got %v, want only b=300", got)
	}
}

func TestRateLimitedCancelledContext(t *testing.T) {
	a := domain.Point{Lat: 40.0, Lng: -73.0}
	b := domain.Point{Lat: 40.1, Lng: -73.0}

	inner := NewMockOracle([]MockPair{{From: a, To: b, Seconds: 300}})
	limited := NewRateLimited(inner, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := limited.RouteTime(ctx, a, b); ok {
		t.Fatal("expected failure under cancelled context")
	}
}
