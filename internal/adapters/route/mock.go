package route

import (
	"context"
	"fmt"

	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/geo"
)

type MockPair struct {
	From, To domain.Point
	Seconds  int
}

// MockOracle serves fixed travel times for tests. Pairs not registered are
// unknown, which makes partial-failure behavior easy to script.
type MockOracle struct {
	m map[string]int
	// Optional canned reverse-lookup result.
	Addr *domain.AddressInfo
}

func pairKey(origin, destination domain.Point) string {
	o, d := origin.Round(), destination.Round()
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", o.Lat, o.Lng, d.Lat, d.Lng)
}

func NewMockOracle(pairs []MockPair) *MockOracle {
	m := make(map[string]int, len(pairs))
	for _, p := range pairs {
		m[pairKey(p.From, p.To)] = p.Seconds
	}
	return &MockOracle{m: m}
}

func (p *MockOracle) RouteTime(ctx context.Context, origin, destination domain.Point) (int, bool) {
	s, ok := p.m[pairKey(origin, destination)]
	return s, ok
}

func (p *MockOracle) ReverseGeocode(ctx context.Context, pt domain.Point) (domain.AddressInfo, bool) {
	if p.Addr == nil {
		return domain.AddressInfo{}, false
	}
	return *p.Addr, true
}

// SpeedOracle approximates any pair's travel time as great-circle distance
// at a constant speed. Deterministic stand-in for the routing provider in
// convergence tests.
type SpeedOracle struct {
	MetersPerSecond float64
}

func (s SpeedOracle) RouteTime(ctx context.Context, origin, destination domain.Point) (int, bool) {
	mps := s.MetersPerSecond
	if mps <= 0 {
		mps = 15
	}
	return int(geo.Haversine(origin.Round(), destination.Round()) / mps), true
}
