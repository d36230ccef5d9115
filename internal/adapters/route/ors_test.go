package route

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"meetpoint-service/internal/domain"
)

// memoryRouteCache is an in-process RouteTimeCache for adapter tests.
type memoryRouteCache struct {
	m    map[domain.Point]map[domain.Point]int
	puts int
}

func newMemoryRouteCache() *memoryRouteCache {
	return &memoryRouteCache{m: make(map[domain.Point]map[domain.Point]int)}
}

func (c *memoryRouteCache) GetMany(ctx context.Context, origin domain.Point, destinations []domain.Point) (map[domain.Point]int, error) {
	out := make(map[domain.Point]int)
	for _, d := range destinations {
		if s, ok := c.m[origin][d]; ok {
			out[d] = s
		}
	}
	return out, nil
}

func (c *memoryRouteCache) PutMany(ctx context.Context, origin domain.Point, results map[domain.Point]int) error {
	c.puts++
	row := c.m[origin]
	if row == nil {
		row = make(map[domain.Point]int)
		c.m[origin] = row
	}
	for d, s := range results {
		row[d] = s
	}
	return nil
}

func newTestORS(t *testing.T, handler http.Handler, cache *memoryRouteCache) *ORSOracle {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	o, err := NewORSOracle("test-key", nil)
	if err != nil {
		t.Fatalf("NewORSOracle: %v", err)
	}
	o.baseURL = srv.URL
	if cache != nil {
		o.cache = cache
	}
	return o
}

func matrixHandler(t *testing.T, calls *int, durations func(req matrixRequest) []*float64) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/matrix/driving-car" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("Authorization = %q", got)
		}
		*calls++

		var req matrixRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode matrix request: %v", err)
		}
		if len(req.Sources) != 1 || req.Sources[0] != 0 {
			t.Errorf("sources = %v, want [0]", req.Sources)
		}

		json.NewEncoder(w).Encode(matrixResponse{Durations: [][]*float64{durations(req)}})
	})
}

func secs(v float64) *float64 { return &v }

func TestORSRouteTimesMatrixRow(t *testing.T) {
	origin := domain.Point{Lat: 40.0, Lng: -73.0}
	reachable := domain.Point{Lat: 40.1, Lng: -73.0}
	unroutable := domain.Point{Lat: 40.2, Lng: -73.0}

	var calls int
	o := newTestORS(t, matrixHandler(t, &calls, func(req matrixRequest) []*float64 {
		// One row: reachable priced, unroutable cell null.
		row := make([]*float64, len(req.Destinations))
		for i := range row {
			if req.Locations[i+1][1] == reachable.Lat {
				row[i] = secs(612.4)
			}
		}
		return row
	}), nil)

	// Duplicates collapse and the origin itself never hits the API.
	got := o.RouteTimes(context.Background(), origin, []domain.Point{reachable, reachable, unroutable, origin})
	if calls != 1 {
		t.Fatalf("api calls = %d, want 1", calls)
	}
	if got[reachable] != 612 {
		t.Fatalf("reachable = %d, want 612", got[reachable])
	}
	if _, ok := got[unroutable]; ok {
		t.Fatal("unroutable destination reported as priced")
	}
	if got[origin] != 0 {
		t.Fatalf("self pair = %d, want 0", got[origin])
	}
}

func TestORSRouteTimesUsesCache(t *testing.T) {
	origin := domain.Point{Lat: 40.0, Lng: -73.0}
	dest := domain.Point{Lat: 40.1, Lng: -73.0}

	cache := newMemoryRouteCache()
	var calls int
	o := newTestORS(t, matrixHandler(t, &calls, func(req matrixRequest) []*float64 {
		row := make([]*float64, len(req.Destinations))
		for i := range row {
			row[i] = secs(900)
		}
		return row
	}), cache)

	ctx := context.Background()
	if got := o.RouteTimes(ctx, origin, []domain.Point{dest}); got[dest] != 900 {
		t.Fatalf("first call = %v, want 900", got)
	}
	if calls != 1 || cache.puts != 1 {
		t.Fatalf("calls = %d, cache writes = %d, want 1 and 1", calls, cache.puts)
	}

	// Second lookup is served entirely from the cache.
	if got := o.RouteTimes(ctx, origin, []domain.Point{dest}); got[dest] != 900 {
		t.Fatalf("second call = %v, want 900", got)
	}
	if calls != 1 {
		t.Fatalf("api calls = %d after cached lookup, want 1", calls)
	}
}

func TestORSRouteTimesPartialFailureKeepsCacheHits(t *testing.T) {
	origin := domain.Point{Lat: 40.0, Lng: -73.0}
	cached := domain.Point{Lat: 40.1, Lng: -73.0}
	uncached := domain.Point{Lat: 40.2, Lng: -73.0}

	cache := newMemoryRouteCache()
	cache.PutMany(context.Background(), origin, map[domain.Point]int{cached: 450})
	cache.puts = 0

	o := newTestORS(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}), cache)

	got := o.RouteTimes(context.Background(), origin, []domain.Point{cached, uncached})
	if got[cached] != 450 {
		t.Fatalf("cached = %v, want 450", got)
	}
	if _, ok := got[uncached]; ok {
		t.Fatal("failed destination reported as priced")
	}
}

func TestORSRetriesRateLimit(t *testing.T) {
	origin := domain.Point{Lat: 40.0, Lng: -73.0}
	dest := domain.Point{Lat: 40.1, Lng: -73.0}

	var attempts int
	o := newTestORS(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(matrixResponse{Durations: [][]*float64{{secs(300)}}})
	}), nil)

	got := o.RouteTimes(context.Background(), origin, []domain.Point{dest})
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if got[dest] != 300 {
		t.Fatalf("got %v, want 300", got)
	}
}

func TestORSReverseGeocode(t *testing.T) {
	o := newTestORS(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("size"); got != "1" {
			t.Errorf("size = %q, want 1", got)
		}
		w.Write([]byte(`{"features":[{"properties":{"label":"350 5th Ave, New York, NY","country":"United States","region":"New York","locality":"New York","street":"5th Ave"}}]}`))
	}), nil)

	addr, ok := o.ReverseGeocode(context.Background(), domain.Point{Lat: 40.748817, Lng: -73.985428})
	if !ok {
		t.Fatal("expected an address")
	}
	if addr.Locality != "New York" || addr.Street != "5th Ave" {
		t.Fatalf("address = %+v", addr)
	}
}

func TestORSReverseGeocodeNoResults(t *testing.T) {
	o := newTestORS(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}), nil)

	if _, ok := o.ReverseGeocode(context.Background(), domain.Point{Lat: 0, Lng: 0}); ok {
		t.Fatal("expected no address for empty feature list")
	}
}
