package route

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/metrics"
	"meetpoint-service/internal/platform/obs"
	"meetpoint-service/internal/ports"
)

// ORSOracle implements the routing oracle on OpenRouteService.
//
// It coordinates:
//   - Persistent route-time caching keyed by rounded coordinate pairs
//   - Matrix calls batching one origin against many destinations
//   - External API calls with retry/backoff
//
// Provider failures surface as unknown pairs, never as search-fatal errors.
// The oracle is safe for concurrent use.
type ORSOracle struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	cache   ports.RouteTimeCache
}

func NewORSOracle(apiKey string, cache ports.RouteTimeCache) (*ORSOracle, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSOracle{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
		cache:   cache,
	}, nil
}

// Delegate to the batched path to reuse caching and matrix logic.
func (o *ORSOracle) RouteTime(ctx context.Context, origin, destination domain.Point) (int, bool) {
	results := o.RouteTimes(ctx, origin, []domain.Point{destination})
	s, ok := results[destination.Round()]
	return s, ok
}

// RouteTimes resolves travel times from one origin to many destinations.
// Destinations that cannot be priced are absent from the result.
func (o *ORSOracle) RouteTimes(ctx context.Context, origin domain.Point, destinations []domain.Point) map[domain.Point]int {
	var err error
	defer obs.Time(ctx, "ors.RouteTimes")(&err)

	origin = origin.Round()

	selfPair := false
	seen := make(map[domain.Point]struct{}, len(destinations))
	destList := make([]domain.Point, 0, len(destinations))
	for _, d := range destinations {
		d = d.Round()
		if d == origin {
			selfPair = true
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		destList = append(destList, d)
	}

	if len(destList) == 0 {
		if selfPair {
			return map[domain.Point]int{origin: 0}
		}
		return map[domain.Point]int{}
	}

	hits := make(map[domain.Point]int)
	// Check the persistent cache before issuing external API calls.
	if o.cache != nil {
		var cacheErr error
		hits, cacheErr = o.cache.GetMany(ctx, origin, destList)
		if cacheErr != nil {
			log.Printf("route cache read failed: %v", cacheErr)
			hits = map[domain.Point]int{}
		}
	}

	misses := make([]domain.Point, 0, len(destList))
	for _, d := range destList {
		if _, ok := hits[d]; ok {
			metrics.CacheLookups.WithLabelValues("ors", "hit").Inc()
		} else {
			metrics.CacheLookups.WithLabelValues("ors", "miss").Inc()
			misses = append(misses, d)
		}
	}

	if len(misses) == 0 {
		if selfPair {
			hits[origin] = 0
		}
		return hits
	}

	fetched, err := o.fetchMatrixRow(ctx, origin, misses)
	if err != nil {
		// Partial failure policy: cached pairs still count, the rest are
		// unknown for this call.
		metrics.OracleCalls.WithLabelValues("ors", "error").Inc()
		log.Printf("ors matrix row failed origin=(%.6f,%.6f): %v", origin.Lat, origin.Lng, err)
		return hits
	}
	metrics.OracleCalls.WithLabelValues("ors", "ok").Inc()

	if o.cache != nil && len(fetched) > 0 {
		if err := o.cache.PutMany(ctx, origin, fetched); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	out := make(map[domain.Point]int, len(hits)+len(fetched)+1)
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fetched {
		out[k] = v
	}
	if selfPair {
		out[origin] = 0
	}
	return out
}

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrixRow retrieves durations from one origin to many destinations
// using the OpenRouteService matrix endpoint.
func (o *ORSOracle) fetchMatrixRow(ctx context.Context, origin domain.Point, destinations []domain.Point) (map[domain.Point]int, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, 1+len(destinations))
	locations = append(locations, origin.CoordsToList())
	for _, d := range destinations {
		locations = append(locations, d.CoordsToList())
	}

	destIdx := make([]int, 0, len(destinations))
	for i := 1; i < len(locations); i++ {
		destIdx = append(destIdx, i)
	}

	bodyObj := matrixRequest{
		Locations:    locations,
		Destinations: destIdx,
		Metrics:      []string{"duration"},
		Sources:      []int{0},
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return o.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Durations) != 1 {
		return nil, fmt.Errorf("expected 1 source row; got durations=%d", len(mr.Durations))
	}

	row := mr.Durations[0]
	if len(row) != len(destinations) {
		return nil, fmt.Errorf(
			"row length does not match destinations: durations=%d destinations=%d",
			len(row), len(destinations),
		)
	}

	out := make(map[domain.Point]int, len(destinations))
	for i, dest := range destinations {
		secondsPtr := row[i]
		// A null cell means ORS found no route for this pair; leave it unknown.
		if secondsPtr == nil {
			continue
		}
		out[dest] = int(math.Round(*secondsPtr))
	}

	return out, nil
}

type reverseResponse struct {
	Features []struct {
		Properties struct {
			Label    string `json:"label"`
			Country  string `json:"country"`
			Region   string `json:"region"`
			Locality string `json:"locality"`
			Street   string `json:"street"`
		} `json:"properties"`
	} `json:"features"`
}

// ReverseGeocode resolves the address nearest to a point via
// /geocode/reverse. Best effort: any failure reports the address as unknown.
func (o *ORSOracle) ReverseGeocode(ctx context.Context, p domain.Point) (domain.AddressInfo, bool) {
	p = p.Round()
	endpoint := o.baseURL + "/geocode/reverse"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("point.lat", fmt.Sprintf("%.6f", p.Lat))
		q.Set("point.lon", fmt.Sprintf("%.6f", p.Lng))
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		log.Printf("ors reverse geocode failed point=(%.6f,%.6f): %v", p.Lat, p.Lng, err)
		return domain.AddressInfo{}, false
	}
	defer resp.Body.Close()

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		log.Printf("ors reverse geocode decode failed: %v", err)
		return domain.AddressInfo{}, false
	}

	if len(decoded.Features) == 0 {
		return domain.AddressInfo{}, false
	}

	props := decoded.Features[0].Properties
	return domain.AddressInfo{
		Formatted: props.Label,
		Country:   props.Country,
		Region:    props.Region,
		Locality:  props.Locality,
		Street:    props.Street,
	}, true
}
