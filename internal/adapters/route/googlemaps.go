package route

import (
	"context"
	"fmt"
	"log"
	"math"

	maps "googlemaps.github.io/maps"

	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/metrics"
	"meetpoint-service/internal/ports"
)

// GoogleOracle implements the routing oracle on the Google Maps Platform
// (Distance Matrix for travel times, Geocoding for reverse lookup).
// Coordinate conventions of the provider stay private to this adapter.
type GoogleOracle struct {
	client *maps.Client
	cache  ports.RouteTimeCache
}

func NewGoogleOracle(apiKey string, cache ports.RouteTimeCache) (*GoogleOracle, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("google oracle: new client: %w", err)
	}
	return &GoogleOracle{client: client, cache: cache}, nil
}

func (g *GoogleOracle) RouteTime(ctx context.Context, origin, destination domain.Point) (int, bool) {
	results := g.RouteTimes(ctx, origin, []domain.Point{destination})
	s, ok := results[destination.Round()]
	return s, ok
}

// RouteTimes resolves travel times through one Distance Matrix call per
// origin. Elements the provider cannot price are left unknown.
func (g *GoogleOracle) RouteTimes(ctx context.Context, origin domain.Point, destinations []domain.Point) map[domain.Point]int {
	origin = origin.Round()

	seen := make(map[domain.Point]struct{}, len(destinations))
	destList := make([]domain.Point, 0, len(destinations))
	for _, d := range destinations {
		d = d.Round()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		destList = append(destList, d)
	}

	out := make(map[domain.Point]int, len(destList))
	if len(destList) == 0 {
		return out
	}

	misses := destList
	if g.cache != nil {
		hits, err := g.cache.GetMany(ctx, origin, destList)
		if err != nil {
			log.Printf("route cache read failed: %v", err)
		} else {
			misses = make([]domain.Point, 0, len(destList))
			for _, d := range destList {
				if s, ok := hits[d]; ok {
					metrics.CacheLookups.WithLabelValues("google", "hit").Inc()
					out[d] = s
				} else {
					metrics.CacheLookups.WithLabelValues("google", "miss").Inc()
					misses = append(misses, d)
				}
			}
		}
	}

	if len(misses) == 0 {
		return out
	}

	destStrs := make([]string, len(misses))
	for i, d := range misses {
		destStrs[i] = fmt.Sprintf("%.6f,%.6f", d.Lat, d.Lng)
	}

	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%.6f,%.6f", origin.Lat, origin.Lng)},
		Destinations: destStrs,
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		metrics.OracleCalls.WithLabelValues("google", "error").Inc()
		log.Printf("google distance matrix failed origin=(%.6f,%.6f): %v", origin.Lat, origin.Lng, err)
		return out
	}
	metrics.OracleCalls.WithLabelValues("google", "ok").Inc()

	if len(resp.Rows) != 1 || len(resp.Rows[0].Elements) != len(misses) {
		log.Printf("google distance matrix shape mismatch: rows=%d", len(resp.Rows))
		return out
	}

	fetched := make(map[domain.Point]int, len(misses))
	for i, el := range resp.Rows[0].Elements {
		if el.Status != "OK" {
			continue
		}
		fetched[misses[i]] = int(math.Round(el.Duration.Seconds()))
	}

	if g.cache != nil && len(fetched) > 0 {
		if err := g.cache.PutMany(ctx, origin, fetched); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	for k, v := range fetched {
		out[k] = v
	}
	return out
}

// ReverseGeocode resolves the nearest address for a point. Best effort.
func (g *GoogleOracle) ReverseGeocode(ctx context.Context, p domain.Point) (domain.AddressInfo, bool) {
	p = p.Round()

	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
	})
	if err != nil || len(results) == 0 {
		return domain.AddressInfo{}, false
	}

	info := domain.AddressInfo{Formatted: results[0].FormattedAddress}
	for _, comp := range results[0].AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "country":
				info.Country = comp.LongName
			case "administrative_area_level_1":
				info.Region = comp.LongName
			case "locality":
				info.Locality = comp.LongName
			case "route":
				info.Street = comp.LongName
			}
		}
	}
	return info, true
}
