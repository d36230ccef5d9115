package route

import (
	"context"

	"golang.org/x/time/rate"

	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/ports"
)

// RateLimited wraps a routing oracle with a global request rate limit.
// Providers that enforce a per-key QPS quota get their calls serialized
// here instead of tripping 429s; the decorator composes with any oracle
// and stays invisible to the search core.
type RateLimited struct {
	inner   ports.RouteTimeProvider
	limiter *rate.Limiter
}

func NewRateLimited(inner ports.RouteTimeProvider, rps int, burst int) *RateLimited {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = rps
	}
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimited) RouteTime(ctx context.Context, origin, destination domain.Point) (int, bool) {
	if err := r.limiter.Wait(ctx); err != nil {
		return 0, false
	}
	return r.inner.RouteTime(ctx, origin, destination)
}

// One batched call consumes one token regardless of fan-out: providers
// meter matrix requests, not matrix cells.
func (r *RateLimited) RouteTimes(ctx context.Context, origin domain.Point, destinations []domain.Point) map[domain.Point]int {
	bp, ok := r.inner.(ports.RouteTimeBatchProvider)
	if !ok {
		out := make(map[domain.Point]int, len(destinations))
		for _, d := range destinations {
			if s, ok := r.RouteTime(ctx, origin, d); ok {
				out[d.Round()] = s
			}
		}
		return out
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return map[domain.Point]int{}
	}
	return bp.RouteTimes(ctx, origin, destinations)
}

// ReverseGeocode passes through when the wrapped oracle supports it.
func (r *RateLimited) ReverseGeocode(ctx context.Context, p domain.Point) (domain.AddressInfo, bool) {
	rg, ok := r.inner.(ports.ReverseGeocoder)
	if !ok {
		return domain.AddressInfo{}, false
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.AddressInfo{}, false
	}
	return rg.ReverseGeocode(ctx, p)
}
