package ports

import (
	"context"

	"meetpoint-service/internal/domain"
)

// RouteTimeProvider is the routing oracle consumed by the search engine.
//
// An oracle call either succeeds with a travel time or reports the pair as
// unknown (ok=false). Unknown is the expected outcome of provider failure,
// not an exception: the engine never aborts a whole search over a single
// failed lookup. Retry and rate-limit handling belong to implementations
// (or decorators), never to the search core.
type RouteTimeProvider interface {
	// Return driving time in whole seconds between two points.
	RouteTime(ctx context.Context, origin, destination domain.Point) (seconds int, ok bool)
}

// Optional extension of RouteTimeProvider supporting batched lookups from
// one origin to many destinations. Callers detect it via type assertion and
// fall back to per-pair calls when absent. A destination missing from the
// returned map is unknown.
type RouteTimeBatchProvider interface {
	RouteTimeProvider
	RouteTimes(ctx context.Context, origin domain.Point, destinations []domain.Point) map[domain.Point]int
}

// Optional reverse-lookup capability, used once per search to attach a
// human-readable address to the final point. Best effort only.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, p domain.Point) (domain.AddressInfo, bool)
}
