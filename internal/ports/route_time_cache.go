package ports

import (
	"context"

	"meetpoint-service/internal/domain"
)

// Port: a persistent cache of origin->destination travel times in seconds.
// Keys are 6-decimal-rounded coordinate pairs; callers are expected to
// round before lookup so repeated probes of the same candidate hit.
type RouteTimeCache interface {
	// Fetch cached seconds for one origin and multiple destinations.
	// Absent pairs are simply missing from the result map.
	GetMany(ctx context.Context, origin domain.Point, destinations []domain.Point) (map[domain.Point]int, error)
	// Store travel times for a single origin.
	PutMany(ctx context.Context, origin domain.Point, results map[domain.Point]int) error
}
