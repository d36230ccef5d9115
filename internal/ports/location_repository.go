package ports

import (
	"context"

	"meetpoint-service/internal/domain"
)

// A named, persisted set of weighted locations.
type LocationSet struct {
	SetID     string
	Name      string
	Locations []domain.Location
}

// Port: a boundary for storing and retrieving location sets.
type LocationRepository interface {
	// Retrieve all stored location sets.
	ListSets(ctx context.Context) ([]LocationSet, error)
	// Retrieve one set by id.
	GetSet(ctx context.Context, setID string) (LocationSet, error)
	// Persist a new set and return it with its assigned id.
	CreateSet(ctx context.Context, name string, locations []domain.Location) (LocationSet, error)
}
