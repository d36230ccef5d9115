package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/ports"
)

// Postgres-backed implementation of the LocationRepository port.
type PGLocationRepository struct{ DB *sql.DB }

func NewPGLocationRepository(db *sql.DB) *PGLocationRepository {
	return &PGLocationRepository{DB: db}
}

// Return all stored location sets with their member locations.
func (s *PGLocationRepository) ListSets(ctx context.Context) ([]ports.LocationSet, error) {
	if s.DB == nil {
		return nil, errors.New("location repository: DB is nil")
	}

	query := `
	SELECT set_id, name
	FROM location_sets
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list location sets: query location_sets table: %w", err)
	}
	defer rows.Close()

	sets := make([]ports.LocationSet, 0, 16)
	for rows.Next() {
		var set ports.LocationSet
		if err := rows.Scan(&set.SetID, &set.Name); err != nil {
			return nil, fmt.Errorf("list location sets: scan row: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list location sets: row iteration: %w", err)
	}

	for i := range sets {
		locs, err := s.listLocations(ctx, sets[i].SetID)
		if err != nil {
			return nil, fmt.Errorf("list location sets: %w", err)
		}
		sets[i].Locations = locs
	}

	return sets, nil
}

// Return one location set by id.
func (s *PGLocationRepository) GetSet(ctx context.Context, setID string) (ports.LocationSet, error) {
	if s.DB == nil {
		return ports.LocationSet{}, errors.New("location repository: DB is nil")
	}

	var set ports.LocationSet
	query := `SELECT set_id, name FROM location_sets WHERE set_id = $1;`
	err := s.DB.QueryRowContext(ctx, query, setID).Scan(&set.SetID, &set.Name)
	if err != nil {
		return ports.LocationSet{}, fmt.Errorf("get location set %q: %w", setID, err)
	}

	locs, err := s.listLocations(ctx, set.SetID)
	if err != nil {
		return ports.LocationSet{}, fmt.Errorf("get location set %q: %w", setID, err)
	}
	set.Locations = locs

	return set, nil
}

// Persist a new location set and return it with its assigned id.
func (s *PGLocationRepository) CreateSet(ctx context.Context, name string, locations []domain.Location) (ports.LocationSet, error) {
	if s.DB == nil {
		return ports.LocationSet{}, errors.New("location repository: DB is nil")
	}

	setID := uuid.NewString()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return ports.LocationSet{}, fmt.Errorf("create location set: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO location_sets (set_id, name) VALUES ($1, $2);`,
		setID, name,
	); err != nil {
		return ports.LocationSet{}, fmt.Errorf("create location set: insert set: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO locations (set_id, location_id, lat, lng, weight)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return ports.LocationSet{}, fmt.Errorf("create location set: db prepare: %w", err)
	}
	defer stmt.Close()

	stored := make([]domain.Location, 0, len(locations))
	for i, l := range locations {
		id := l.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, setID, id, l.Coord.Lat, l.Coord.Lng, l.Weight); err != nil {
			return ports.LocationSet{}, fmt.Errorf("create location set: insert location #%d: %w", i+1, err)
		}
		stored = append(stored, domain.Location{ID: id, Coord: l.Coord, Weight: l.Weight})
	}

	if err := tx.Commit(); err != nil {
		return ports.LocationSet{}, fmt.Errorf("create location set: commit: %w", err)
	}

	return ports.LocationSet{SetID: setID, Name: name, Locations: stored}, nil
}

func (s *PGLocationRepository) listLocations(ctx context.Context, setID string) ([]domain.Location, error) {
	query := `
	SELECT location_id, lat, lng, weight
	FROM locations
	WHERE set_id = $1
	ORDER BY location_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, setID)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	locs := make([]domain.Location, 0, 32)
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Coord.Lat, &l.Coord.Lng, &l.Weight); err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}
		locs = append(locs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return locs, nil
}
