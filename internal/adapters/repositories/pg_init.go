package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSetsQuery := `
	CREATE TABLE IF NOT EXISTS location_sets (
		set_id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);
	`

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		set_id TEXT NOT NULL REFERENCES location_sets(set_id) ON DELETE CASCADE,
		location_id TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (set_id, location_id)
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_time_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        duration_seconds INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_time_cache_destination_origin
    ON route_time_cache(destination, origin);
	`

	statements := []string{
		createSetsQuery,
		createLocationsQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type LocationSeed struct {
	ID     string  `json:"id"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight float64 `json:"weight"`
}

type SetSeed struct {
	SetID     string         `json:"set_id"`
	Name      string         `json:"name"`
	Locations []LocationSeed `json:"locations"`
}

// Populate the database with location sets from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed locations: read %q: %w", jsonPath, err)
	}

	var data []SetSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed locations: parse json: %w", err)
	}

	for i, set := range data {
		if strings.TrimSpace(set.SetID) == "" {
			return fmt.Errorf("seed locations: set at index %d: set_id cannot be empty", i+1)
		}
		if strings.TrimSpace(set.Name) == "" {
			return fmt.Errorf("seed locations: set %q: name cannot be empty", set.SetID)
		}
		for j, l := range set.Locations {
			if l.Weight <= 0 {
				return fmt.Errorf("seed locations: set %q location #%d: weight must be positive", set.SetID, j+1)
			}
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	setStmt, err := tx.Prepare(`
	INSERT INTO location_sets (set_id, name)
	VALUES ($1, $2)
	ON CONFLICT (set_id) DO UPDATE SET name = EXCLUDED.name;
	`)
	if err != nil {
		return fmt.Errorf("seed locations: prepare set insert: %w", err)
	}
	defer setStmt.Close()

	locStmt, err := tx.Prepare(`
	INSERT INTO locations (set_id, location_id, lat, lng, weight)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (set_id, location_id) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		weight = EXCLUDED.weight;
	`)
	if err != nil {
		return fmt.Errorf("seed locations: prepare location insert: %w", err)
	}
	defer locStmt.Close()

	for _, set := range data {
		if _, err := setStmt.Exec(set.SetID, set.Name); err != nil {
			return fmt.Errorf("seed locations: insert set %q: %w", set.SetID, err)
		}
		for j, l := range set.Locations {
			id := l.ID
			if id == "" {
				id = fmt.Sprintf("%s-%d", set.SetID, j+1)
			}
			if _, err := locStmt.Exec(set.SetID, id, l.Lat, l.Lng, l.Weight); err != nil {
				return fmt.Errorf("seed locations: insert location %q/%q: %w", set.SetID, id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed locations: commit tx: %w", err)
	}

	return nil
}
