package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/platform/obs"
)

// PGRouteCache is a Postgres-backed cache of origin->destination travel
// times keyed by rounded coordinate pairs.
type PGRouteCache struct {
	DB *sql.DB
}

func NewPGRouteCache(db *sql.DB) *PGRouteCache {
	return &PGRouteCache{DB: db}
}

// Fetch cached travel times for one origin and multiple destinations.
func (s *PGRouteCache) GetMany(
	ctx context.Context,
	origin domain.Point,
	destinations []domain.Point,
) (_ map[domain.Point]int, err error) {
	defer obs.Time(ctx, "route.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}

	if len(destinations) == 0 {
		return map[domain.Point]int{}, nil
	}

	byKey := make(map[string]domain.Point, len(destinations))
	uniq := make([]string, 0, len(destinations))
	for _, d := range destinations {
		k := coordKey(d)
		if _, ok := byKey[k]; ok {
			continue
		}
		byKey[k] = d
		uniq = append(uniq, k)
	}

	q := `
	SELECT destination, duration_seconds
    FROM route_time_cache
    WHERE origin = $1
        AND destination = ANY($2::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, coordKey(origin), uniq)
	if err != nil {
		return nil, fmt.Errorf("get route cache: query route_time_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.Point]int, len(uniq))
	for rows.Next() {
		var dest string
		var seconds int
		if err := rows.Scan(&dest, &seconds); err != nil {
			return nil, fmt.Errorf("get route cache: scan rows: %w", err)
		}
		if p, ok := byKey[dest]; ok {
			out[p] = seconds
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get route cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many cached travel times for a single origin.
func (s *PGRouteCache) PutMany(
	ctx context.Context,
	origin domain.Point,
	results map[domain.Point]int,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert route cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_time_cache (origin, destination, duration_seconds)
    VALUES ($1, $2, $3)
	ON CONFLICT (origin, destination) DO UPDATE
	SET duration_seconds = EXCLUDED.duration_seconds;
	`)
	if err != nil {
		return fmt.Errorf("insert route cache: db prepare: %w", err)
	}
	defer stmt.Close()

	originKey := coordKey(origin)
	for dest, seconds := range results {
		if _, err := stmt.ExecContext(ctx, originKey, coordKey(dest), seconds); err != nil {
			return fmt.Errorf("insert route cache dest=%q: %w", coordKey(dest), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert route cache commit: %w", err)
	}

	return nil
}
