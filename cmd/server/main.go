package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"meetpoint-service/internal/adapters/cache"
	"meetpoint-service/internal/adapters/repositories"
	"meetpoint-service/internal/adapters/route"
	"meetpoint-service/internal/api"
	"meetpoint-service/internal/config"
	"meetpoint-service/internal/metrics"
	"meetpoint-service/internal/platform/db"
	"meetpoint-service/internal/ports"
	"meetpoint-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS/Google) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	port := config.Get("PORT", fallback(cfg.Port, "8080"))
	databaseURL := config.Get("DATABASE_URL", cfg.DatabaseURL)
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	metrics.RegisterDefault()

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	// Initialize schema on startup for local runs.
	if err := repositories.InitSchema(pg); err != nil {
		log.Fatal(err)
	}

	routeCache, err := buildRouteCache(cfg, pg)
	if err != nil {
		log.Fatal(err)
	}

	oracle, err := buildOracle(cfg, routeCache)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewPGLocationRepository(pg)
	searcher := services.NewSearcher(oracle)
	router := api.NewRouter(searcher, repo)

	// Timeouts are tuned for cold-cache searches (many external API calls
	// per descent iteration).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// buildRouteCache selects the route-time cache backend: Redis with TTL when
// configured, the Postgres table otherwise.
func buildRouteCache(cfg config.File, pg *sql.DB) (ports.RouteTimeCache, error) {
	backend := config.Get("CACHE_BACKEND", fallback(cfg.CacheBackend, "postgres"))

	switch backend {
	case "postgres":
		return cache.NewPGRouteCache(pg), nil
	case "redis":
		addr := config.Get("REDIS_ADDR", fallback(cfg.RedisAddr, "localhost:6379"))
		client := redis.NewClient(&redis.Options{Addr: addr})

		ttl := time.Duration(cfg.CacheTTLHours) * time.Hour
		if v := os.Getenv("CACHE_TTL_HOURS"); v != "" {
			hours, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("parse CACHE_TTL_HOURS: %w", err)
			}
			ttl = time.Duration(hours) * time.Hour
		}
		return cache.NewRedisRouteCache(client, ttl), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// buildOracle selects the routing backend and applies the rate-limit
// decorator when a request budget is configured.
func buildOracle(cfg config.File, routeCache ports.RouteTimeCache) (ports.RouteTimeProvider, error) {
	backend := config.Get("ORACLE_BACKEND", fallback(cfg.OracleBackend, "ors"))

	var (
		oracle ports.RouteTimeProvider
		err    error
	)
	switch backend {
	case "ors":
		key := os.Getenv("ORS_API_KEY")
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("ORS_API_KEY is required for the ors backend")
		}
		oracle, err = route.NewORSOracle(key, routeCache)
	case "google":
		key := os.Getenv("GOOGLE_MAPS_API_KEY")
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is required for the google backend")
		}
		oracle, err = route.NewGoogleOracle(key, routeCache)
	default:
		return nil, fmt.Errorf("unknown oracle backend %q", backend)
	}
	if err != nil {
		return nil, err
	}

	rps := cfg.OracleRPS
	if v := os.Getenv("ORACLE_RPS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse ORACLE_RPS: %w", err)
		}
		rps = parsed
	}
	if rps > 0 {
		oracle = route.NewRateLimited(oracle, rps, rps)
	}

	return oracle, nil
}
