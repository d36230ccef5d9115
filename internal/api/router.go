package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meetpoint-service/internal/api/handlers"
	"meetpoint-service/internal/metrics"
	"meetpoint-service/internal/ports"
	"meetpoint-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(searcher *services.Searcher, repo ports.LocationRepository) http.Handler {
	mux := http.NewServeMux()

	searchHandler := &handlers.SearchHandler{Searcher: searcher, Repo: repo}
	locationHandler := &handlers.LocationHandler{Repo: repo}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/search", searchHandler.Search)
	mux.HandleFunc("/locations", locationHandler.Sets)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
