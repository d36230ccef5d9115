package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"meetpoint-service/internal/api/dto"
	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/ports"
	"meetpoint-service/internal/services"
)

// SearchHandler runs the gathering-point search over an inline location
// list or a stored location set.
type SearchHandler struct {
	Searcher *services.Searcher
	Repo     ports.LocationRepository
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SearchRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	locations, errMsg := h.resolveLocations(r, req)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	opts := domain.SearchOptions{
		Clustering:      domain.ClusteringMethod(strings.TrimSpace(req.Clustering)),
		ClusteringParam: req.ClusteringParam,
		SearchStepM:     req.SearchStepMeters,
		Algorithm:       domain.AlgorithmType(strings.TrimSpace(req.Algorithm)),
	}

	result, err := h.Searcher.RunLocations(r.Context(), locations, opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyInput),
			errors.Is(err, domain.ErrLengthMismatch),
			errors.Is(err, domain.ErrInvalidWeight),
			errors.Is(err, domain.ErrInvalidStep),
			errors.Is(err, domain.ErrUnknownAlgorithm),
			errors.Is(err, domain.ErrUnknownClustering):
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNoRouteAvailable):
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			log.Printf("search failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, toSearchResponse(result))
}

// resolveLocations builds the location list from the request, preferring
// the inline list over a stored set reference.
func (h *SearchHandler) resolveLocations(r *http.Request, req dto.SearchRequest) ([]domain.Location, string) {
	if len(req.Locations) > 0 {
		locations := make([]domain.Location, 0, len(req.Locations))
		for _, l := range req.Locations {
			weight := 1.0
			if l.Weight != nil {
				weight = *l.Weight
			}
			locations = append(locations, domain.Location{
				ID:     l.ID,
				Coord:  domain.Point{Lat: l.Lat, Lng: l.Lng},
				Weight: weight,
			})
		}
		return locations, ""
	}

	if strings.TrimSpace(req.SetID) == "" {
		return nil, "locations or set_id is required"
	}
	if h.Repo == nil {
		return nil, "stored location sets are not configured"
	}

	set, err := h.Repo.GetSet(r.Context(), req.SetID)
	if err != nil {
		log.Printf("get location set failed: %v", err)
		return nil, "unknown set_id"
	}
	return set.Locations, ""
}

func toSearchResponse(res *domain.SearchResult) dto.SearchResponse {
	individual := make([]dto.LocationTimeResponse, 0, len(res.Individual))
	for _, lt := range res.Individual {
		entry := dto.LocationTimeResponse{
			Index:     lt.Index,
			ID:        lt.ID,
			Coord:     dto.PointResponse{Lat: lt.Coord.Lat, Lng: lt.Coord.Lng},
			Weight:    lt.Weight,
			Available: lt.Available,
		}
		if lt.Available {
			sec := lt.Seconds
			entry.Seconds = &sec
		}
		individual = append(individual, entry)
	}

	out := dto.SearchResponse{
		SearchID:      res.SearchID,
		OptimalPoint:  dto.PointResponse{Lat: res.OptimalPoint.Lat, Lng: res.OptimalPoint.Lng},
		TotalTime:     res.TotalTime,
		PureTotalTime: res.PureTotalTime,
		Individual:    individual,
		Iterations:    res.Iterations,
		Logs:          res.Logs,
		FinishedAt:    res.FinishedAt,
	}

	if res.Clustering != nil {
		out.Clustering = &dto.ClusteringResponse{
			Method:         string(res.Clustering.Method),
			Param:          res.Clustering.Param,
			OriginalPoints: res.Clustering.OriginalPoints,
			Clusters:       res.Clustering.Clusters,
		}
	}
	if res.Address != nil {
		out.Address = &dto.AddressResponse{
			Formatted: res.Address.Formatted,
			Country:   res.Address.Country,
			Region:    res.Address.Region,
			Locality:  res.Address.Locality,
			Street:    res.Address.Street,
		}
	}

	return out
}
