package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"meetpoint-service/internal/api/dto"
	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/ports"
)

// LocationHandler exposes stored location set endpoints.
type LocationHandler struct {
	Repo ports.LocationRepository
}

func (h *LocationHandler) Sets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *LocationHandler) list(w http.ResponseWriter, r *http.Request) {
	sets, err := h.Repo.ListSets(r.Context())
	if err != nil {
		log.Printf("list location sets failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListLocationSetsResponse{
		Sets: make([]dto.LocationSetResponse, 0, len(sets)),
	}
	for _, s := range sets {
		res.Sets = append(res.Sets, toSetResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *LocationHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLocationSetRequest

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

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Locations) == 0 {
		writeError(w, r, http.StatusBadRequest, "locations must not be empty")
		return
	}

	locations := make([]domain.Location, 0, len(req.Locations))
	for _, l := range req.Locations {
		weight := 1.0
		if l.Weight != nil {
			weight = *l.Weight
		}
		if weight <= 0 {
			writeError(w, r, http.StatusBadRequest, "weights must be positive")
			return
		}
		locations = append(locations, domain.Location{
			ID:     l.ID,
			Coord:  domain.Point{Lat: l.Lat, Lng: l.Lng},
			Weight: weight,
		})
	}

	set, err := h.Repo.CreateSet(r.Context(), name, locations)
	if err != nil {
		log.Printf("create location set failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, toSetResponse(set))
}

func toSetResponse(s ports.LocationSet) dto.LocationSetResponse {
	locs := make([]dto.LocationResponse, 0, len(s.Locations))
	for _, l := range s.Locations {
		locs = append(locs, dto.LocationResponse{
			ID:     l.ID,
			Lat:    l.Coord.Lat,
			Lng:    l.Coord.Lng,
			Weight: l.Weight,
		})
	}
	return dto.LocationSetResponse{SetID: s.SetID, Name: s.Name, Locations: locs}
}
