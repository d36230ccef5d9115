package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"meetpoint-service/internal/api/dto"
	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/ports"
)

// recordingLocationRepository accepts any create and echoes it back with a
// fixed id.
type recordingLocationRepository struct {
	stubLocationRepository
	created *ports.LocationSet
}

func (r *recordingLocationRepository) CreateSet(ctx context.Context, name string, locations []domain.Location) (ports.LocationSet, error) {
	set := ports.LocationSet{SetID: "set-1", Name: name, Locations: locations}
	r.created = &set
	return set, nil
}

func TestLocationHandlerList(t *testing.T) {
	h := &LocationHandler{Repo: &stubLocationRepository{set: ports.LocationSet{
		SetID: "set-1",
		Name:  "Branch offices",
		Locations: []domain.Location{
			{ID: "nyc", Coord: domain.Point{Lat: 40.712776, Lng: -74.005974}, Weight: 3},
		},
	}}}

	rr := httptest.NewRecorder()
	h.Sets(rr, httptest.NewRequest(http.MethodGet, "/locations", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp dto.ListLocationSetsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Sets) != 1 || resp.Sets[0].Name != "Branch offices" {
		t.Fatalf("sets = %+v", resp.Sets)
	}
	if len(resp.Sets[0].Locations) != 1 || resp.Sets[0].Locations[0].Weight != 3 {
		t.Fatalf("locations = %+v", resp.Sets[0].Locations)
	}
}

func TestLocationHandlerCreate(t *testing.T) {
	repo := &recordingLocationRepository{}
	h := &LocationHandler{Repo: repo}

	body := `{"name":"Branch offices","locations":[{"id":"nyc","lat":40.7,"lng":-74.0,"weight":2},{"lat":40.8,"lng":-73.9}]}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/locations", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	h.Sets(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	if repo.created == nil || len(repo.created.Locations) != 2 {
		t.Fatalf("created = %+v", repo.created)
	}
	// Second location had no weight, defaulting to 1.
	if repo.created.Locations[1].Weight != 1 {
		t.Fatalf("default weight = %g, want 1", repo.created.Locations[1].Weight)
	}

	var resp dto.LocationSetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SetID != "set-1" {
		t.Fatalf("set id = %q", resp.SetID)
	}
}

func TestLocationHandlerCreateValidation(t *testing.T) {
	h := &LocationHandler{Repo: &recordingLocationRepository{}}

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"locations":[{"lat":40,"lng":-73}]}`},
		{"empty locations", `{"name":"x","locations":[]}`},
		{"non-positive weight", `{"name":"x","locations":[{"lat":40,"lng":-73,"weight":0}]}`},
		{"malformed json", `{"name":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/locations", bytes.NewReader([]byte(tc.body)))
			h.Sets(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestLocationHandlerMethodNotAllowed(t *testing.T) {
	h := &LocationHandler{Repo: &recordingLocationRepository{}}

	rr := httptest.NewRecorder()
	h.Sets(rr, httptest.NewRequest(http.MethodDelete, "/locations", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rr.Code)
	}
}
