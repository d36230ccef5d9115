package dto

import "time"

type LocationInput struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	// Omitted weight defaults to 1.0. An explicit non-positive weight is
	// rejected, never repaired.
	Weight *float64 `json:"weight"`
}

type SearchRequest struct {
	// Either an inline location list or the id of a stored set.
	Locations []LocationInput `json:"locations"`
	SetID     string          `json:"set_id"`

	Clustering       string `json:"clustering"`
	ClusteringParam  int    `json:"clustering_param"`
	SearchStepMeters int    `json:"search_step_meters"`
	Algorithm        string `json:"algorithm"`
}

type PointResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type LocationTimeResponse struct {
	Index     int           `json:"index"`
	ID        string        `json:"id,omitempty"`
	Coord     PointResponse `json:"coord"`
	Weight    float64       `json:"weight"`
	Seconds   *int          `json:"seconds"`
	Available bool          `json:"available"`
}

type ClusteringResponse struct {
	Method         string `json:"method"`
	Param          int    `json:"param"`
	OriginalPoints int    `json:"original_points"`
	Clusters       int    `json:"clusters"`
}

type AddressResponse struct {
	Formatted string `json:"formatted"`
	Country   string `json:"country,omitempty"`
	Region    string `json:"region,omitempty"`
	Locality  string `json:"locality,omitempty"`
	Street    string `json:"street,omitempty"`
}

type SearchResponse struct {
	SearchID      string                 `json:"search_id"`
	OptimalPoint  PointResponse          `json:"optimal_point"`
	TotalTime     int                    `json:"total_time_seconds"`
	PureTotalTime int                    `json:"pure_total_time_seconds"`
	Individual    []LocationTimeResponse `json:"individual_times"`
	Clustering    *ClusteringResponse    `json:"clustering,omitempty"`
	Iterations    int                    `json:"iterations"`
	Logs          []string               `json:"logs"`
	Address       *AddressResponse       `json:"address,omitempty"`
	FinishedAt    time.Time              `json:"finished_at"`
}
