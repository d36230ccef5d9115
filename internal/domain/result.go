package domain

import "time"

// Travel time from the optimal point to one original location.
// Available is false when the routing oracle could not price the leg;
// such entries are reported as-is, never defaulted to zero or dropped.
type LocationTime struct {
	Index     int
	ID        string
	Coord     Point
	Weight    float64
	Seconds   int
	Available bool
}

// Metadata about the clustering pass, present only when clustering ran.
type ClusteringInfo struct {
	Method         ClusteringMethod
	Param          int
	OriginalPoints int
	Clusters       int
}

// Reverse-geocoded address metadata for the optimal point. Best effort:
// any field may be empty.
type AddressInfo struct {
	Formatted string
	Country   string
	Region    string
	Locality  string
	Street    string
}

// SearchResult is the immutable outcome of one search invocation.
// TotalTime is measured under the search objective; PureTotalTime is the
// unweighted sum and exists purely for human-readable reporting. Both are
// always recomputed against the original, unclustered location set.
type SearchResult struct {
	SearchID      string
	OptimalPoint  Point
	TotalTime     int
	PureTotalTime int
	Individual    []LocationTime
	Clustering    *ClusteringInfo
	Iterations    int
	Logs          []string
	Address       *AddressInfo
	FinishedAt    time.Time
}
