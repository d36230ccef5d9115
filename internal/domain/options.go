package domain

// Objective minimized by the search.
type AlgorithmType string

const (
	// Minimize the weight-scaled sum of travel times.
	AlgorithmWeightedSum AlgorithmType = "weighted_sum"
	// Minimize the longest single travel time.
	AlgorithmMinMax AlgorithmType = "min_max"
)

// Clustering strategy applied before the search. The empty value means the
// caller made no choice, which lets the engine auto-enable clustering for
// large inputs; ClusteringNone disables it explicitly.
type ClusteringMethod string

const (
	ClusteringAuto     ClusteringMethod = ""
	ClusteringNone     ClusteringMethod = "none"
	ClusteringDensity  ClusteringMethod = "density"
	ClusteringCapacity ClusteringMethod = "capacity"
)

// SearchOptions control one search invocation. The zero value is not
// usable; apply Defaults before validation.
type SearchOptions struct {
	Clustering      ClusteringMethod
	ClusteringParam int
	SearchStepM     int
	Algorithm       AlgorithmType
}

// Defaults fills unset option fields with the engine defaults. Clustering
// is left alone: unset and explicit "none" mean different things.
func (o SearchOptions) Defaults() SearchOptions {
	if o.SearchStepM == 0 {
		o.SearchStepM = 100
	}
	if o.Algorithm == "" {
		o.Algorithm = AlgorithmWeightedSum
	}
	return o
}
