package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/geo"
	"meetpoint-service/internal/metrics"
	"meetpoint-service/internal/platform/obs"
	"meetpoint-service/internal/ports"
)

const (
	// Flat meters-to-degrees approximation (about 1 m at the equator).
	// Not latitude-corrected; the probe step stretches toward the poles.
	metersToDegrees = 0.000009
	// Radius floor (~11 m). The search converges once halving drops below it.
	minRadiusDeg = 0.0001
	// Location count above which clustering kicks in when the caller made
	// no explicit choice.
	defaultClusterThreshold = 20
)

// One probe direction, applied as a (lat, lng) offset scaled by the radius.
type probeDirection struct {
	name string
	dLat float64
	dLng float64
}

// Probed in this fixed order; the first strict improvement wins.
var probeDirections = [4]probeDirection{
	{"east", 0, 1},
	{"north", 1, 0},
	{"west", 0, -1},
	{"south", -1, 0},
}

// Searcher finds the point minimizing an aggregate travel-time objective
// over a weighted set of locations via coordinate descent.
//
// The search is single-threaded by design: every oracle call is a blocking
// request-response and each iteration's candidates depend on the previously
// accepted point. Cancellation is honored between iterations; a cancelled
// search returns only the context error, never a partial result.
type Searcher struct {
	Oracle           ports.RouteTimeProvider
	ClusterThreshold int
}

func NewSearcher(oracle ports.RouteTimeProvider) *Searcher {
	return &Searcher{Oracle: oracle, ClusterThreshold: defaultClusterThreshold}
}

// Run searches for the optimal gathering point for the given parallel
// coordinate/weight sequences. Input slices are never mutated.
func (s *Searcher) Run(ctx context.Context, coords []domain.Point, weights []float64, opts domain.SearchOptions) (_ *domain.SearchResult, err error) {
	defer obs.Time(ctx, "search.Run")(&err)

	opts = opts.Defaults()
	if err := validateInput(coords, weights, opts); err != nil {
		return nil, err
	}

	eval := Evaluator{Provider: s.Oracle}
	var logs []string

	// Preprocessing: reduce the location set for the descent only. The
	// original set stays authoritative for everything reported.
	searchCoords, searchWeights, info := s.preprocess(coords, weights, opts, &logs)

	start, err := geo.WeightedCentroid(searchCoords, searchWeights)
	if err != nil {
		return nil, fmt.Errorf("search: initial centroid: %w", err)
	}
	logs = append(logs, fmt.Sprintf("initial centroid (%.6f, %.6f)", start.Lat, start.Lng))

	current := start
	currentCost, priced, err := eval.Objective(ctx, opts.Algorithm, current, searchCoords, searchWeights)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if priced == 0 {
		return nil, fmt.Errorf("search: price initial point (%.6f, %.6f): %w", current.Lat, current.Lng, domain.ErrNoRouteAvailable)
	}
	logs = append(logs, fmt.Sprintf("initial cost %ds (%d/%d locations priced)", currentCost, priced, len(searchCoords)))

	radius := float64(opts.SearchStepM) * metersToDegrees
	logs = append(logs, fmt.Sprintf("search step %dm (radius %.6f deg)", opts.SearchStepM, radius))

	iterations := 0
	for radius >= minRadiusDeg {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search: cancelled after %d iterations: %w", iterations, err)
		}

		iterations++
		improved := false

		for _, dir := range probeDirections {
			candidate := domain.Point{
				Lat: current.Lat + dir.dLat*radius,
				Lng: current.Lng + dir.dLng*radius,
			}.Round()

			cost, priced, err := eval.Objective(ctx, opts.Algorithm, candidate, searchCoords, searchWeights)
			if err != nil {
				return nil, fmt.Errorf("search: %w", err)
			}
			// A candidate no location can be priced from is unusable, not
			// free: skip it instead of accepting a bogus zero cost.
			if priced == 0 {
				logs = append(logs, fmt.Sprintf("iteration %d: %s candidate unreachable, skipped", iterations, dir.name))
				continue
			}

			if cost < currentCost {
				logs = append(logs, fmt.Sprintf("iteration %d: moved %s, cost %ds -> %ds", iterations, dir.name, currentCost, cost))
				current = candidate
				currentCost = cost
				improved = true
				break
			}
		}

		// No direction improved: close in by halving the probe radius.
		if !improved {
			radius /= 2
		}
	}

	logs = append(logs, fmt.Sprintf("converged after %d iterations at (%.6f, %.6f)", iterations, current.Lat, current.Lng))
	metrics.SearchIterations.Observe(float64(iterations))

	return s.assemble(ctx, eval, current, coords, weights, opts, info, iterations, logs)
}

// RunLocations is a convenience wrapper splitting Location values into the
// parallel sequences Run consumes and carrying identifiers into the
// per-location report.
func (s *Searcher) RunLocations(ctx context.Context, locations []domain.Location, opts domain.SearchOptions) (*domain.SearchResult, error) {
	coords := make([]domain.Point, len(locations))
	weights := make([]float64, len(locations))
	for i, l := range locations {
		coords[i] = l.Coord
		weights[i] = l.Weight
	}

	res, err := s.Run(ctx, coords, weights, opts)
	if err != nil {
		return nil, err
	}

	for i := range res.Individual {
		res.Individual[i].ID = locations[res.Individual[i].Index].ID
	}
	return res, nil
}

func validateInput(coords []domain.Point, weights []float64, opts domain.SearchOptions) error {
	if len(coords) == 0 {
		return fmt.Errorf("search: %w", domain.ErrEmptyInput)
	}
	if len(coords) != len(weights) {
		return fmt.Errorf("search: %d locations, %d weights: %w", len(coords), len(weights), domain.ErrLengthMismatch)
	}
	for i, w := range weights {
		if w <= 0 {
			return fmt.Errorf("search: weight %g at index %d: %w", w, i, domain.ErrInvalidWeight)
		}
	}
	if opts.SearchStepM <= 0 {
		return fmt.Errorf("search: step %dm: %w", opts.SearchStepM, domain.ErrInvalidStep)
	}
	switch opts.Algorithm {
	case domain.AlgorithmWeightedSum, domain.AlgorithmMinMax:
	default:
		return fmt.Errorf("search: %q: %w", opts.Algorithm, domain.ErrUnknownAlgorithm)
	}
	switch opts.Clustering {
	case domain.ClusteringAuto, domain.ClusteringNone, domain.ClusteringDensity, domain.ClusteringCapacity:
	default:
		return fmt.Errorf("search: %q: %w", opts.Clustering, domain.ErrUnknownClustering)
	}
	return nil
}

// preprocess applies the clustering strategy, returning the (possibly
// reduced) coordinate/weight sequences the descent runs over and the
// clustering metadata for the result. Degenerate inputs fall back to a
// pass-through, never a hard failure.
func (s *Searcher) preprocess(coords []domain.Point, weights []float64, opts domain.SearchOptions, logs *[]string) ([]domain.Point, []float64, *domain.ClusteringInfo) {
	method := opts.Clustering

	threshold := s.ClusterThreshold
	if threshold <= 0 {
		threshold = defaultClusterThreshold
	}
	// Auto-enable clustering only when the caller made no choice at all;
	// an explicit "none" always wins.
	if method == domain.ClusteringAuto {
		method = domain.ClusteringNone
		if len(coords) > threshold {
			method = domain.ClusteringDensity
			*logs = append(*logs, fmt.Sprintf("%d locations exceed threshold %d, density clustering enabled", len(coords), threshold))
		}
	}

	var virtual []domain.VirtualLocation
	param := opts.ClusteringParam
	switch method {
	case domain.ClusteringDensity:
		if param <= 0 {
			param = defaultMinClusterSize
		}
		virtual = DensityCluster(coords, weights, param)
	case domain.ClusteringCapacity:
		if param <= 0 {
			param = defaultMaxClusterSize
		}
		virtual = CapacityCluster(coords, weights, param)
	default:
		return coords, weights, nil
	}

	vc := make([]domain.Point, len(virtual))
	vw := make([]float64, len(virtual))
	for i, v := range virtual {
		vc[i] = v.Coord
		vw[i] = v.Weight
	}

	*logs = append(*logs, fmt.Sprintf("%s clustering: %d locations -> %d virtual locations (param %d)", method, len(coords), len(virtual), param))

	return vc, vw, &domain.ClusteringInfo{
		Method:         method,
		Param:          param,
		OriginalPoints: len(coords),
		Clusters:       len(virtual),
	}
}

// assemble recomputes all reported figures against the original location
// set and packages the result. The reverse-geocode enrichment is best
// effort and can only add information, never fail the search.
func (s *Searcher) assemble(
	ctx context.Context,
	eval Evaluator,
	point domain.Point,
	coords []domain.Point,
	weights []float64,
	opts domain.SearchOptions,
	info *domain.ClusteringInfo,
	iterations int,
	logs []string,
) (*domain.SearchResult, error) {
	totalTime, _, err := eval.Objective(ctx, opts.Algorithm, point, coords, weights)
	if err != nil {
		return nil, fmt.Errorf("assemble result: %w", err)
	}
	pureTotal, _ := eval.PureTotal(ctx, point, coords)

	times := eval.resolveTimes(ctx, point, coords)
	individual := make([]domain.LocationTime, len(coords))
	for i, c := range coords {
		lt := domain.LocationTime{Index: i, Coord: c, Weight: weights[i]}
		if sec, ok := times[i]; ok {
			lt.Seconds = sec
			lt.Available = true
		}
		individual[i] = lt
	}

	res := &domain.SearchResult{
		SearchID:      uuid.NewString(),
		OptimalPoint:  point,
		TotalTime:     totalTime,
		PureTotalTime: pureTotal,
		Individual:    individual,
		Clustering:    info,
		Iterations:    iterations,
		Logs:          logs,
		FinishedAt:    time.Now().UTC(),
	}

	if rg, ok := s.Oracle.(ports.ReverseGeocoder); ok {
		if addr, ok := rg.ReverseGeocode(ctx, point); ok {
			res.Address = &addr
		}
	}

	return res, nil
}
