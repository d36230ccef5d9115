package services

import (
	"context"
	"fmt"

	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/ports"
)

// Evaluator prices candidate points against a fixed set of target
// coordinates through the routing oracle.
//
// A lookup the oracle cannot price is skipped from sums and maxima rather
// than treated as infinite cost; this keeps the search moving under partial
// routing failures at the price of biased optima when failures are
// systematic. Callers that need to distinguish "cheap" from "unpriceable"
// must inspect the returned priced count, not the cost alone.
type Evaluator struct {
	Provider ports.RouteTimeProvider
}

// resolveTimes returns travel seconds from origin to each target, indexed by
// target position. Unknown pairs are absent. The batched oracle path is
// preferred when the provider supports it.
func (e Evaluator) resolveTimes(ctx context.Context, origin domain.Point, targets []domain.Point) map[int]int {
	origin = origin.Round()

	out := make(map[int]int, len(targets))

	if bp, ok := e.Provider.(ports.RouteTimeBatchProvider); ok {
		rounded := make([]domain.Point, len(targets))
		for i, t := range targets {
			rounded[i] = t.Round()
		}
		times := bp.RouteTimes(ctx, origin, rounded)
		for i, t := range rounded {
			if s, ok := times[t]; ok {
				out[i] = s
			}
		}
		return out
	}

	for i, t := range targets {
		if s, ok := e.Provider.RouteTime(ctx, origin, t.Round()); ok {
			out[i] = s
		}
	}
	return out
}

// WeightedTotal computes the weight-scaled sum of travel times from point
// to every target. It returns the cost in whole seconds and the number of
// targets the oracle could price.
func (e Evaluator) WeightedTotal(ctx context.Context, point domain.Point, targets []domain.Point, weights []float64) (int, int) {
	times := e.resolveTimes(ctx, point, targets)

	var total float64
	for i := range targets {
		s, ok := times[i]
		if !ok {
			continue
		}
		total += float64(s) * weights[i]
	}

	if total < 0 {
		total = 0
	}
	return int(total), len(times)
}

// MaxTime computes the longest single travel time from point to any target.
func (e Evaluator) MaxTime(ctx context.Context, point domain.Point, targets []domain.Point) (int, int) {
	times := e.resolveTimes(ctx, point, targets)

	max := 0
	for _, s := range times {
		if s > max {
			max = s
		}
	}
	return max, len(times)
}

// PureTotal computes the unweighted sum of travel times. It is evaluated
// once per search for human-readable reporting and never feeds back into
// search decisions.
func (e Evaluator) PureTotal(ctx context.Context, point domain.Point, targets []domain.Point) (int, int) {
	times := e.resolveTimes(ctx, point, targets)

	total := 0
	for _, s := range times {
		total += s
	}
	return total, len(times)
}

// Objective evaluates point under the given algorithm.
func (e Evaluator) Objective(ctx context.Context, alg domain.AlgorithmType, point domain.Point, targets []domain.Point, weights []float64) (int, int, error) {
	switch alg {
	case domain.AlgorithmWeightedSum:
		cost, priced := e.WeightedTotal(ctx, point, targets, weights)
		return cost, priced, nil
	case domain.AlgorithmMinMax:
		cost, priced := e.MaxTime(ctx, point, targets)
		return cost, priced, nil
	default:
		return 0, 0, fmt.Errorf("evaluate objective: %q: %w", alg, domain.ErrUnknownAlgorithm)
	}
}
