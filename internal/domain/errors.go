package domain

import "errors"

// Input contract violations are surfaced before any oracle call is made.
var (
	ErrEmptyInput        = errors.New("location list must not be empty")
	ErrLengthMismatch    = errors.New("locations and weights must have the same length")
	ErrInvalidWeight     = errors.New("weights must be positive")
	ErrInvalidStep       = errors.New("search step must be positive")
	ErrNoRouteAvailable  = errors.New("no location reachable from the initial point")
	ErrUnknownAlgorithm  = errors.New("unknown algorithm type")
	ErrUnknownClustering = errors.New("unknown clustering method")
)
