package domain

// A weighted participant location. The identifier is caller-assigned and
// opaque to the search engine; the engine only consumes parallel
// coordinate/weight sequences and never mutates them.
type Location struct {
	ID     string
	Coord  Point
	Weight float64
}

// A cluster centroid standing in for its member locations during the
// search. Virtual locations are produced fresh per search call, carry no
// identity, and are discarded once the search converges.
type VirtualLocation struct {
	Coord  Point
	Weight float64
}
