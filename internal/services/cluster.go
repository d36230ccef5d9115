package services

import (
	"math"
	"math/rand"
	"sort"

	"meetpoint-service/internal/domain"
	"meetpoint-service/internal/geo"
)

// Clustering is purely a search-acceleration device: it reduces many
// locations to fewer weighted virtual locations before the descent starts.
// Reported costs are always recomputed against the original set afterwards,
// so nothing here may leak into the final numbers.

const (
	defaultMinClusterSize = 5
	defaultMaxClusterSize = 10
)

// DensityCluster groups locations by spatial density. Points the algorithm
// marks as noise are not discarded: each becomes its own singleton virtual
// location with its original weight. With fewer points than minClusterSize
// the pass is a no-op and every location becomes a singleton.
func DensityCluster(coords []domain.Point, weights []float64, minClusterSize int) []domain.VirtualLocation {
	if minClusterSize <= 0 {
		minClusterSize = defaultMinClusterSize
	}

	if len(coords) < minClusterSize {
		return singletons(coords, weights)
	}

	eps := densityEps(coords)

	// Classic DBSCAN over the haversine metric. minClusterSize doubles as
	// minPts; a neighborhood includes the point itself.
	const noise = -1
	labels := make([]int, len(coords))
	nextLabel := 0

	neighborsOf := func(i int) []int {
		var ns []int
		for j := range coords {
			if geo.Haversine(coords[i], coords[j]) <= eps {
				ns = append(ns, j)
			}
		}
		return ns
	}

	assigned := make([]bool, len(coords))
	for i := range coords {
		if assigned[i] {
			continue
		}
		ns := neighborsOf(i)
		if len(ns) < minClusterSize {
			labels[i] = noise
			assigned[i] = true
			continue
		}

		nextLabel++
		labels[i] = nextLabel
		assigned[i] = true

		// Expand the cluster through density-reachable points.
		queue := append([]int(nil), ns...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if assigned[j] && labels[j] != noise {
				continue
			}
			// Former noise points join the cluster as border points.
			labels[j] = nextLabel
			if assigned[j] {
				continue
			}
			assigned[j] = true

			jns := neighborsOf(j)
			if len(jns) >= minClusterSize {
				queue = append(queue, jns...)
			}
		}
	}

	members := make(map[int][]int)
	for i, l := range labels {
		members[l] = append(members[l], i)
	}

	var out []domain.VirtualLocation
	clusterLabels := make([]int, 0, len(members))
	for l := range members {
		if l != noise {
			clusterLabels = append(clusterLabels, l)
		}
	}
	sort.Ints(clusterLabels)

	for _, l := range clusterLabels {
		out = append(out, aggregate(members[l], coords, weights))
	}
	for _, i := range members[noise] {
		out = append(out, domain.VirtualLocation{Coord: coords[i], Weight: weights[i]})
	}

	return out
}

// densityEps derives a neighborhood radius from the data: three times the
// median nearest-neighbor distance. The median keeps a single far outlier
// from inflating the radius until everything merges into one cluster.
func densityEps(coords []domain.Point) float64 {
	nearest := make([]float64, len(coords))
	for i := range coords {
		nearest[i] = math.MaxFloat64
		for j := range coords {
			if i == j {
				continue
			}
			if d := geo.Haversine(coords[i], coords[j]); d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	sort.Float64s(nearest)
	return 3 * nearest[len(nearest)/2]
}

// CapacityCluster partitions locations with K-Means targeting
// k = max(2, n/maxClusterSize) clusters. The capacity bound is approximate:
// the underlying partitioning is not forced to respect it. With
// n <= maxClusterSize the pass is a no-op.
func CapacityCluster(coords []domain.Point, weights []float64, maxClusterSize int) []domain.VirtualLocation {
	if maxClusterSize <= 0 {
		maxClusterSize = defaultMaxClusterSize
	}

	if len(coords) <= maxClusterSize {
		return singletons(coords, weights)
	}

	k := len(coords) / maxClusterSize
	if k < 2 {
		k = 2
	}

	labels := kmeans(coords, k)

	members := make(map[int][]int)
	for i, l := range labels {
		members[l] = append(members[l], i)
	}

	clusterLabels := make([]int, 0, len(members))
	for l := range members {
		clusterLabels = append(clusterLabels, l)
	}
	sort.Ints(clusterLabels)

	out := make([]domain.VirtualLocation, 0, len(clusterLabels))
	for _, l := range clusterLabels {
		out = append(out, aggregate(members[l], coords, weights))
	}
	return out
}

// kmeans runs Lloyd's algorithm in raw degree space with a fixed seed for
// reproducible partitions run to run.
func kmeans(coords []domain.Point, k int) []int {
	rng := rand.New(rand.NewSource(42))

	centers := make([]domain.Point, k)
	perm := rng.Perm(len(coords))
	for i := 0; i < k; i++ {
		centers[i] = coords[perm[i]]
	}

	labels := make([]int, len(coords))
	const maxIter = 100

	for iter := 0; iter < maxIter; iter++ {
		changed := false

		for i, p := range coords {
			best := 0
			bestD := math.MaxFloat64
			for c, ctr := range centers {
				dLat := p.Lat - ctr.Lat
				dLng := p.Lng - ctr.Lng
				d := dLat*dLat + dLng*dLng
				if d < bestD {
					bestD = d
					best = c
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		sums := make([]domain.Point, k)
		for i, p := range coords {
			l := labels[i]
			counts[l]++
			sums[l].Lat += p.Lat
			sums[l].Lng += p.Lng
		}
		for c := range centers {
			if counts[c] == 0 {
				// Re-seed an emptied center on a random point.
				centers[c] = coords[rng.Intn(len(coords))]
				continue
			}
			centers[c] = domain.Point{
				Lat: sums[c].Lat / float64(counts[c]),
				Lng: sums[c].Lng / float64(counts[c]),
			}
		}
	}

	return labels
}

func singletons(coords []domain.Point, weights []float64) []domain.VirtualLocation {
	out := make([]domain.VirtualLocation, len(coords))
	for i, c := range coords {
		out[i] = domain.VirtualLocation{Coord: c, Weight: weights[i]}
	}
	return out
}

// aggregate collapses member locations into one virtual location: weighted
// centroid coordinate, summed weight.
func aggregate(idx []int, coords []domain.Point, weights []float64) domain.VirtualLocation {
	pts := make([]domain.Point, len(idx))
	ws := make([]float64, len(idx))
	var total float64
	for i, j := range idx {
		pts[i] = coords[j]
		ws[i] = weights[j]
		total += weights[j]
	}

	// Non-empty member list: centroid cannot fail.
	centroid, _ := geo.WeightedCentroid(pts, ws)
	return domain.VirtualLocation{Coord: centroid, Weight: total}
}
