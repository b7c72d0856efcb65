package services

import (
	"math"
	"slices"
)

// twoOptEpsilon is the minimum improvement (km) for a 2-opt move to be accepted.
const twoOptEpsilon = 1e-9

// DefaultTwoOptPasses returns the pass cap used when none is configured.
func DefaultTwoOptPasses(k int) int {
	return max(k*k, 10)
}

// NearestNeighborOrder builds a visiting order greedily: from the current
// position, always go to the closest unvisited stop. Equal distances resolve
// to the smaller index. The result holds matrix indices in 1..k.
func NearestNeighborOrder(m DistanceMatrix) []int {
	k := m.Stops()
	visited := make([]bool, k+1)
	order := make([]int, 0, k)

	cur := 0
	for len(order) < k {
		next := -1
		best := math.Inf(1)
		for j := 1; j <= k; j++ {
			if visited[j] {
				continue
			}
			if d := m.At(cur, j); d < best {
				best = d
				next = j
			}
		}

		visited[next] = true
		order = append(order, next)
		cur = next
	}

	return order
}

// TwoOpt improves an open path by segment reversal. The start (index 0) is
// fixed; the path end is free, so reversing a tail segment is a valid move.
//
// Each full scan applies every improving move it finds. Scans repeat until one
// makes no move or maxPasses scans have run. Every accepted move lowers the path
// cost by more than twoOptEpsilon, so the cost never increases.
//
// It returns a new slice and the number of scans performed.
func TwoOpt(m DistanceMatrix, order []int, maxPasses int) ([]int, int) {
	k := len(order)
	out := slices.Clone(order)
	if k < 2 {
		return out, 0
	}
	if maxPasses <= 0 {
		maxPasses = DefaultTwoOptPasses(k)
	}

	// path[0] is the start, path[1..k] the stops.
	path := make([]int, 0, k+1)
	path = append(path, 0)
	path = append(path, out...)

	passes := 0
	for passes < maxPasses {
		passes++
		improved := false

		for i := 0; i < k-1; i++ {
			for j := i + 2; j <= k; j++ {
				a, b, c := path[i], path[i+1], path[j]

				// Replace edges (a,b),(c,d) with (a,c),(b,d). At the tail
				// there is no d, so only (a,b) is swapped for (a,c).
				delta := m.At(a, c) - m.At(a, b)
				if j < k {
					d := path[j+1]
					delta += m.At(b, d) - m.At(c, d)
				}

				if delta < -twoOptEpsilon {
					slices.Reverse(path[i+1 : j+1])
					improved = true
				}
			}
		}

		if !improved {
			break
		}
	}

	copy(out, path[1:])
	return out, passes
}

// SolveHeuristic runs nearest-neighbor construction followed by 2-opt.
// When the input order (1..k) is already shorter than the nearest-neighbor
// path, 2-opt starts from it instead, so the result never exceeds either.
// It returns the order as matrix indices in 1..k, its cost, and the 2-opt scan count.
func SolveHeuristic(m DistanceMatrix, maxPasses int) ([]int, float64, int) {
	k := m.Stops()
	if k == 0 {
		return []int{}, 0, 0
	}

	seed := NearestNeighborOrder(m)
	identity := make([]int, k)
	for i := range identity {
		identity[i] = i + 1
	}
	if m.PathCost(identity) < m.PathCost(seed) {
		seed = identity
	}

	order, passes := TwoOpt(m, seed, maxPasses)
	return order, m.PathCost(order), passes
}
