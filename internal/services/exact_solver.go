package services

import (
	"errors"
	"fmt"
	"math"
)

// MaxExactStops bounds the dense DP table: 2^18 masks × 18 stops × (8+1) bytes
// is about 42 MB. Configured thresholds are clamped to it.
const MaxExactStops = 18

// ErrInfeasible signals that the exact solver could not produce a complete
// visiting order. Callers recover by using the heuristic solver.
var ErrInfeasible = errors.New("exact solver: no reachable full-mask state")

// SolveExact computes the minimal open path from the start (index 0) through
// every stop of m using a bitmask dynamic program.
//
// State (mask, j) holds the cheapest cost of leaving the start, visiting exactly
// the stops in mask, and ending at stop j. Bit b of mask stands for matrix
// index b+1. The table is a dense slice indexed by mask*k + j.
//
// Ties are broken by index: among equal predecessors the smallest i wins, and
// among equal full-mask end states the smallest j wins. The result is therefore
// deterministic for a given matrix.
//
// It returns the order as matrix indices in 1..k and the path cost.
//
// Time O(2^k · k²), memory O(2^k · k).
func SolveExact(m DistanceMatrix) ([]int, float64, error) {
	k := m.Stops()
	if k == 0 {
		return []int{}, 0, nil
	}
	if k > MaxExactStops {
		return nil, 0, fmt.Errorf("solve exact: %d stops exceeds limit %d: %w", k, MaxExactStops, ErrInfeasible)
	}

	full := 1<<k - 1
	states := (full + 1) * k

	cost := make([]float64, states)
	// prev holds the predecessor stop bit, -1 meaning "came from the start".
	prev := make([]int8, states)
	for i := range cost {
		cost[i] = math.Inf(1)
		prev[i] = -1
	}

	for j := 0; j < k; j++ {
		cost[(1<<j)*k+j] = m.At(0, j+1)
	}

	for mask := 1; mask <= full; mask++ {
		for j := 0; j < k; j++ {
			bit := 1 << j
			if mask&bit == 0 || mask == bit {
				continue
			}

			rest := mask ^ bit
			best := math.Inf(1)
			bestPrev := -1
			for i := 0; i < k; i++ {
				if rest&(1<<i) == 0 {
					continue
				}
				c := cost[rest*k+i]
				if math.IsInf(c, 1) {
					continue
				}
				if cand := c + m.At(i+1, j+1); cand < best {
					best = cand
					bestPrev = i
				}
			}

			cost[mask*k+j] = best
			prev[mask*k+j] = int8(bestPrev)
		}
	}

	end := -1
	bestCost := math.Inf(1)
	for j := 0; j < k; j++ {
		if c := cost[full*k+j]; c < bestCost {
			bestCost = c
			end = j
		}
	}
	if end < 0 {
		return nil, 0, ErrInfeasible
	}

	order := make([]int, k)
	mask := full
	j := end
	for pos := k - 1; pos >= 0; pos-- {
		if j < 0 || mask&(1<<j) == 0 {
			return nil, 0, ErrInfeasible
		}
		order[pos] = j + 1
		p := int(prev[mask*k+j])
		mask ^= 1 << j
		j = p
	}
	if mask != 0 || j != -1 {
		return nil, 0, ErrInfeasible
	}

	return order, bestCost, nil
}
