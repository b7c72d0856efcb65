package services

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"village-route-service/internal/domain"
)

// randomStops scatters k stops around a rural start point (roughly 40 km box).
func randomStops(seed uint64, k int) (domain.Coordinates, []domain.Stop) {
	rng := rand.New(rand.NewPCG(seed, seed*31+7))
	start := domain.Coordinates{Lat: 35.28, Lon: 126.50}

	stops := make([]domain.Stop, 0, k)
	for i := 0; i < k; i++ {
		stops = append(stops, domain.Stop{
			ID: i + 1,
			Coords: domain.Coordinates{
				Lat: start.Lat + (rng.Float64()-0.5)*0.4,
				Lon: start.Lon + (rng.Float64()-0.5)*0.4,
			},
			Priority: rng.Float64(),
		})
	}
	return start, stops
}

// requirePermutation checks order holds each of 1..k exactly once.
func requirePermutation(t *testing.T, order []int, k int) {
	t.Helper()

	require.Len(t, order, k)
	sorted := slices.Clone(order)
	slices.Sort(sorted)
	for i, v := range sorted {
		require.Equal(t, i+1, v, "order %v is not a permutation of 1..%d", order, k)
	}
}

// bruteForce enumerates every order; only usable for tiny k.
func bruteForce(m DistanceMatrix) float64 {
	k := m.Stops()
	order := make([]int, k)
	for i := range order {
		order[i] = i + 1
	}

	best := m.PathCost(order)
	var permute func(int)
	permute = func(pos int) {
		if pos == k {
			best = min(best, m.PathCost(order))
			return
		}
		for i := pos; i < k; i++ {
			order[pos], order[i] = order[i], order[pos]
			permute(pos + 1)
			order[pos], order[i] = order[i], order[pos]
		}
	}
	permute(0)
	return best
}
