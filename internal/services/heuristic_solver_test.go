package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"village-route-service/internal/domain"
)

func TestNearestNeighborOrder(t *testing.T) {
	stops := []domain.Stop{
		{ID: 1, Coords: domain.Coordinates{Lat: 2, Lon: 0}},
		{ID: 2, Coords: domain.Coordinates{Lat: 0.5, Lon: 0}},
		{ID: 3, Coords: domain.Coordinates{Lat: 1, Lon: 0}},
	}
	m := BuildDistanceMatrix(domain.Coordinates{}, stops)

	require.Equal(t, []int{2, 3, 1}, NearestNeighborOrder(m))
	require.Empty(t, NearestNeighborOrder(BuildDistanceMatrix(domain.Coordinates{}, nil)))
}

func TestTwoOptUncrossesPath(t *testing.T) {
	// A zig-zag along a line: 1 and 3 are swapped relative to the optimum.
	stops := []domain.Stop{
		{ID: 1, Coords: domain.Coordinates{Lat: 0.3, Lon: 0}},
		{ID: 2, Coords: domain.Coordinates{Lat: 0.2, Lon: 0}},
		{ID: 3, Coords: domain.Coordinates{Lat: 0.1, Lon: 0}},
		{ID: 4, Coords: domain.Coordinates{Lat: 0.4, Lon: 0}},
	}
	m := BuildDistanceMatrix(domain.Coordinates{}, stops)

	in := []int{1, 2, 3, 4}
	out, passes := TwoOpt(m, in, 0)

	require.Equal(t, []int{3, 2, 1, 4}, out)
	require.Equal(t, []int{1, 2, 3, 4}, in, "input must not be modified")
	require.GreaterOrEqual(t, passes, 1)
	require.Less(t, m.PathCost(out), m.PathCost(in))
}

func TestTwoOptReversesTail(t *testing.T) {
	// Only a tail reversal fixes this: start -> 1 -> 3 -> 2 with 2 nearer.
	stops := []domain.Stop{
		{ID: 1, Coords: domain.Coordinates{Lat: 0.1, Lon: 0}},
		{ID: 2, Coords: domain.Coordinates{Lat: 0.2, Lon: 0}},
		{ID: 3, Coords: domain.Coordinates{Lat: 0.3, Lon: 0}},
	}
	m := BuildDistanceMatrix(domain.Coordinates{}, stops)

	out, _ := TwoOpt(m, []int{1, 3, 2}, 0)
	require.Equal(t, []int{1, 2, 3}, out)
}

func TestSolveHeuristicProperties(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		k := int(seed*3%40) + 1
		start, stops := randomStops(seed, k)
		m := BuildDistanceMatrix(start, stops)

		order, cost, passes := SolveHeuristic(m, 0)
		requirePermutation(t, order, k)
		require.InDelta(t, m.PathCost(order), cost, 1e-9)
		require.LessOrEqual(t, passes, DefaultTwoOptPasses(k))

		identity := make([]int, k)
		for i := range identity {
			identity[i] = i + 1
		}
		require.LessOrEqual(t, cost, m.PathCost(NearestNeighborOrder(m))+1e-9, "seed=%d", seed)
		require.LessOrEqual(t, cost, m.PathCost(identity)+1e-9, "seed=%d", seed)
	}
}

func TestSolveHeuristicRespectsPassCap(t *testing.T) {
	start, stops := randomStops(99, 60)
	m := BuildDistanceMatrix(start, stops)

	order, cost, passes := SolveHeuristic(m, 1)
	require.Equal(t, 1, passes)
	requirePermutation(t, order, 60)
	require.LessOrEqual(t, cost, m.PathCost(NearestNeighborOrder(m))+1e-9)
}

func TestSolveHeuristicEmpty(t *testing.T) {
	order, cost, passes := SolveHeuristic(BuildDistanceMatrix(domain.Coordinates{}, nil), 0)
	require.Empty(t, order)
	require.Zero(t, cost)
	require.Zero(t, passes)
}
