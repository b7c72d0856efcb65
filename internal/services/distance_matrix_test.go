package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"village-route-service/internal/domain"
)

func TestBuildDistanceMatrixEmpty(t *testing.T) {
	m := BuildDistanceMatrix(domain.Coordinates{Lat: 35, Lon: 126}, nil)

	require.Equal(t, 1, m.Size())
	require.Equal(t, 0, m.Stops())
	require.Equal(t, 0.0, m.At(0, 0))
	require.Equal(t, 0.0, m.PathCost(nil))
}

func TestBuildDistanceMatrixSymmetric(t *testing.T) {
	start, stops := randomStops(42, 12)
	m := BuildDistanceMatrix(start, stops)

	require.Equal(t, 13, m.Size())
	for i := 0; i < m.Size(); i++ {
		require.Equal(t, 0.0, m.At(i, i))
		for j := 0; j < m.Size(); j++ {
			require.Equal(t, m.At(i, j), m.At(j, i), "m[%d][%d] != m[%d][%d]", i, j, j, i)
			require.GreaterOrEqual(t, m.At(i, j), 0.0)
		}
	}

	require.InDelta(t, HaversineKm(start, stops[4].Coords), m.At(0, 5), 1e-12)
	require.InDelta(t, HaversineKm(stops[2].Coords, stops[7].Coords), m.At(3, 8), 1e-12)
}

func TestDistanceMatrixPathCost(t *testing.T) {
	stops := []domain.Stop{
		{ID: 1, Coords: domain.Coordinates{Lat: 1, Lon: 0}},
		{ID: 2, Coords: domain.Coordinates{Lat: 2, Lon: 0}},
	}
	m := BuildDistanceMatrix(domain.Coordinates{}, stops)

	require.InDelta(t, m.At(0, 1)+m.At(1, 2), m.PathCost([]int{1, 2}), 1e-12)
	require.InDelta(t, m.At(0, 2)+m.At(2, 1), m.PathCost([]int{2, 1}), 1e-12)
}
