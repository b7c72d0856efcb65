package services

import "village-route-service/internal/domain"

// DistanceMatrix is a dense (k+1)×(k+1) symmetric matrix of great-circle
// distances. Index 0 is the vehicle start; indices 1..k are the stops in
// the order they were given to BuildDistanceMatrix.
type DistanceMatrix struct {
	n int
	d []float64
}

// BuildDistanceMatrix computes all pairwise distances between start and stops.
// Only the upper triangle is computed; the lower triangle is mirrored so
// At(i, j) == At(j, i) holds exactly.
func BuildDistanceMatrix(start domain.Coordinates, stops []domain.Stop) DistanceMatrix {
	n := len(stops) + 1

	points := make([]domain.Coordinates, 0, n)
	points = append(points, start)
	for _, s := range stops {
		points = append(points, s.Coords)
	}

	d := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			km := HaversineKm(points[i], points[j])
			d[i*n+j] = km
			d[j*n+i] = km
		}
	}

	return DistanceMatrix{n: n, d: d}
}

// Size returns k+1, the number of rows (start included).
func (m DistanceMatrix) Size() int { return m.n }

// Stops returns k, the number of stops in the matrix.
func (m DistanceMatrix) Stops() int { return m.n - 1 }

func (m DistanceMatrix) At(i, j int) float64 { return m.d[i*m.n+j] }

// PathCost returns the open-path length start -> order[0] -> ... -> order[len-1].
// order holds matrix indices in 1..k.
func (m DistanceMatrix) PathCost(order []int) float64 {
	cost := 0.0
	prev := 0
	for _, idx := range order {
		cost += m.At(prev, idx)
		prev = idx
	}
	return cost
}
