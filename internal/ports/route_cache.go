package ports

import "context"

// A solved visiting order, independent of departure time.
type CachedRoute struct {
	StopIDs    []int   `json:"stop_ids"`
	DistanceKm float64 `json:"distance_km"`
	Solver     string  `json:"solver"`
}

// Contract for storing solved routes keyed by instance fingerprint.
type RouteCache interface {
	// Return the cached route and whether it was present.
	Get(ctx context.Context, key string) (CachedRoute, bool, error)
	Put(ctx context.Context, key string, route CachedRoute) error
}
