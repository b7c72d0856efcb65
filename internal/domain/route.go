package domain

import "time"

// Solver identifiers reported on a RoutePlan.
const (
	SolverNone      = "none"
	SolverExact     = "exact"
	SolverHeuristic = "heuristic"
)

// Represents a single visited stop in an optimized route.
// CumulativeKm is the path distance from the vehicle start, rounded to 0.1 km.
type RouteStop struct {
	StopID       int
	Coords       Coordinates
	CumulativeKm float64
	ArriveAt     time.Time
}

// Represents the optimized open path for one vehicle.
// The vehicle start is implicit and never emitted as a stop; there is no return leg.
type RoutePlan struct {
	DepartAt             time.Time
	Stops                []RouteStop
	TotalDistanceKm      float64
	TotalDurationMinutes int
	Solver               string
}
