package dto

import "time"

type VillageStopRequest struct {
	ID       int      `json:"id"`
	Lat      *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon      *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
	Priority *float64 `json:"priority" validate:"omitempty,gte=0,lte=1"`
}

// VehicleRequest names the start either by coordinates or by a registered
// vehicle id. Explicit coordinates win when both are given.
type VehicleRequest struct {
	ID       *int     `json:"id" validate:"omitempty,gt=0"`
	StartLat *float64 `json:"start_lat" validate:"omitempty,gte=-90,lte=90"`
	StartLon *float64 `json:"start_lon" validate:"omitempty,gte=-180,lte=180"`
	MaxStops *int     `json:"max_stops" validate:"omitempty,gte=0"`
}

type OptimizeRouteRequest struct {
	Villages []VillageStopRequest `json:"villages" validate:"max=500,dive"`
	Vehicle  VehicleRequest       `json:"vehicle"`
	DepartAt *time.Time           `json:"depart_at"`
}

type RouteStopResponse struct {
	VillageID  int       `json:"village_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	DistanceKm float64   `json:"distance_km"`
	ETA        time.Time `json:"eta"`
}

type OptimizeRouteResponse struct {
	OrderedStops    []RouteStopResponse `json:"ordered_stops"`
	TotalDistanceKm float64             `json:"total_distance_km"`
	EstDurationMin  int                 `json:"est_duration_min"`
	DepartAt        time.Time           `json:"depart_at"`
	Solver          string              `json:"solver"`
}
