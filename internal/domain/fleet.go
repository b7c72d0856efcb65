package domain

// Vehicle status values stored in the registry.
const (
	VehicleStatusActive = "active"
	VehicleStatusIdle   = "idle"
)

// FleetVehicle is a registered vehicle and its last known position.
// A route request may name one instead of passing start coordinates.
type FleetVehicle struct {
	ID     int
	Name   string
	Status string
	Coords Coordinates
}
