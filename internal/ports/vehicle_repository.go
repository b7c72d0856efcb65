package ports

import (
	"context"

	"village-route-service/internal/domain"
)

// Port: read access to the vehicle registry.
type VehicleRepository interface {
	// Retrieve all vehicles ordered by id.
	ListVehicles(ctx context.Context) ([]*domain.FleetVehicle, error)
	// Retrieve one vehicle. A missing id yields a *domain.NotFoundError.
	GetVehicle(ctx context.Context, id int) (*domain.FleetVehicle, error)
}
