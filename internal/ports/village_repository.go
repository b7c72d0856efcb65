package ports

import (
	"context"

	"village-route-service/internal/domain"
)

// Port: a boundary for retrieving Village records (the coordinate lookup).
type VillageRepository interface {
	// Retrieve all villages ordered by id.
	ListVillages(ctx context.Context) ([]*domain.Village, error)
	// Retrieve the villages with the given ids. Unknown ids are omitted.
	GetVillagesByIDs(ctx context.Context, ids []int) (map[int]*domain.Village, error)
}
