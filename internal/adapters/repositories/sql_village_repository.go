package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"village-route-service/internal/domain"
	"village-route-service/internal/platform/obs"
)

// SQLVillageRepository is a Postgres-backed VillageRepository (pgx stdlib driver).
type SQLVillageRepository struct {
	DB *sql.DB
}

func NewSQLVillageRepository(db *sql.DB) *SQLVillageRepository {
	return &SQLVillageRepository{DB: db}
}

func (s *SQLVillageRepository) ListVillages(ctx context.Context) (_ []*domain.Village, err error) {
	defer obs.Time(ctx, "villages.pg.List")(&err)

	if s.DB == nil {
		return nil, errors.New("village repository: db is nil")
	}

	return listVillages(ctx, s.DB)
}

// Fetch villages for the given ids with a single ANY($1) lookup.
func (s *SQLVillageRepository) GetVillagesByIDs(
	ctx context.Context,
	ids []int,
) (_ map[int]*domain.Village, err error) {
	defer obs.Time(ctx, "villages.pg.GetByIDs")(&err)

	if s.DB == nil {
		return nil, errors.New("village repository: db is nil")
	}

	uniq := uniqueIDs(ids)
	if len(uniq) == 0 {
		return map[int]*domain.Village{}, nil
	}

	keys := make([]int64, 0, len(uniq))
	for _, id := range uniq {
		keys = append(keys, int64(id))
	}

	q := `
	SELECT village_id, name, lat, lon
	FROM villages
	WHERE village_id = ANY($1::int[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, keys)
	if err != nil {
		return nil, fmt.Errorf("get villages: query villages table: %w", err)
	}
	defer rows.Close()

	return scanVillageMap(rows, len(uniq))
}
