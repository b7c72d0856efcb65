package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"village-route-service/internal/domain"
	"village-route-service/internal/platform/obs"
)

// SQLite-backed implementation of the VillageRepository port.
type SqliteVillageRepository struct{ DB *sql.DB }

func NewSqliteVillageRepository(db *sql.DB) *SqliteVillageRepository {
	return &SqliteVillageRepository{DB: db}
}

// Return all villages stored in the database.
func (s *SqliteVillageRepository) ListVillages(ctx context.Context) (_ []*domain.Village, err error) {
	defer obs.Time(ctx, "villages.sqlite.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite village repository: DB is nil")
	}

	return listVillages(ctx, s.DB)
}

// Fetch villages for the given ids.
func (s *SqliteVillageRepository) GetVillagesByIDs(
	ctx context.Context,
	ids []int,
) (_ map[int]*domain.Village, err error) {
	defer obs.Time(ctx, "villages.sqlite.GetByIDs")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite village repository: DB is nil")
	}

	uniq := uniqueIDs(ids)
	if len(uniq) == 0 {
		return map[int]*domain.Village{}, nil
	}

	ph := make([]string, 0, len(uniq))
	args := make([]any, 0, len(uniq))
	for _, id := range uniq {
		ph = append(ph, "?")
		args = append(args, id)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
		village_id,
		name,
		lat,
		lon
	FROM villages
	WHERE village_id IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get villages: query villages table: %w", err)
	}
	defer rows.Close()

	return scanVillageMap(rows, len(uniq))
}

func listVillages(ctx context.Context, db *sql.DB) ([]*domain.Village, error) {
	query := `
	SELECT
		village_id,
		name,
		lat,
		lon
	FROM villages
	ORDER BY village_id;
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list villages: query villages table: %w", err)
	}
	defer rows.Close()

	villages := make([]*domain.Village, 0, 64)
	for rows.Next() {
		v, err := scanVillage(rows)
		if err != nil {
			return nil, fmt.Errorf("list villages: %w", err)
		}
		villages = append(villages, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list villages: row iteration: %w", err)
	}

	return villages, nil
}

func scanVillage(rows *sql.Rows) (*domain.Village, error) {
	var (
		id       int
		name     string
		lat, lon float64
	)
	if err := rows.Scan(&id, &name, &lat, &lon); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}
	return &domain.Village{ID: id, Name: name, Coords: domain.Coordinates{Lat: lat, Lon: lon}}, nil
}

func scanVillageMap(rows *sql.Rows, capacity int) (map[int]*domain.Village, error) {
	out := make(map[int]*domain.Village, capacity)
	for rows.Next() {
		v, err := scanVillage(rows)
		if err != nil {
			return nil, fmt.Errorf("get villages: %w", err)
		}
		out[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get villages: row iteration: %w", err)
	}
	return out, nil
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	uniq := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	return uniq
}
