package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"village-route-service/internal/domain"
	"village-route-service/internal/platform/obs"
)

// SQLVehicleRepository reads the vehicle registry. The queries hold a single
// bind parameter, so one implementation serves SQLite and Postgres.
type SQLVehicleRepository struct {
	DB     *sql.DB
	Driver string
}

func NewSQLVehicleRepository(db *sql.DB, driver string) *SQLVehicleRepository {
	return &SQLVehicleRepository{DB: db, Driver: driver}
}

func (s *SQLVehicleRepository) ListVehicles(ctx context.Context) (_ []*domain.FleetVehicle, err error) {
	defer obs.Time(ctx, "vehicles.List")(&err)

	if s.DB == nil {
		return nil, errors.New("vehicle repository: db is nil")
	}

	query := `
	SELECT
		vehicle_id,
		name,
		status,
		lat,
		lon
	FROM vehicles
	ORDER BY vehicle_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.FleetVehicle, 0, 8)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

func (s *SQLVehicleRepository) GetVehicle(ctx context.Context, id int) (_ *domain.FleetVehicle, err error) {
	defer obs.Time(ctx, "vehicles.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("vehicle repository: db is nil")
	}

	query := fmt.Sprintf(`
	SELECT
		vehicle_id,
		name,
		status,
		lat,
		lon
	FROM vehicles
	WHERE vehicle_id = %s;
	`, placeholder(s.Driver, 1))

	v, err := scanVehicle(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "vehicle", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle id=%d: %w", id, err)
	}

	return v, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.FleetVehicle, error) {
	var (
		v        domain.FleetVehicle
		lat, lon float64
	)
	if err := row.Scan(&v.ID, &v.Name, &v.Status, &lat, &lon); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}
	v.Coords = domain.Coordinates{Lat: lat, Lon: lon}
	return &v, nil
}
