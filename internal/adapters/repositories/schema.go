package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"village-route-service/internal/domain"
	"village-route-service/internal/platform/db"
)

// placeholder returns the n-th (1-based) bind parameter for driver.
func placeholder(driver string, n int) string {
	if driver == db.DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Initialize the villages and vehicles schema. The DDL is valid for both SQLite and Postgres.
func InitSchema(conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVillagesQuery := `
	CREATE TABLE IF NOT EXISTS villages (
		village_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	statements := []string{
		createVillagesQuery,
		createVehiclesQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type VillageSeed struct {
	VillageID int     `json:"village_id"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Populate the villages table from a JSON file. Existing rows are updated.
func SeedFromJSON(conn *sql.DB, driver string, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed villages: read %q: %w", jsonPath, err)
	}

	var data []VillageSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed villages: parse json: %w", err)
	}

	return SeedVillages(conn, driver, data)
}

// SeedVillages validates and upserts villages in a single transaction.
func SeedVillages(conn *sql.DB, driver string, data []VillageSeed) error {
	if conn == nil {
		return errors.New("seed villages: DB is nil")
	}

	rows := make([]VillageSeed, 0, len(data))
	for i, item := range data {
		if item.VillageID <= 0 {
			return fmt.Errorf("seed villages: invalid village_id at index %d: %d", i+1, item.VillageID)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed villages: item at index %d: name cannot be empty", i+1)
		}

		c := domain.Coordinates{Lat: item.Lat, Lon: item.Lon}
		if err := c.Validate(fmt.Sprintf("seed[%d]", i+1)); err != nil {
			return fmt.Errorf("seed villages: %w", err)
		}
		rows = append(rows, VillageSeed{VillageID: item.VillageID, Name: name, Lat: item.Lat, Lon: item.Lon})
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed villages: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
	INSERT INTO villages (
		village_id,
		name,
		lat,
		lon
	)
	VALUES (%s, %s, %s, %s)
	ON CONFLICT (village_id) DO UPDATE
	SET name = excluded.name,
		lat = excluded.lat,
		lon = excluded.lon;
	`, placeholder(driver, 1), placeholder(driver, 2), placeholder(driver, 3), placeholder(driver, 4))

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed villages: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range rows {
		if _, err := stmt.Exec(v.VillageID, v.Name, v.Lat, v.Lon); err != nil {
			return fmt.Errorf("seed villages: insert village_id=%d: %w", v.VillageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed villages: commit tx: %w", err)
	}

	return nil
}

type VehicleSeed struct {
	VehicleID int     `json:"vehicle_id"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Populate the vehicles table from a JSON file. Existing rows are updated.
func SeedVehiclesFromJSON(conn *sql.DB, driver string, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed vehicles: read %q: %w", jsonPath, err)
	}

	var data []VehicleSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed vehicles: parse json: %w", err)
	}

	return SeedVehicles(conn, driver, data)
}

// SeedVehicles validates and upserts vehicles in a single transaction.
// An empty status is stored as idle.
func SeedVehicles(conn *sql.DB, driver string, data []VehicleSeed) error {
	if conn == nil {
		return errors.New("seed vehicles: DB is nil")
	}

	rows := make([]VehicleSeed, 0, len(data))
	for i, item := range data {
		if item.VehicleID <= 0 {
			return fmt.Errorf("seed vehicles: invalid vehicle_id at index %d: %d", i+1, item.VehicleID)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed vehicles: item at index %d: name cannot be empty", i+1)
		}

		status := strings.TrimSpace(item.Status)
		switch status {
		case "":
			status = domain.VehicleStatusIdle
		case domain.VehicleStatusActive, domain.VehicleStatusIdle:
		default:
			return fmt.Errorf("seed vehicles: item at index %d: unknown status %q", i+1, status)
		}

		c := domain.Coordinates{Lat: item.Lat, Lon: item.Lon}
		if err := c.Validate(fmt.Sprintf("seed[%d]", i+1)); err != nil {
			return fmt.Errorf("seed vehicles: %w", err)
		}
		rows = append(rows, VehicleSeed{VehicleID: item.VehicleID, Name: name, Status: status, Lat: item.Lat, Lon: item.Lon})
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed vehicles: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
	INSERT INTO vehicles (
		vehicle_id,
		name,
		status,
		lat,
		lon
	)
	VALUES (%s, %s, %s, %s, %s)
	ON CONFLICT (vehicle_id) DO UPDATE
	SET name = excluded.name,
		status = excluded.status,
		lat = excluded.lat,
		lon = excluded.lon;
	`, placeholder(driver, 1), placeholder(driver, 2), placeholder(driver, 3), placeholder(driver, 4), placeholder(driver, 5))

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed vehicles: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range rows {
		if _, err := stmt.Exec(v.VehicleID, v.Name, v.Status, v.Lat, v.Lon); err != nil {
			return fmt.Errorf("seed vehicles: insert vehicle_id=%d: %w", v.VehicleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed vehicles: commit tx: %w", err)
	}

	return nil
}
