package main

import (
	"database/sql"
	"log"
	"strings"

	"village-route-service/internal/adapters/repositories"
	"village-route-service/internal/config"
	"village-route-service/internal/platform/db"
)

func main() {
	cfg := config.Load()

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(conn, cfg.SeedPath, cfg.VehicleSeedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(conn *sql.DB, seedPath, vehicleSeedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Printf("Seeding villages from %s...", seedPath)
	if err := repositories.SeedFromJSON(conn, db.DriverPostgres, seedPath); err != nil {
		return err
	}
	if vehicleSeedPath != "" {
		log.Printf("Seeding vehicles from %s...", vehicleSeedPath)
		if err := repositories.SeedVehiclesFromJSON(conn, db.DriverPostgres, vehicleSeedPath); err != nil {
			return err
		}
	}
	log.Println("Seeding complete.")

	return nil
}
