package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"village-route-service/internal/adapters/cache"
	"village-route-service/internal/adapters/repositories"
	"village-route-service/internal/api"
	"village-route-service/internal/config"
	"village-route-service/internal/platform/db"
	"village-route-service/internal/ports"
	"village-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	cfg := config.Load()

	conn, driver, villages, err := openVillages(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	vehicles := repositories.NewSQLVehicleRepository(conn, driver)

	optimizer := services.NewRouteOptimizer(optimizerConfig(cfg))

	planner := &services.PlanService{
		Optimizer: optimizer,
		Villages:  villages,
		Vehicles:  vehicles,
	}

	// Route caching is optional; without REDIS_ADDR every request is solved.
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable addr=%s err=%v (route cache disabled)", addr, err)
		} else {
			planner.Cache = cache.NewRedisRouteCache(client, cfg.RouteCacheTTL)
			log.Printf("route cache enabled addr=%s ttl=%s", addr, cfg.RouteCacheTTL)
		}
		cancel()
	}

	router := api.NewRouter(planner, villages, vehicles)

	c := optimizer.Config()
	log.Printf(
		"optimizer avg_speed_kmh=%.1f exact_max_stops=%d heuristic_only=%t two_opt_max_passes=%d",
		c.AvgSpeedKmh, c.ExactMaxStops, c.HeuristicOnly, c.TwoOptMaxPasses,
	)

	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// optimizerConfig maps process config onto the optimizer. EXACT_MAX_STOPS=0
// turns the exact solver off.
func optimizerConfig(cfg config.Config) services.OptimizerConfig {
	return services.OptimizerConfig{
		AvgSpeedKmh:     cfg.AvgSpeedKmh,
		ExactMaxStops:   cfg.ExactMaxStops,
		TwoOptMaxPasses: cfg.TwoOptMaxPasses,
		HeuristicOnly:   cfg.ExactMaxStops == 0,
	}
}

// openVillages opens the configured database and returns its driver name and
// village repository. Local SQLite databases are initialized and seeded on startup.
func openVillages(cfg config.Config) (*sql.DB, string, ports.VillageRepository, error) {
	switch cfg.DBDriver {
	case db.DriverPostgres, "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, "", nil, fmt.Errorf("DATABASE_URL is required for DB_DRIVER=%s", cfg.DBDriver)
		}
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, "", nil, err
		}
		return conn, db.DriverPostgres, repositories.NewSQLVillageRepository(conn), nil

	case db.DriverSQLite:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, "", nil, err
		}
		if err := initAndSeed(conn, db.DriverSQLite, cfg.SeedPath, cfg.VehicleSeedPath); err != nil {
			conn.Close()
			return nil, "", nil, err
		}
		return conn, db.DriverSQLite, repositories.NewSqliteVillageRepository(conn), nil

	default:
		return nil, "", nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func initAndSeed(conn *sql.DB, driver, seedPath, vehicleSeedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, driver, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if vehicleSeedPath == "" {
		return nil
	}
	if err := repositories.SeedVehiclesFromJSON(conn, driver, vehicleSeedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
