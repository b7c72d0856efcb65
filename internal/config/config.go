package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port        string
	DBDriver    string
	DBPath      string
	DatabaseURL string
	SeedPath    string

	// VehicleSeedPath seeds the vehicle registry.
	VehicleSeedPath string

	RedisAddr     string
	RouteCacheTTL time.Duration

	AvgSpeedKmh     float64
	ExactMaxStops   int // 0 disables the exact solver
	TwoOptMaxPasses int
}

// Load reads .env (when present) and then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	return Config{
		Port:            Get("PORT", "8080"),
		DBDriver:        Get("DB_DRIVER", "sqlite"),
		DBPath:          Get("DB_PATH", "data/app.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SeedPath:        Get("SEED_PATH", "data/seeds/villages.json"),
		VehicleSeedPath: Get("VEHICLE_SEED_PATH", "data/seeds/vehicles.json"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RouteCacheTTL:   GetDuration("ROUTE_CACHE_TTL", 10*time.Minute),
		AvgSpeedKmh:     GetFloat("AVG_SPEED_KMH", 35.0),
		ExactMaxStops:   GetInt("EXACT_MAX_STOPS", 14),
		TwoOptMaxPasses: GetInt("TWO_OPT_MAX_PASSES", 0),
	}
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("config: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("config: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("config: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
