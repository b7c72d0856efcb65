package api

import (
	"net/http"

	"village-route-service/internal/api/handlers"
	"village-route-service/internal/ports"
	"village-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	planner *services.PlanService,
	villages ports.VillageRepository,
	vehicles ports.VehicleRepository,
) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Service: planner}
	villageHandler := &handlers.VillageHandler{Repo: villages}
	vehicleHandler := &handlers.VehicleHandler{Repo: vehicles}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/villages", villageHandler.List)
	mux.HandleFunc("/vehicles", vehicleHandler.List)
	mux.HandleFunc("/vehicles/{id}", vehicleHandler.Get)
	mux.HandleFunc("/route/optimize", routeHandler.Optimize)

	// Request ids are assigned outside the access log so every line carries one.
	return requestIDMiddleware(loggingMiddleware(mux))
}
