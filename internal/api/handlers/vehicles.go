package handlers

import (
	"net/http"
	"strconv"

	"village-route-service/internal/api/dto"
	"village-route-service/internal/domain"
	"village-route-service/internal/ports"
)

// VehicleHandler exposes the read-only vehicle registry.
type VehicleHandler struct {
	Repo ports.VehicleRepository
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	vehicles, err := h.Repo.ListVehicles(r.Context())
	if err != nil {
		writeServiceError(w, r, "list vehicles", err)
		return
	}

	res := dto.ListVehiclesResponse{
		Vehicles: make([]dto.VehicleResponse, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, toVehicleResponse(v))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Get serves /vehicles/{id}.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "vehicle id must be a positive integer")
		return
	}

	v, err := h.Repo.GetVehicle(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get vehicle", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toVehicleResponse(v))
}

func toVehicleResponse(v *domain.FleetVehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		VehicleID: v.ID,
		Name:      v.Name,
		Status:    v.Status,
		Lat:       v.Coords.Lat,
		Lon:       v.Coords.Lon,
	}
}
