package handlers

import (
	"fmt"
	"net/http"

	"village-route-service/internal/api/dto"
	"village-route-service/internal/domain"
	"village-route-service/internal/services"
)

type RouteHandler struct {
	Service *services.PlanService
}

// Optimize orders the requested villages for a single vehicle.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRouteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}

	svcReq, err := toPlanRouteRequest(req)
	if err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}

	plan, err := h.Service.PlanRoute(r.Context(), svcReq)
	if err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}

	res := dto.OptimizeRouteResponse{
		OrderedStops:    make([]dto.RouteStopResponse, 0, len(plan.Stops)),
		TotalDistanceKm: plan.TotalDistanceKm,
		EstDurationMin:  plan.TotalDurationMinutes,
		DepartAt:        plan.DepartAt,
		Solver:          plan.Solver,
	}
	for _, s := range plan.Stops {
		res.OrderedStops = append(res.OrderedStops, dto.RouteStopResponse{
			VillageID:  s.StopID,
			Lat:        s.Coords.Lat,
			Lon:        s.Coords.Lon,
			DistanceKm: s.CumulativeKm,
			ETA:        s.ArriveAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toPlanRouteRequest(req dto.OptimizeRouteRequest) (services.PlanRouteRequest, error) {
	stops := make([]services.StopInput, 0, len(req.Villages))
	for i, v := range req.Villages {
		if (v.Lat == nil) != (v.Lon == nil) {
			return services.PlanRouteRequest{}, &domain.ValidationError{
				Field:  fmt.Sprintf("villages[%d]", i),
				Reason: "lat and lon must be given together",
				Err:    domain.ErrInvalidCoordinates,
			}
		}

		in := services.StopInput{ID: v.ID, Priority: v.Priority}
		if v.Lat != nil {
			in.Coords = &domain.Coordinates{Lat: *v.Lat, Lon: *v.Lon}
		}
		stops = append(stops, in)
	}

	out := services.PlanRouteRequest{
		Vehicle:  domain.Vehicle{MaxStops: req.Vehicle.MaxStops},
		Stops:    stops,
		DepartAt: req.DepartAt,
	}

	veh := req.Vehicle
	switch {
	case (veh.StartLat == nil) != (veh.StartLon == nil):
		return services.PlanRouteRequest{}, &domain.ValidationError{
			Field:  "vehicle",
			Reason: "start_lat and start_lon must be given together",
			Err:    domain.ErrInvalidCoordinates,
		}
	case veh.StartLat != nil:
		out.Vehicle.Start = domain.Coordinates{Lat: *veh.StartLat, Lon: *veh.StartLon}
	case veh.ID != nil:
		out.VehicleID = veh.ID
	default:
		return services.PlanRouteRequest{}, &domain.ValidationError{
			Field:  "vehicle",
			Reason: "either id or start_lat/start_lon is required",
		}
	}

	return out, nil
}
