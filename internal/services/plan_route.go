package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"village-route-service/internal/domain"
	"village-route-service/internal/platform/obs"
	"village-route-service/internal/ports"
)

// StopInput is a requested destination. Coords may be omitted, in which case
// they are looked up by id in the village repository.
type StopInput struct {
	ID       int
	Coords   *domain.Coordinates
	Priority *float64
}

type PlanRouteRequest struct {
	Vehicle domain.Vehicle
	// VehicleID, when set, takes Vehicle.Start from the vehicle registry.
	VehicleID *int
	Stops     []StopInput
	// DepartAt defaults to the optimizer clock.
	DepartAt *time.Time
}

// PlanService is the application entry point for route planning. It resolves
// missing coordinates, reuses cached solutions, and delegates solving to the
// RouteOptimizer. Villages, Vehicles and Cache are optional.
type PlanService struct {
	Optimizer *RouteOptimizer
	Villages  ports.VillageRepository
	Vehicles  ports.VehicleRepository
	Cache     ports.RouteCache
}

func (s *PlanService) PlanRoute(ctx context.Context, req PlanRouteRequest) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "plan.PlanRoute")(&err)

	if req.VehicleID != nil {
		start, err := s.resolveStart(ctx, *req.VehicleID)
		if err != nil {
			return nil, fmt.Errorf("plan route: %w", err)
		}
		req.Vehicle.Start = start
	}

	stops, err := s.resolveStops(ctx, req.Stops)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	if err := ValidateInput(req.Vehicle, stops); err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	departAt := s.Optimizer.Now()
	if req.DepartAt != nil {
		departAt = *req.DepartAt
	}

	selected := SelectStops(stops, req.Vehicle.MaxStops)
	key := s.cacheKey(req.Vehicle.Start, selected)

	if sol, ok := s.cachedSolution(ctx, key, req.Vehicle.Start, selected); ok {
		return s.Optimizer.Assemble(sol, departAt), nil
	}

	sol, err := s.Optimizer.Solve(ctx, req.Vehicle, stops)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	if s.Cache != nil && len(sol.Order) > 0 {
		ids := make([]int, 0, len(sol.Order))
		for _, i := range sol.Order {
			ids = append(ids, sol.Stops[i].ID)
		}
		cr := ports.CachedRoute{StopIDs: ids, DistanceKm: sol.DistanceKm, Solver: sol.Solver}
		if err := s.Cache.Put(ctx, key, cr); err != nil {
			log.Printf("req_id=%s route cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	return s.Optimizer.Assemble(sol, departAt), nil
}

// resolveStart looks up a registered vehicle's last known position.
func (s *PlanService) resolveStart(ctx context.Context, vehicleID int) (domain.Coordinates, error) {
	if s.Vehicles == nil {
		return domain.Coordinates{}, &domain.ValidationError{
			Field:  "vehicle.id",
			Reason: "no vehicle registry is configured",
		}
	}

	v, err := s.Vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("resolve vehicle: %w", err)
	}
	return v.Coords, nil
}

// resolveStops fills missing coordinates from the village repository.
func (s *PlanService) resolveStops(ctx context.Context, in []StopInput) ([]domain.Stop, error) {
	missing := make([]int, 0)
	for _, st := range in {
		if st.Coords == nil {
			missing = append(missing, st.ID)
		}
	}

	var found map[int]*domain.Village
	if len(missing) > 0 {
		if s.Villages == nil {
			return nil, &domain.ValidationError{
				Field:  "villages",
				Reason: fmt.Sprintf("village %d has no coordinates and no village lookup is configured", missing[0]),
			}
		}

		var err error
		found, err = s.Villages.GetVillagesByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("resolve villages: %w", err)
		}
	}

	out := make([]domain.Stop, 0, len(in))
	for _, st := range in {
		coords := st.Coords
		if coords == nil {
			v, ok := found[st.ID]
			if !ok {
				return nil, fmt.Errorf("resolve villages: %w", &domain.NotFoundError{Resource: "village", ID: st.ID})
			}
			coords = &v.Coords
		}
		out = append(out, domain.NewStop(st.ID, *coords, st.Priority))
	}

	return out, nil
}

// cacheKey fingerprints the solver-relevant inputs: start, selected stops in
// instance order, and the solver configuration.
func (s *PlanService) cacheKey(start domain.Coordinates, selected []domain.Stop) string {
	cfg := s.Optimizer.Config()

	var b strings.Builder
	b.WriteString(strconv.Itoa(cfg.ExactMaxStops))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(cfg.TwoOptMaxPasses))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(cfg.HeuristicOnly))
	b.WriteByte('|')
	writeCoords(&b, start)
	for _, st := range selected {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(st.ID))
		b.WriteByte('@')
		writeCoords(&b, st.Coords)
	}

	return "route:" + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

func writeCoords(b *strings.Builder, c domain.Coordinates) {
	b.WriteString(strconv.FormatFloat(c.Lat, 'g', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(c.Lon, 'g', -1, 64))
}

// cachedSolution rebuilds a Solution from the cache. Any mismatch between the
// cached ids and the selected stops is treated as a miss.
func (s *PlanService) cachedSolution(
	ctx context.Context,
	key string,
	start domain.Coordinates,
	selected []domain.Stop,
) (Solution, bool) {
	if s.Cache == nil || len(selected) == 0 {
		return Solution{}, false
	}

	cr, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		log.Printf("req_id=%s route cache read failed: %v", obs.RequestID(ctx), err)
		return Solution{}, false
	}
	if !ok || len(cr.StopIDs) != len(selected) {
		return Solution{}, false
	}

	pos := make(map[int]int, len(selected))
	for i, st := range selected {
		pos[st.ID] = i
	}

	order := make([]int, 0, len(cr.StopIDs))
	used := make(map[int]struct{}, len(cr.StopIDs))
	for _, id := range cr.StopIDs {
		i, ok := pos[id]
		if !ok {
			return Solution{}, false
		}
		if _, dup := used[id]; dup {
			return Solution{}, false
		}
		used[id] = struct{}{}
		order = append(order, i)
	}

	return Solution{
		Start:      start,
		Stops:      selected,
		Order:      order,
		DistanceKm: cr.DistanceKm,
		Solver:     cr.Solver,
	}, true
}
