package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"village-route-service/internal/domain"
	"village-route-service/internal/platform/obs"
)

// DefaultExactMaxStops keeps the exact solver's 2^k·k state count in the low millions.
const DefaultExactMaxStops = 14

// OptimizerConfig tunes a RouteOptimizer. Zero values select the defaults.
type OptimizerConfig struct {
	AvgSpeedKmh float64
	// ExactMaxStops is the largest instance solved by the exact solver.
	// Values above MaxExactStops are clamped.
	ExactMaxStops int
	// TwoOptMaxPasses caps 2-opt scans; zero means DefaultTwoOptPasses(k).
	TwoOptMaxPasses int
	// HeuristicOnly skips the exact solver for every instance size.
	HeuristicOnly bool
}

func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		AvgSpeedKmh:   DefaultAvgSpeedKmh,
		ExactMaxStops: DefaultExactMaxStops,
	}
}

func (c OptimizerConfig) withDefaults() OptimizerConfig {
	if c.AvgSpeedKmh <= 0 || math.IsNaN(c.AvgSpeedKmh) || math.IsInf(c.AvgSpeedKmh, 0) {
		c.AvgSpeedKmh = DefaultAvgSpeedKmh
	}
	if c.ExactMaxStops <= 0 {
		c.ExactMaxStops = DefaultExactMaxStops
	}
	c.ExactMaxStops = min(c.ExactMaxStops, MaxExactStops)
	if c.TwoOptMaxPasses < 0 {
		c.TwoOptMaxPasses = 0
	}
	return c
}

// Solution is a solved instance before ETA annotation.
// Order holds indices into Stops in visiting order.
type Solution struct {
	Start      domain.Coordinates
	Stops      []domain.Stop
	Order      []int
	DistanceKm float64
	Solver     string
}

// RouteOptimizer orders a vehicle's stops to minimize open-path distance.
// It holds no mutable state and is safe for concurrent use.
type RouteOptimizer struct {
	cfg   OptimizerConfig
	now   func() time.Time
	exact func(DistanceMatrix) ([]int, float64, error)
}

func NewRouteOptimizer(cfg OptimizerConfig) *RouteOptimizer {
	return &RouteOptimizer{cfg: cfg.withDefaults(), now: time.Now, exact: SolveExact}
}

// WithClock returns a copy of the optimizer that reads the current time from now.
func (o *RouteOptimizer) WithClock(now func() time.Time) *RouteOptimizer {
	cp := *o
	cp.now = now
	return &cp
}

func (o *RouteOptimizer) Config() OptimizerConfig { return o.cfg }

// Now returns the optimizer's notion of the current time.
func (o *RouteOptimizer) Now() time.Time { return o.now() }

// Optimize validates the input, solves the instance, and annotates the
// result with cumulative distances and ETAs counted from the current time.
func (o *RouteOptimizer) Optimize(
	ctx context.Context,
	vehicle domain.Vehicle,
	stops []domain.Stop,
) (*domain.RoutePlan, error) {
	sol, err := o.Solve(ctx, vehicle, stops)
	if err != nil {
		return nil, err
	}
	return o.Assemble(sol, o.now()), nil
}

// ValidateInput rejects out-of-range coordinates, a negative stop cap and
// duplicate stop ids.
func ValidateInput(vehicle domain.Vehicle, stops []domain.Stop) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}

	seen := make(map[int]struct{}, len(stops))
	for i, s := range stops {
		if err := s.Coords.Validate(fmt.Sprintf("villages[%d]", i)); err != nil {
			return err
		}
		if _, ok := seen[s.ID]; ok {
			return &domain.ValidationError{
				Field:  fmt.Sprintf("villages[%d].id", i),
				Reason: fmt.Sprintf("duplicate id %d", s.ID),
			}
		}
		seen[s.ID] = struct{}{}
	}

	return nil
}

// Solve selects the stop subset, builds the distance matrix and runs a solver.
// Instances up to ExactMaxStops use the exact solver; larger ones, or exact
// failures, use the heuristic. Only validation errors are returned.
func (o *RouteOptimizer) Solve(
	ctx context.Context,
	vehicle domain.Vehicle,
	stops []domain.Stop,
) (_ Solution, err error) {
	defer obs.Time(ctx, "route.Solve")(&err)

	if err := ValidateInput(vehicle, stops); err != nil {
		return Solution{}, fmt.Errorf("solve route: %w", err)
	}

	selected := SelectStops(stops, vehicle.MaxStops)
	if len(selected) == 0 {
		return Solution{
			Start:  vehicle.Start,
			Stops:  []domain.Stop{},
			Order:  []int{},
			Solver: domain.SolverNone,
		}, nil
	}

	m := BuildDistanceMatrix(vehicle.Start, selected)
	order, cost, solver := o.solveMatrix(ctx, m)

	idx := make([]int, len(order))
	for i, mi := range order {
		idx[i] = mi - 1
	}

	return Solution{
		Start:      vehicle.Start,
		Stops:      selected,
		Order:      idx,
		DistanceKm: cost,
		Solver:     solver,
	}, nil
}

func (o *RouteOptimizer) solveMatrix(ctx context.Context, m DistanceMatrix) ([]int, float64, string) {
	k := m.Stops()
	reqID := obs.RequestID(ctx)

	if !o.cfg.HeuristicOnly && k <= o.cfg.ExactMaxStops {
		order, cost, err := o.exact(m)
		if err == nil {
			return order, cost, domain.SolverExact
		}
		log.Printf("req_id=%s op=route.SolveExact stops=%d fallback=heuristic err=%v", reqID, k, err)
	}

	order, cost, passes := SolveHeuristic(m, o.cfg.TwoOptMaxPasses)
	log.Printf("req_id=%s op=route.SolveHeuristic stops=%d two_opt_passes=%d", reqID, k, passes)
	return order, cost, domain.SolverHeuristic
}

// Assemble walks the solution leg by leg from the vehicle start, emitting each
// stop with its cumulative distance (0.1 km) and ETA departAt + distance/speed.
// Total duration is rounded to the nearest whole minute.
func (o *RouteOptimizer) Assemble(sol Solution, departAt time.Time) *domain.RoutePlan {
	plan := &domain.RoutePlan{
		DepartAt: departAt,
		Stops:    make([]domain.RouteStop, 0, len(sol.Order)),
		Solver:   sol.Solver,
	}
	if plan.Solver == "" {
		plan.Solver = domain.SolverNone
	}

	cumKm := 0.0
	prev := sol.Start
	for _, i := range sol.Order {
		s := sol.Stops[i]
		cumKm += HaversineKm(prev, s.Coords)
		prev = s.Coords

		minutes := TravelMinutes(cumKm, o.cfg.AvgSpeedKmh)
		plan.Stops = append(plan.Stops, domain.RouteStop{
			StopID:       s.ID,
			Coords:       s.Coords,
			CumulativeKm: roundTenth(cumKm),
			ArriveAt:     departAt.Add(time.Duration(minutes * float64(time.Minute))),
		})
	}

	plan.TotalDistanceKm = roundTenth(cumKm)
	plan.TotalDurationMinutes = int(math.Round(TravelMinutes(cumKm, o.cfg.AvgSpeedKmh)))

	return plan
}
