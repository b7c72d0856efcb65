package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village-route-service/internal/adapters/cache"
	"village-route-service/internal/domain"
	"village-route-service/internal/ports"
)

type fakeVillageRepository struct {
	villages map[int]*domain.Village
	calls    int
	err      error
}

func (f *fakeVillageRepository) ListVillages(ctx context.Context) ([]*domain.Village, error) {
	out := make([]*domain.Village, 0, len(f.villages))
	for _, v := range f.villages {
		out = append(out, v)
	}
	return out, f.err
}

func (f *fakeVillageRepository) GetVillagesByIDs(ctx context.Context, ids []int) (map[int]*domain.Village, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int]*domain.Village, len(ids))
	for _, id := range ids {
		if v, ok := f.villages[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

type failingRouteCache struct{}

func (failingRouteCache) Get(ctx context.Context, key string) (ports.CachedRoute, bool, error) {
	return ports.CachedRoute{}, false, errors.New("cache down")
}

func (failingRouteCache) Put(ctx context.Context, key string, route ports.CachedRoute) error {
	return errors.New("cache down")
}

func newRedisCache(t *testing.T) (*cache.RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisRouteCache(client, time.Hour), mr
}

func coords(lat, lon float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lon: lon}
}

func stopIDs(plan *domain.RoutePlan) []int {
	out := make([]int, 0, len(plan.Stops))
	for _, s := range plan.Stops {
		out = append(out, s.StopID)
	}
	return out
}

func TestPlanRouteResolvesVillages(t *testing.T) {
	repo := &fakeVillageRepository{villages: map[int]*domain.Village{
		1: {ID: 1, Name: "A", Coords: domain.Coordinates{Lat: 2, Lon: 0}},
		2: {ID: 2, Name: "B", Coords: domain.Coordinates{Lat: 1, Lon: 0}},
	}}
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig()), Villages: repo}

	plan, err := svc.PlanRoute(context.Background(), PlanRouteRequest{
		Stops: []StopInput{{ID: 1}, {ID: 2}, {ID: 3, Coords: coords(0.5, 0)}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, []int{3, 2, 1}, stopIDs(plan))
	assert.Equal(t, 222.4, plan.TotalDistanceKm)
	assert.Equal(t, fixedNow, plan.DepartAt)
}

func TestPlanRouteSkipsLookupWhenCoordinatesGiven(t *testing.T) {
	repo := &fakeVillageRepository{err: errors.New("must not be called")}
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig()), Villages: repo}

	_, err := svc.PlanRoute(context.Background(), PlanRouteRequest{
		Stops: []StopInput{{ID: 1, Coords: coords(1, 0)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.calls)
}

func TestPlanRouteUnknownVillage(t *testing.T) {
	repo := &fakeVillageRepository{villages: map[int]*domain.Village{}}
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig()), Villages: repo}

	_, err := svc.PlanRoute(context.Background(), PlanRouteRequest{Stops: []StopInput{{ID: 42}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "village 42 not found", nf.Error())
}

func TestPlanRouteMissingCoordinatesWithoutRepository(t *testing.T) {
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig())}

	_, err := svc.PlanRoute(context.Background(), PlanRouteRequest{Stops: []StopInput{{ID: 1}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestPlanRouteRepositoryError(t *testing.T) {
	repo := &fakeVillageRepository{err: errors.New("db gone")}
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig()), Villages: repo}

	_, err := svc.PlanRoute(context.Background(), PlanRouteRequest{Stops: []StopInput{{ID: 1}}})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrValidation))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestPlanRouteDepartAt(t *testing.T) {
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig())}
	depart := time.Date(2026, 5, 1, 6, 30, 0, 0, time.UTC)

	plan, err := svc.PlanRoute(context.Background(), PlanRouteRequest{
		Stops:    []StopInput{{ID: 1, Coords: coords(0.5, 0)}},
		DepartAt: &depart,
	})
	require.NoError(t, err)
	assert.Equal(t, depart, plan.DepartAt)
	assert.WithinDuration(t, depart.Add(95*time.Minute+20*time.Second), plan.Stops[0].ArriveAt, time.Minute)
}

func TestPlanRouteCachesSolution(t *testing.T) {
	rc, mr := newRedisCache(t)
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig()), Cache: rc}
	ctx := context.Background()

	req := PlanRouteRequest{Stops: []StopInput{
		{ID: 1, Coords: coords(2, 0)},
		{ID: 2, Coords: coords(1, 0)},
		{ID: 3, Coords: coords(0.5, 0)},
	}}

	first, err := svc.PlanRoute(ctx, req)
	require.NoError(t, err)
	require.Len(t, mr.Keys(), 1)

	key := mr.Keys()[0]
	cr, ok, err := rc.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{3, 2, 1}, cr.StopIDs)
	assert.Equal(t, domain.SolverExact, cr.Solver)

	second, err := svc.PlanRoute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanRouteUsesCachedOrder(t *testing.T) {
	rc, _ := newRedisCache(t)
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig()), Cache: rc}
	ctx := context.Background()

	stops := []StopInput{
		{ID: 1, Coords: coords(1, 0)},
		{ID: 2, Coords: coords(2, 0)},
	}
	selected := []domain.Stop{
		domain.NewStop(1, *stops[0].Coords, nil),
		domain.NewStop(2, *stops[1].Coords, nil),
	}

	// Plant a deliberately worse order; a hit must return it unchanged.
	key := svc.cacheKey(domain.Coordinates{}, selected)
	require.NoError(t, rc.Put(ctx, key, ports.CachedRoute{StopIDs: []int{2, 1}, Solver: domain.SolverHeuristic}))

	plan, err := svc.PlanRoute(ctx, PlanRouteRequest{Stops: stops})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, stopIDs(plan))
	assert.Equal(t, domain.SolverHeuristic, plan.Solver)
	assert.Equal(t, 333.6, plan.TotalDistanceKm)
}

func TestPlanRouteIgnoresStaleCacheEntry(t *testing.T) {
	rc, _ := newRedisCache(t)
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig()), Cache: rc}
	ctx := context.Background()

	stops := []StopInput{
		{ID: 1, Coords: coords(1, 0)},
		{ID: 2, Coords: coords(2, 0)},
	}
	selected := []domain.Stop{
		domain.NewStop(1, *stops[0].Coords, nil),
		domain.NewStop(2, *stops[1].Coords, nil),
	}

	key := svc.cacheKey(domain.Coordinates{}, selected)
	require.NoError(t, rc.Put(ctx, key, ports.CachedRoute{StopIDs: []int{2, 7}, Solver: domain.SolverHeuristic}))

	plan, err := svc.PlanRoute(ctx, PlanRouteRequest{Stops: stops})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, stopIDs(plan))
	assert.Equal(t, domain.SolverExact, plan.Solver)
}

func TestPlanRouteCacheKeyTracksInstance(t *testing.T) {
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig())}
	a := []domain.Stop{{ID: 1, Coords: domain.Coordinates{Lat: 1}}, {ID: 2, Coords: domain.Coordinates{Lat: 2}}}
	b := []domain.Stop{{ID: 1, Coords: domain.Coordinates{Lat: 1}}, {ID: 2, Coords: domain.Coordinates{Lat: 2.0001}}}

	start := domain.Coordinates{}
	assert.Equal(t, svc.cacheKey(start, a), svc.cacheKey(start, a))
	assert.NotEqual(t, svc.cacheKey(start, a), svc.cacheKey(start, b))
	assert.NotEqual(t, svc.cacheKey(start, a), svc.cacheKey(domain.Coordinates{Lat: 0.1}, a))

	other := &PlanService{Optimizer: newTestOptimizer(OptimizerConfig{ExactMaxStops: 3})}
	assert.NotEqual(t, svc.cacheKey(start, a), other.cacheKey(start, a))

	heuristic := &PlanService{Optimizer: newTestOptimizer(OptimizerConfig{HeuristicOnly: true})}
	assert.NotEqual(t, svc.cacheKey(start, a), heuristic.cacheKey(start, a))
}

func TestPlanRouteSurvivesCacheFailure(t *testing.T) {
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig()), Cache: failingRouteCache{}}

	plan, err := svc.PlanRoute(context.Background(), PlanRouteRequest{
		Stops: []StopInput{{ID: 1, Coords: coords(1, 0)}, {ID: 2, Coords: coords(0.5, 0)}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, stopIDs(plan))
}

func TestPlanRouteValidation(t *testing.T) {
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig())}
	neg := -1

	_, err := svc.PlanRoute(context.Background(), PlanRouteRequest{
		Vehicle: domain.Vehicle{MaxStops: &neg},
	})
	assert.True(t, errors.Is(err, domain.ErrNegativeStopCap))

	_, err = svc.PlanRoute(context.Background(), PlanRouteRequest{
		Stops: []StopInput{{ID: 1, Coords: coords(91, 0)}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidCoordinates))
}

type fakeVehicleRepository struct {
	vehicles map[int]*domain.FleetVehicle
}

func (f *fakeVehicleRepository) ListVehicles(ctx context.Context) ([]*domain.FleetVehicle, error) {
	out := make([]*domain.FleetVehicle, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVehicleRepository) GetVehicle(ctx context.Context, id int) (*domain.FleetVehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "vehicle", ID: id}
	}
	return v, nil
}

func TestPlanRouteStartsFromRegisteredVehicle(t *testing.T) {
	fleet := &fakeVehicleRepository{vehicles: map[int]*domain.FleetVehicle{
		5: {ID: 5, Name: "Truck", Status: domain.VehicleStatusActive, Coords: domain.Coordinates{Lat: 2, Lon: 0}},
	}}
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig()), Vehicles: fleet}
	id := 5

	plan, err := svc.PlanRoute(context.Background(), PlanRouteRequest{
		VehicleID: &id,
		Stops:     []StopInput{{ID: 1, Coords: coords(0.5, 0)}, {ID: 2, Coords: coords(1, 0)}},
	})
	require.NoError(t, err)
	// Starting at lat 2 the nearer stop is now id 2.
	assert.Equal(t, []int{2, 1}, stopIDs(plan))
	assert.Equal(t, 166.8, plan.TotalDistanceKm)
}

func TestPlanRouteUnknownVehicle(t *testing.T) {
	svc := &PlanService{
		Optimizer: newTestOptimizer(DefaultOptimizerConfig()),
		Vehicles:  &fakeVehicleRepository{vehicles: map[int]*domain.FleetVehicle{}},
	}
	id := 8

	_, err := svc.PlanRoute(context.Background(), PlanRouteRequest{VehicleID: &id})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "vehicle", nf.Resource)
}

func TestPlanRouteVehicleWithoutRegistry(t *testing.T) {
	svc := &PlanService{Optimizer: newTestOptimizer(DefaultOptimizerConfig())}
	id := 1

	_, err := svc.PlanRoute(context.Background(), PlanRouteRequest{VehicleID: &id})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
