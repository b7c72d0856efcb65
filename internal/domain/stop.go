package domain

// DefaultPriority is applied to stops that arrive without a priority.
const DefaultPriority = 0.5

// Represents a single destination the vehicle may visit.
// Priority only influences which stops are selected when the vehicle
// has a stop cap; it never changes the path cost.
type Stop struct {
	ID       int
	Coords   Coordinates
	Priority float64
}

// NewStop clamps priority into [0, 1]. A nil priority becomes DefaultPriority.
func NewStop(id int, coords Coordinates, priority *float64) Stop {
	p := DefaultPriority
	if priority != nil {
		p = min(max(*priority, 0), 1)
	}
	return Stop{ID: id, Coords: coords, Priority: p}
}

// The delivery vehicle for a single optimization call.
type Vehicle struct {
	Start Coordinates
	// MaxStops caps the instance size when non-nil.
	MaxStops *int
}

func (v Vehicle) Validate() error {
	if err := v.Start.Validate("vehicle.start"); err != nil {
		return err
	}
	if v.MaxStops != nil && *v.MaxStops < 0 {
		return &ValidationError{Field: "vehicle.max_stops", Reason: "must be >= 0", Err: ErrNegativeStopCap}
	}
	return nil
}

// Persisted destination record (a village served by the mobile vendor).
type Village struct {
	ID     int
	Name   string
	Coords Coordinates
}
