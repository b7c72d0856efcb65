package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNewStopPriority(t *testing.T) {
	high := 3.0
	low := -1.0
	mid := 0.25

	cases := []struct {
		name     string
		priority *float64
		want     float64
	}{
		{"default", nil, DefaultPriority},
		{"clamped high", &high, 1},
		{"clamped low", &low, 0},
		{"kept", &mid, 0.25},
	}

	for _, tc := range cases {
		s := NewStop(7, Coordinates{Lat: 1, Lon: 2}, tc.priority)
		if s.Priority != tc.want {
			t.Errorf("%s: priority = %v, want %v", tc.name, s.Priority, tc.want)
		}
		if s.ID != 7 {
			t.Errorf("%s: id = %d, want 7", tc.name, s.ID)
		}
	}
}

func TestVehicleValidate(t *testing.T) {
	neg := -1
	zero := 0

	if err := (Vehicle{Start: Coordinates{Lat: 35.2, Lon: 126.5}, MaxStops: &zero}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := (Vehicle{Start: Coordinates{Lat: 35.2, Lon: 126.5}, MaxStops: &neg}).Validate()
	if !errors.Is(err, ErrNegativeStopCap) || !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want negative stop cap validation error", err)
	}

	err = (Vehicle{Start: Coordinates{Lat: 91, Lon: 0}}).Validate()
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("err = %v, want ErrInvalidCoordinates", err)
	}

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "vehicle.start.lat" {
		t.Fatalf("field = %v, want vehicle.start.lat", ve)
	}
}

func TestCoordinatesValidate(t *testing.T) {
	bad := []Coordinates{
		{Lat: -90.01, Lon: 0},
		{Lat: 0, Lon: 180.5},
		{Lat: math.NaN(), Lon: 0},
	}
	for _, c := range bad {
		if err := c.Validate("c"); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("Validate(%v) = %v, want ErrInvalidCoordinates", c, err)
		}
	}

	good := []Coordinates{{Lat: 90, Lon: 180}, {Lat: -90, Lon: -180}, {}}
	for _, c := range good {
		if err := c.Validate("c"); err != nil {
			t.Errorf("Validate(%v) = %v, want nil", c, err)
		}
	}
}
