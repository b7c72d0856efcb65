package domain

// Immutable geographic coordinates in degrees (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Validate reports a ValidationError when either component is outside
// [-90, 90] / [-180, 180]. NaN is rejected as well.
func (c Coordinates) Validate(field string) error {
	if !(c.Lat >= -90 && c.Lat <= 90) {
		return &ValidationError{Field: field + ".lat", Reason: "latitude must be within [-90, 90]", Err: ErrInvalidCoordinates}
	}
	if !(c.Lon >= -180 && c.Lon <= 180) {
		return &ValidationError{Field: field + ".lon", Reason: "longitude must be within [-180, 180]", Err: ErrInvalidCoordinates}
	}
	return nil
}
