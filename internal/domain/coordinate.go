package domain

import (
	"fmt"
	"math"
)

const (
	// Epsilon is the tolerance used when comparing coordinates, roughly one
	// centimetre at the equator.
	Epsilon = 1e-7
)

// Coordinate is a latitude/longitude pair in degrees (WGS84).
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// NewCoordinate creates a validated coordinate
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	c := Coordinate{Lat: lat, Lng: lng}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate checks that the coordinate lies on the globe.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("%w: %v is not a finite value", ErrInvalidCoordinate, c)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %g outside [-90, 90]", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %g outside [-180, 180]", ErrInvalidCoordinate, c.Lng)
	}
	return nil
}

// Equal reports whether both components differ by at most Epsilon.
func (c Coordinate) Equal(o Coordinate) bool {
	return math.Abs(c.Lat-o.Lat) <= Epsilon && math.Abs(c.Lng-o.Lng) <= Epsilon
}

// Pair returns the coordinate as [lat, lng].
func (c Coordinate) Pair() [2]float64 {
	return [2]float64{c.Lat, c.Lng}
}

// String implements fmt.Stringer so %v and %s print readable coordinates.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%.7f, %.7f)", c.Lat, c.Lng)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
