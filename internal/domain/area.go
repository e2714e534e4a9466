package domain

import "fmt"

// ServiceArea is a latitude/longitude bounding box. The zero value places no
// restriction on points.
type ServiceArea struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MinLng float64 `json:"min_lng" yaml:"min_lng"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng"`
}

// Unrestricted reports whether the area is the zero value
func (a ServiceArea) Unrestricted() bool {
	return a == ServiceArea{}
}

// Validate checks that the corners are valid coordinates and not inverted.
func (a ServiceArea) Validate() error {
	if a.Unrestricted() {
		return nil
	}
	if err := (Coordinate{Lat: a.MinLat, Lng: a.MinLng}).Validate(); err != nil {
		return fmt.Errorf("service area min corner: %w", err)
	}
	if err := (Coordinate{Lat: a.MaxLat, Lng: a.MaxLng}).Validate(); err != nil {
		return fmt.Errorf("service area max corner: %w", err)
	}
	if a.MinLat > a.MaxLat || a.MinLng > a.MaxLng {
		return fmt.Errorf("service area min corner (%g, %g) exceeds max corner (%g, %g)",
			a.MinLat, a.MinLng, a.MaxLat, a.MaxLng)
	}
	return nil
}

// Contains reports whether c lies inside the area, edges included.
func (a ServiceArea) Contains(c Coordinate) bool {
	if a.Unrestricted() {
		return true
	}
	return c.Lat >= a.MinLat && c.Lat <= a.MaxLat &&
		c.Lng >= a.MinLng && c.Lng <= a.MaxLng
}

// Check returns ErrOutsideServiceArea when c lies outside the area
func (a ServiceArea) Check(c Coordinate) error {
	if !a.Contains(c) {
		return fmt.Errorf("%w: %v", ErrOutsideServiceArea, c)
	}
	return nil
}
