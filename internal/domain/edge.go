package domain

import "fmt"

// Edge connects two marker indices with a distance in meters.
type Edge struct {
	From   int     `json:"from" yaml:"from"`
	To     int     `json:"to" yaml:"to"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// NewEdge creates a new edge
func NewEdge(from, to int, weight float64) Edge {
	return Edge{From: from, To: to, Weight: weight}
}

// Triple returns the edge as [from, to, weight].
func (e Edge) Triple() [3]float64 {
	return [3]float64{float64(e.From), float64(e.To), e.Weight}
}

// Validate checks the edge against a marker sequence of length n.
func (e Edge) Validate(n int) error {
	if e.From < 0 || e.From >= n {
		return fmt.Errorf("%w: edge from %d with %d markers", ErrIndexOutOfRange, e.From, n)
	}
	if e.To < 0 || e.To >= n {
		return fmt.Errorf("%w: edge to %d with %d markers", ErrIndexOutOfRange, e.To, n)
	}
	if e.Weight < 0 {
		return fmt.Errorf("%w: edge %d-%d has negative weight %g", ErrInvalidGraph, e.From, e.To, e.Weight)
	}
	return nil
}

// String implements fmt.Stringer
func (e Edge) String() string {
	return fmt.Sprintf("%d-%d (%.1fm)", e.From, e.To, e.Weight)
}
