package domain

import "errors"

var (
	// ErrInvalidCoordinate is returned when latitude is outside [-90, 90] or
	// longitude outside [-180, 180].
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrIndexOutOfRange is returned when a path references a marker that
	// does not exist in the current marker sequence.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrOutsideServiceArea is returned when a point falls outside the
	// configured service area.
	ErrOutsideServiceArea = errors.New("outside service area")

	// ErrSessionNotFound is returned when a session ID is unknown.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidGraph is returned for graphs with negative edge weights or
	// marker indices that are not contiguous from zero.
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrUnknownMetric is returned for unrecognised distance metric names.
	ErrUnknownMetric = errors.New("unknown distance metric")
)
