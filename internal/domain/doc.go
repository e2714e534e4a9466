// Package domain defines the core types and pure graph logic for routegraph.
//
// This package turns a sequence of geographic markers into a weighted graph
// and turns externally optimized paths back into drawable coordinates.
//
// # Core Types
//
// Coordinate is an immutable latitude/longitude pair in degrees.
//
// Marker is a Coordinate plus its index in a session's ordered marker
// sequence. The index is the marker's identity; markers are append-only.
//
// Edge is a weighted connection between two marker indices, with the weight
// being a distance in meters.
//
// Graph is the explicit per-session store object holding the marker sequence
// and every edge accumulated so far.
//
// # Star Insertion
//
// GraphBuilder connects one new node to every existing node and never
// connects existing nodes to each other. The graph therefore grows
// incrementally and is never recomputed in full. Inserting the same physical
// point twice is allowed and yields a second node with its own edges.
//
// # Path Resolution
//
// Resolve maps an ordered Path of marker indices onto the marker sequence.
// An empty path resolves to an empty route; it is a valid result, not an
// error.
//
// # Distance Metrics
//
// DistanceMetric is pluggable. Haversine is the default, Equirectangular is
// a cheaper planar approximation. Every metric is symmetric, non-negative and
// zero for identical points.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No database or external dependencies
// - Pure functions, safe for concurrent use on distinct inputs
package domain
