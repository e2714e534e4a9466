// Package handler implements the routegraph HTTP API.
//
// GraphHandler exposes sessions, marker insertion, edge and matrix reads,
// path resolution, optimized routes and import/export. NewRouter mounts it
// on a gorilla/mux router together with the SSE event stream.
//
// Middleware provides panic recovery, CORS and request logging.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure. Domain errors
// map to status codes in statusFor.
package handler
