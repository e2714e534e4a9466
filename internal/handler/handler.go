package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"routegraph/internal/codec"
	"routegraph/internal/domain"
	"routegraph/internal/optimizer"
	"routegraph/internal/service"
)

// Request body limits
const (
	maxJSONBody   = 1 << 20
	maxImportBody = 16 << 20
)

// GraphHandler handles session graph API requests
type GraphHandler struct {
	svc *service.GraphService
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(svc *service.GraphService) *GraphHandler {
	return &GraphHandler{svc: svc}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Health reports liveness and route cache counters
func (h *GraphHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{
		"status":      "ok",
		"route_cache": h.svc.CacheStats(),
	}, http.StatusOK)
}

// ============================================================================
// Sessions
// ============================================================================

type createSessionRequest struct {
	Name string `json:"name"`
}

// ListSessions returns all sessions
func (h *GraphHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListSessions(r.Context())
	if err != nil {
		h.fail(w, "Failed to list sessions", err)
		return
	}
	h.writeJSON(w, sessions, http.StatusOK)
}

// CreateSession creates an empty session. The body is optional.
func (h *GraphHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.svc.CreateSession(r.Context(), req.Name)
	if err != nil {
		h.fail(w, "Failed to create session", err)
		return
	}
	h.writeJSON(w, session, http.StatusCreated)
}

// GetSession returns a single session
func (h *GraphHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "Failed to get session", err)
		return
	}
	h.writeJSON(w, session, http.StatusOK)
}

// DeleteSession deletes a session and its graph
func (h *GraphHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, "Failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Graph
// ============================================================================

// GetGraph returns the session graph in wire form
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.GetGraph(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "Failed to get graph", err)
		return
	}
	h.writeJSON(w, snapshot, http.StatusOK)
}

// ListMarkers returns the session's markers in index order
func (h *GraphHandler) ListMarkers(w http.ResponseWriter, r *http.Request) {
	markers, err := h.svc.ListMarkers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "Failed to list markers", err)
		return
	}
	h.writeJSON(w, markers, http.StatusOK)
}

type insertMarkerRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// InsertMarker appends a marker and returns it with its star edges
func (h *GraphHandler) InsertMarker(w http.ResponseWriter, r *http.Request) {
	var req insertMarkerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Lat == nil || req.Lng == nil {
		h.writeError(w, "Invalid request body", "lat and lng are required", http.StatusBadRequest)
		return
	}

	result, err := h.svc.InsertNode(r.Context(), mux.Vars(r)["id"], domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng})
	if err != nil {
		h.fail(w, "Failed to insert marker", err)
		return
	}
	h.writeJSON(w, result, http.StatusCreated)
}

// ListEdges returns the session's edges
func (h *GraphHandler) ListEdges(w http.ResponseWriter, r *http.Request) {
	edges, err := h.svc.ListEdges(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "Failed to list edges", err)
		return
	}
	h.writeJSON(w, edges, http.StatusOK)
}

// DistanceMatrix returns the NxN distance matrix in meters
func (h *GraphHandler) DistanceMatrix(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.svc.DistanceMatrix(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "Failed to compute distance matrix", err)
		return
	}
	h.writeJSON(w, map[string]interface{}{"matrix": matrix}, http.StatusOK)
}

// ============================================================================
// Routes
// ============================================================================

type resolveRequest struct {
	Path domain.Path `json:"path"`
}

// ResolvePath maps a path of marker indices onto coordinates
func (h *GraphHandler) ResolvePath(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	route, err := h.svc.ResolvePath(r.Context(), mux.Vars(r)["id"], req.Path)
	if err != nil {
		h.fail(w, "Failed to resolve path", err)
		return
	}
	h.writeJSON(w, route, http.StatusOK)
}

// OptimizedRoute returns the optimizer's route over the session graph
func (h *GraphHandler) OptimizedRoute(w http.ResponseWriter, r *http.Request) {
	route, err := h.svc.OptimizedRoute(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "Failed to compute route", err)
		return
	}
	h.writeJSON(w, route, http.StatusOK)
}

// ============================================================================
// Import / export
// ============================================================================

// Export writes the session graph as JSON or YAML
func (h *GraphHandler) Export(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	c, err := codec.ForFormat(vars["format"])
	if err != nil {
		h.fail(w, "Failed to export graph", err)
		return
	}

	// Buffer so failures can still be reported as JSON errors
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), id, c.Format(), &buf); err != nil {
		h.fail(w, "Failed to export graph", err)
		return
	}

	contentType, ext := "application/json", "json"
	if c.Format() == "yaml" {
		contentType, ext = "application/x-yaml", "yml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", id, ext))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write export: %v", err)
	}
}

// Import replaces the session graph with the request body
func (h *GraphHandler) Import(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	body := http.MaxBytesReader(w, r.Body, maxImportBody)

	result, err := h.svc.Import(r.Context(), vars["id"], vars["format"], body)
	if err != nil {
		h.fail(w, "Failed to import graph", err)
		return
	}
	h.writeJSON(w, result, http.StatusOK)
}

// GetServiceArea returns the active service area
func (h *GraphHandler) GetServiceArea(w http.ResponseWriter, r *http.Request) {
	area := h.svc.ServiceArea()
	h.writeJSON(w, map[string]interface{}{
		"area":         area,
		"unrestricted": area.Unrestricted(),
	}, http.StatusOK)
}

// ============================================================================
// Helpers
// ============================================================================

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, optimizer.ErrOptimizerFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrOutsideServiceArea),
		errors.Is(err, domain.ErrInvalidGraph),
		errors.Is(err, codec.ErrMalformed),
		errors.Is(err, codec.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status, logging server-side failures
func (h *GraphHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s: %v", msg, err)
	}
	h.writeError(w, msg, err.Error(), status)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func (h *GraphHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *GraphHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
