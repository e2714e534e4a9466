package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts the API on a gorilla/mux router. events, when non-nil,
// serves the SSE stream at /events.
func NewRouter(h *GraphHandler, events http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Sessions
	api.HandleFunc("/sessions", h.ListSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete)

	// Graph
	api.HandleFunc("/sessions/{id}/graph", h.GetGraph).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/markers", h.ListMarkers).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/markers", h.InsertMarker).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/edges", h.ListEdges).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/matrix", h.DistanceMatrix).Methods(http.MethodGet)

	// Routes
	api.HandleFunc("/sessions/{id}/resolve", h.ResolvePath).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/route", h.OptimizedRoute).Methods(http.MethodGet)

	// Import/Export
	api.HandleFunc("/sessions/{id}/export/{format}", h.Export).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/import/{format}", h.Import).Methods(http.MethodPost)

	api.HandleFunc("/service-area", h.GetServiceArea).Methods(http.MethodGet)

	if events != nil {
		r.Handle("/events", events).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.writeError(w, "Not found", req.URL.Path, http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.writeError(w, "Method not allowed", req.Method+" "+req.URL.Path, http.StatusMethodNotAllowed)
	})

	return r
}
