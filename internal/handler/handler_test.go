package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"routegraph/internal/cache"
	"routegraph/internal/domain"
	"routegraph/internal/optimizer"
	"routegraph/internal/repository/sqldb"
	"routegraph/internal/service"
)

type failingOptimizer struct{}

func (failingOptimizer) Optimize(ctx context.Context, p optimizer.Problem) (domain.Path, error) {
	return nil, optimizer.ErrOptimizerFailed
}

func newTestServer(t *testing.T, opt optimizer.Optimizer) (http.Handler, *service.GraphService) {
	t.Helper()
	repo, err := sqldb.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	svc := service.NewGraphService(repo, nil, opt, cache.NewRouteCache(), service.NewEventBus())
	router := NewRouter(NewGraphHandler(svc), nil)
	return Wrap(router, nil), svc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/sessions", `{"name":"abu dhabi"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d, body %s", rec.Code, rec.Body)
	}
	var session domain.Session
	decode(t, rec, &session)
	return session.ID
}

func insertMarkers(t *testing.T, h http.Handler, id string, bodies ...string) {
	t.Helper()
	for _, body := range bodies {
		rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/markers", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("insert %s: status %d, body %s", body, rec.Code, rec.Body)
		}
	}
}

func TestSessionsAPI(t *testing.T) {
	h, _ := newTestServer(t, nil)

	t.Run("create without body", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/sessions", "")
		if rec.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", rec.Code)
		}
	})

	id := createSession(t, h)

	t.Run("get", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/sessions/"+id, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var session domain.Session
		decode(t, rec, &session)
		if session.Name != "abu dhabi" {
			t.Errorf("Name = %q", session.Name)
		}
	})

	t.Run("list", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/sessions", "")
		var sessions []domain.Session
		decode(t, rec, &sessions)
		if len(sessions) != 2 {
			t.Errorf("got %d sessions, want 2", len(sessions))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if rec := do(t, h, http.MethodDelete, "/api/sessions/"+id, ""); rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
		rec := do(t, h, http.MethodGet, "/api/sessions/"+id, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status after delete = %d, want 404", rec.Code)
		}
		var errResp ErrorResponse
		decode(t, rec, &errResp)
		if errResp.Error == "" || errResp.Details == "" {
			t.Errorf("error response = %+v", errResp)
		}
	})
}

func TestMarkersAPI(t *testing.T) {
	h, _ := newTestServer(t, nil)
	id := createSession(t, h)
	insertMarkers(t, h, id,
		`{"lat":24.47,"lng":54.36}`,
		`{"lat":24.46,"lng":54.37}`,
		`{"lat":24.45,"lng":54.39}`,
	)

	t.Run("insert returns marker and star edges", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/markers", `{"lat":24.50,"lng":54.40}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var result service.InsertResult
		decode(t, rec, &result)
		if result.Marker.Index != 3 || len(result.Edges) != 3 {
			t.Errorf("result = %+v", result)
		}
		for i, e := range result.Edges {
			if e.From != i || e.To != 3 || e.Weight <= 0 {
				t.Errorf("edge %d = %+v", i, e)
			}
		}
	})

	t.Run("list markers and edges", func(t *testing.T) {
		var markers []domain.Marker
		decode(t, do(t, h, http.MethodGet, "/api/sessions/"+id+"/markers", ""), &markers)
		if len(markers) != 4 {
			t.Errorf("got %d markers, want 4", len(markers))
		}
		var edges []domain.Edge
		decode(t, do(t, h, http.MethodGet, "/api/sessions/"+id+"/edges", ""), &edges)
		if len(edges) != 6 {
			t.Errorf("got %d edges, want 6", len(edges))
		}
	})

	t.Run("matrix", func(t *testing.T) {
		var body struct {
			Matrix [][]float64 `json:"matrix"`
		}
		decode(t, do(t, h, http.MethodGet, "/api/sessions/"+id+"/matrix", ""), &body)
		if len(body.Matrix) != 4 || body.Matrix[0][0] != 0 || body.Matrix[0][1] <= 0 {
			t.Errorf("matrix = %v", body.Matrix)
		}
	})

	t.Run("graph", func(t *testing.T) {
		var snapshot domain.GraphSnapshot
		decode(t, do(t, h, http.MethodGet, "/api/sessions/"+id+"/graph", ""), &snapshot)
		if snapshot.Session == nil || snapshot.Session.Version != 4 {
			t.Errorf("session = %+v, want version 4", snapshot.Session)
		}
	})

	errorCases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"invalid latitude", "/api/sessions/" + id + "/markers", `{"lat":95,"lng":54}`, http.StatusBadRequest},
		{"missing lng", "/api/sessions/" + id + "/markers", `{"lat":24}`, http.StatusBadRequest},
		{"unknown field", "/api/sessions/" + id + "/markers", `{"lat":24,"lng":54,"alt":3}`, http.StatusBadRequest},
		{"unknown session", "/api/sessions/missing/markers", `{"lat":24,"lng":54}`, http.StatusNotFound},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
		})
	}
}

func TestServiceAreaAPI(t *testing.T) {
	h, svc := newTestServer(t, nil)
	if err := svc.SetServiceArea(domain.ServiceArea{MinLat: 24, MinLng: 54, MaxLat: 25, MaxLng: 55}); err != nil {
		t.Fatal(err)
	}
	id := createSession(t, h)

	rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/markers", `{"lat":40.7,"lng":-74.0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for point outside service area", rec.Code)
	}

	var body struct {
		Area         domain.ServiceArea `json:"area"`
		Unrestricted bool               `json:"unrestricted"`
	}
	decode(t, do(t, h, http.MethodGet, "/api/service-area", ""), &body)
	if body.Unrestricted || body.Area.MaxLat != 25 {
		t.Errorf("service area = %+v", body)
	}
}

func TestRoutesAPI(t *testing.T) {
	h, _ := newTestServer(t, nil)
	id := createSession(t, h)
	insertMarkers(t, h, id,
		`{"lat":24.47,"lng":54.36}`,
		`{"lat":24.46,"lng":54.37}`,
		`{"lat":24.45,"lng":54.39}`,
	)

	t.Run("resolve keeps path order", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/resolve", `{"path":[2,0,1]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var route domain.Route
		decode(t, rec, &route)
		want := []domain.Coordinate{{Lat: 24.45, Lng: 54.39}, {Lat: 24.47, Lng: 54.36}, {Lat: 24.46, Lng: 54.37}}
		if len(route.Coordinates) != 3 {
			t.Fatalf("got %d coordinates", len(route.Coordinates))
		}
		for i, c := range route.Coordinates {
			if !c.Equal(want[i]) {
				t.Errorf("coordinate %d = %v, want %v", i, c, want[i])
			}
		}
	})

	t.Run("resolve empty path", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/resolve", `{"path":[]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var route domain.Route
		decode(t, rec, &route)
		if !route.Empty() {
			t.Errorf("expected empty route, got %+v", route)
		}
	})

	t.Run("resolve out of range", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/resolve", `{"path":[5]}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("optimized route", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/sessions/"+id+"/route", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var route domain.Route
		decode(t, rec, &route)
		if len(route.Path) != 3 || route.DistanceMeters <= 0 {
			t.Errorf("route = %+v", route)
		}
	})
}

func TestOptimizerFailure(t *testing.T) {
	h, _ := newTestServer(t, failingOptimizer{})
	id := createSession(t, h)
	insertMarkers(t, h, id, `{"lat":24.47,"lng":54.36}`)

	rec := do(t, h, http.MethodGet, "/api/sessions/"+id+"/route", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestImportExportAPI(t *testing.T) {
	h, _ := newTestServer(t, nil)
	source := createSession(t, h)
	insertMarkers(t, h, source, `{"lat":24.47,"lng":54.36}`, `{"lat":24.46,"lng":54.37}`)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/sessions/"+source+"/export/"+format, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("export status = %d, body %s", rec.Code, rec.Body)
			}
			if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, source) {
				t.Errorf("Content-Disposition = %q", cd)
			}
			exported := rec.Body.String()

			target := createSession(t, h)
			req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+target+"/import/"+format, bytes.NewBufferString(exported))
			imp := httptest.NewRecorder()
			h.ServeHTTP(imp, req)
			if imp.Code != http.StatusOK {
				t.Fatalf("import status = %d, body %s", imp.Code, imp.Body)
			}
			var result service.ImportResult
			decode(t, imp, &result)
			if result.Markers != 2 || result.Edges != 1 {
				t.Errorf("result = %+v", result)
			}
		})
	}

	t.Run("unsupported format", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/sessions/"+source+"/export/csv", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed import", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/sessions/"+source+"/import/json", `{"markers":`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("negative edge weight is a client error", func(t *testing.T) {
		body := `{"markers":[[24.47,54.36],[24.46,54.37]],"edges":[[0,1,-5]]}`
		rec := do(t, h, http.MethodPost, "/api/sessions/"+source+"/import/json", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400, body %s", rec.Code, rec.Body)
		}
	})

	t.Run("format name is case insensitive", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/sessions/"+source+"/export/JSON", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.HasSuffix(cd, ".json") {
			t.Errorf("Content-Disposition = %q, want .json filename", cd)
		}
	})
}

func TestRouterFallbacks(t *testing.T) {
	h, _ := newTestServer(t, nil)

	t.Run("health", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/healthz", "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
			t.Errorf("status = %d, body %s", rec.Code, rec.Body)
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		if rec := do(t, h, http.MethodGet, "/api/nope", ""); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		if rec := do(t, h, http.MethodPut, "/api/sessions", ""); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
		req.Header.Set("Origin", "http://map.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("missing CORS header")
		}
	})
}
