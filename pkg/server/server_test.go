package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zen-systems/helmsman/pkg/backend"
	"github.com/zen-systems/helmsman/pkg/logging"
	"github.com/zen-systems/helmsman/pkg/metrics"
	"github.com/zen-systems/helmsman/pkg/router"
	"github.com/zen-systems/helmsman/pkg/weights"
)

func newTestServer(t *testing.T, registry *backend.Registry) *Server {
	t.Helper()
	dir := t.TempDir()
	logger := logging.Discard()
	r := router.New(registry, weights.NewStore(dir, logger), metrics.NewRecorder(dir, 100, logger), router.WithLogger(logger))
	return New(r, logger)
}

func TestHandleRoute(t *testing.T) {
	s := newTestServer(t, backend.NewBuiltinRegistry())

	body := `{"message": "Generate the json workflow for a text-to-image run"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/route", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var resp RouteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.BackendID == "" {
		t.Error("empty backend_id in response")
	}
	if resp.Profile.Domain != "workflow_design" {
		t.Errorf("profile domain = %q, want workflow_design", resp.Profile.Domain)
	}
}

func TestHandleRoute_BadBody(t *testing.T) {
	s := newTestServer(t, backend.NewBuiltinRegistry())

	req := httptest.NewRequest(http.MethodPost, "/v1/route", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRoute_EmptyRegistry(t *testing.T) {
	s := newTestServer(t, backend.NewRegistry())

	req := httptest.NewRequest(http.MethodPost, "/v1/route", strings.NewReader(`{"message": "hi"}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHandleOutcome(t *testing.T) {
	s := newTestServer(t, backend.NewBuiltinRegistry())

	body := `{"backend_id": "gpt-5.2-instant", "latency_ms": 720, "cost": 0.0004, "success": true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/outcomes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body %s", rec.Code, rec.Body.String())
	}

	statsReq := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	statsRec := httptest.NewRecorder()
	s.ServeHTTP(statsRec, statsReq)

	var report router.StatsReport
	if err := json.NewDecoder(statsRec.Body).Decode(&report); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if report.TotalRequests != 1 {
		t.Errorf("TotalRequests = %d, want 1", report.TotalRequests)
	}
	if report.UsageByBackend["gpt-5.2-instant"] != 1 {
		t.Errorf("usage = %v, want one gpt-5.2-instant record", report.UsageByBackend)
	}
}

func TestHandleOutcome_MissingBackendID(t *testing.T) {
	s := newTestServer(t, backend.NewBuiltinRegistry())

	req := httptest.NewRequest(http.MethodPost, "/v1/outcomes", strings.NewReader(`{"latency_ms": 10}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleStats_IncludesWeights(t *testing.T) {
	s := newTestServer(t, backend.NewBuiltinRegistry())

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var report router.StatsReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if report.CurrentWeights != weights.Default() {
		t.Errorf("CurrentWeights = %+v, want defaults", report.CurrentWeights)
	}
}

func TestHandleDiscover_NoDiscoverer(t *testing.T) {
	s := newTestServer(t, backend.NewBuiltinRegistry())

	req := httptest.NewRequest(http.MethodPost, "/v1/discover", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["registered"] != 3 {
		t.Errorf("registered = %d, want the 3 builtins", resp["registered"])
	}
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name     string
		registry *backend.Registry
		want     int
	}{
		{"backends present", backend.NewBuiltinRegistry(), http.StatusOK},
		{"empty registry", backend.NewRegistry(), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.registry)
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, backend.NewBuiltinRegistry())

	req := httptest.NewRequest(http.MethodGet, "/v1/route", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
