package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/danmuck/sidecarctl/internal/notify"
	"github.com/danmuck/sidecarctl/internal/testutil/testlog"
)

type fakeBackend struct {
	port         uint16
	running      bool
	mode         string
	terminateErr error
	terminations atomic.Int64
}

func (f *fakeBackend) BackendPort() uint16 { return f.port }

func (f *fakeBackend) TerminateBackend() error {
	f.terminations.Add(1)
	return f.terminateErr
}

func (f *fakeBackend) BackendRunning() bool { return f.running }

func (f *fakeBackend) Mode() string { return f.mode }

func newTestServer(backend Backend) *Server {
	return New(Config{
		ListenAddr:  "127.0.0.1:0",
		CorsOrigins: []string{"http://localhost:3000"},
		Component:   "supervisor-api",
	}, backend, notify.NewHub(8))
}

func TestBackendPortRoute(t *testing.T) {
	testlog.Start(t)
	backend := &fakeBackend{port: 42801, running: true, mode: "production"}
	srv := newTestServer(backend)

	req := httptest.NewRequest(http.MethodGet, "/backend/port", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Port uint16 `json:"port"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode port response: %v", err)
	}
	if body.Port != 42801 {
		t.Fatalf("expected port 42801, got %d", body.Port)
	}
}

func TestTerminateRouteReportsSuccess(t *testing.T) {
	testlog.Start(t)
	backend := &fakeBackend{port: 8000, mode: "production"}
	srv := newTestServer(backend)

	req := httptest.NewRequest(http.MethodPost, "/backend/terminate", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := backend.terminations.Load(); got != 1 {
		t.Fatalf("expected one terminate call, got %d", got)
	}
}

func TestTerminateRouteSurfacesKillError(t *testing.T) {
	testlog.Start(t)
	backend := &fakeBackend{port: 8000, mode: "production", terminateErr: errors.New("kill failed")}
	srv := newTestServer(backend)

	req := httptest.NewRequest(http.MethodPost, "/backend/terminate", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestHealthzReportsBackendState(t *testing.T) {
	testlog.Start(t)
	backend := &fakeBackend{port: 42801, running: true, mode: "production"}
	srv := newTestServer(backend)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Status         string `json:"status"`
		Component      string `json:"component"`
		Mode           string `json:"mode"`
		BackendRunning bool   `json:"backend_running"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode healthz response: %v", err)
	}
	if body.Status != "ok" || body.Component != "supervisor-api" {
		t.Fatalf("unexpected healthz identity: %+v", body)
	}
	if body.Mode != "production" || !body.BackendRunning {
		t.Fatalf("unexpected backend state: %+v", body)
	}
}

func TestMetricsRouteServesPrometheus(t *testing.T) {
	testlog.Start(t)
	srv := newTestServer(&fakeBackend{port: 8000, mode: "development"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("expected metrics exposition body")
	}
}
