package controllerImp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"

	"fert/database"
)

type readiness bool

func (r readiness) Ready(context.Context) bool { return bool(r) }

func health(t *testing.T, h *HealthCtrl) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := h.Health(c); err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	return rec.Code, body
}

func TestHealthOK(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "h.db"))
	if err != nil {
		t.Fatal(err)
	}
	code, body := health(t, NewHealthCtrl(db, readiness(true), "native"))
	if code != http.StatusOK {
		t.Fatalf("status %d: %v", code, body)
	}
	if body["backend"] != "native" {
		t.Fatalf("backend: %v", body["backend"])
	}
}

func TestHealthDegraded(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "h.db"))
	if err != nil {
		t.Fatal(err)
	}
	code, body := health(t, NewHealthCtrl(db, readiness(false), "sidecar"))
	if code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", code)
	}
	checks := body["checks"].(map[string]any)
	if checks["model"].(map[string]any)["ok"] != false {
		t.Fatalf("model check: %v", checks["model"])
	}

	code, _ = health(t, NewHealthCtrl(nil, readiness(true), "native"))
	if code != http.StatusServiceUnavailable {
		t.Fatalf("nil db should be unhealthy, got %d", code)
	}
}
