package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mintforgehq/mintforge/internal/healthcheck"
)

type staticChecker struct {
	result healthcheck.CheckResult
}

func (c staticChecker) Check(ctx context.Context) healthcheck.CheckResult {
	return c.result
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(strings.Builder), nil))
}

func performHealthz(t *testing.T, checkers ...healthcheck.Checker) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	registry := healthcheck.NewRegistry(testLogger(), checkers...)
	NewHealthHandler(testLogger(), registry).Register(e)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthzHealthy(t *testing.T) {
	t.Parallel()

	rec := performHealthz(t,
		staticChecker{healthcheck.CheckResult{ID: "telegram.bot", Status: healthcheck.StatusOK}},
	)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Status string                    `json:"status"`
		Checks []healthcheck.CheckResult `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != healthcheck.StatusOK {
		t.Fatalf("overall status = %q", body.Status)
	}
	if len(body.Checks) != 1 || body.Checks[0].ID != "telegram.bot" {
		t.Fatalf("unexpected checks: %+v", body.Checks)
	}
}

func TestHealthzDegraded(t *testing.T) {
	t.Parallel()

	rec := performHealthz(t,
		staticChecker{healthcheck.CheckResult{ID: "telegram.bot", Status: healthcheck.StatusOK}},
		staticChecker{healthcheck.CheckResult{ID: "pinning.credentials", Status: healthcheck.StatusError}},
	)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	e := echo.New()
	NewPingHandler(testLogger()).Register(e)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
