package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestInit_Disabled(t *testing.T) {
	p, err := Init(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Enabled() {
		t.Error("expected telemetry to be disabled by default")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestInit_EnabledWithoutMetricExporters(t *testing.T) {
	p, err := Init(context.Background(), Config{Enabled: true, ServiceName: "hms-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		_, _ = Init(context.Background(), Config{})
	}()

	if !p.Enabled() {
		t.Error("expected telemetry to be enabled")
	}
	if len(p.shutdownFns) != 2 {
		t.Errorf("expected 2 shutdown hooks, got %d", len(p.shutdownFns))
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
	if len(p.shutdownFns) != 0 {
		t.Error("expected shutdown hooks to be cleared")
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := Config{}
	c.applyDefaults()
	if c.ServiceName != "hms-server" {
		t.Errorf("expected hms-server, got %s", c.ServiceName)
	}
	if c.MetricsInterval == 0 {
		t.Error("expected a non-zero metrics interval")
	}
}

func TestTracerAndMeter_DefaultScope(t *testing.T) {
	if Tracer("") == nil {
		t.Error("expected a tracer")
	}
	if Meter("") == nil {
		t.Error("expected a meter")
	}
}

func TestTracingMiddleware_PassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/patients")

	called := false
	h := TracingMiddleware()(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestTracingMiddleware_ReturnsHandlerError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := TracingMiddleware()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream")
	})

	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", he.Code)
	}
}
