package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/user/signup", "/user/signup"},
		{"/user/login", "/user/login"},
		{"/user/3f2b8a9e-0000-4000-8000-000000000001", "/user/:userId"},
		{"/user/", "/user/"},
		{"/static/app.css", "/static/*"},
		{"/dashboard", "/dashboard"},
	}
	for _, tt := range tests {
		if got := sanitizeEndpoint(tt.path); got != tt.want {
			t.Errorf("sanitizeEndpoint(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMetricsMiddleware_RecordsRequests(t *testing.T) {
	InitMetrics(prometheus.NewRegistry(), nil)

	app := fiber.New()
	app.Use(MetricsMiddleware())
	app.Get("/", Welcome)

	for _, target := range []string{"/", "/missing-1", "/missing-2"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 2, testutil.CollectAndCount(Metrics.RequestDuration))
	assert.Equal(t, float64(0), testutil.ToFloat64(Metrics.RequestsInFlight))
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	app := fiber.New()
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `"unhealthy"`)
	assert.Contains(t, body, `"disabled"`)
}

func TestHealth_OptionalDependencyDegrades(t *testing.T) {
	h := &HealthHandler{deps: []dependency{
		{name: "database", required: true, ping: func(context.Context) error { return nil }},
		{name: "redis", ping: func(context.Context) error { return errors.New("refused") }},
	}}
	app := fiber.New()
	app.Get("/health/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"degraded"`)
}
