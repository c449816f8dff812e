package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(_ context.Context) error {
	return f.err
}

func readinessApp(pg Pinger) *fiber.App {
	h := NewHealthCheckHandler(pg, nil)
	app := fiber.New()
	app.Get("/health", h.HandleHealthCheck())
	app.Get("/ready", h.HandleReadinessCheck())
	return app
}

func TestHealthCheck(t *testing.T) {
	resp, err := readinessApp(fakePinger{}).Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestReadinessCheck_Healthy(t *testing.T) {
	resp, err := readinessApp(fakePinger{}).Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body HealthCheckResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, "healthy", body.Checks["postgresql"].Status)
	assert.NotContains(t, body.Checks, "redis")
}

func TestReadinessCheck_DatabaseDown(t *testing.T) {
	resp, err := readinessApp(fakePinger{err: errors.New("connection refused")}).
		Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body HealthCheckResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.Contains(t, body.Checks["postgresql"].Message, "connection refused")
}
