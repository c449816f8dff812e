package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheckHandler provides health and readiness checks
type HealthCheckHandler struct {
	pg  Pinger
	rdb redis.UniversalClient
}

// NewHealthCheckHandler creates a health handler; rdb may be nil when the
// redis session backend is not in use
func NewHealthCheckHandler(pg Pinger, rdb redis.UniversalClient) *HealthCheckHandler {
	return &HealthCheckHandler{
		pg:  pg,
		rdb: rdb,
	}
}

// HealthCheckResponse represents the health status
type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Uptime    float64                `json:"uptime_seconds"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus represents individual component status
type CheckStatus struct {
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	Latency     float64 `json:"latency_ms"`
	LastChecked string  `json:"last_checked"`
}

var startTime = time.Now()

// HandleHealthCheck reports that the process is serving requests
func (h *HealthCheckHandler) HandleHealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(HealthCheckResponse{
			Status:    "healthy",
			Timestamp: time.Now().Format(time.RFC3339),
			Uptime:    time.Since(startTime).Seconds(),
			Checks: map[string]CheckStatus{
				"server": {
					Status:      "up",
					Message:     "Server is running",
					LastChecked: time.Now().Format(time.RFC3339),
				},
			},
		})
	}
}

// HandleReadinessCheck pings every backing store
func (h *HealthCheckHandler) HandleReadinessCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		response := HealthCheckResponse{
			Status:    "ready",
			Timestamp: time.Now().Format(time.RFC3339),
			Uptime:    time.Since(startTime).Seconds(),
			Checks:    make(map[string]CheckStatus),
		}

		response.Checks["postgresql"] = check(ctx, "PostgreSQL", h.pg.PingContext)
		if h.rdb != nil {
			response.Checks["redis"] = check(ctx, "Redis", func(ctx context.Context) error {
				return h.rdb.Ping(ctx).Err()
			})
		}

		for _, status := range response.Checks {
			if status.Status != "healthy" {
				response.Status = "degraded"
				return c.Status(fiber.StatusServiceUnavailable).JSON(response)
			}
		}

		return c.JSON(response)
	}
}

func check(ctx context.Context, name string, ping func(ctx context.Context) error) CheckStatus {
	start := time.Now()
	err := ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return CheckStatus{
			Status:      "unhealthy",
			Message:     name + " ping failed: " + err.Error(),
			Latency:     float64(latency),
			LastChecked: time.Now().Format(time.RFC3339),
		}
	}

	status := "healthy"
	message := name + " is responding"
	if latency > 100 {
		message = name + " latency is high"
	}

	return CheckStatus{
		Status:      status,
		Message:     message,
		Latency:     float64(latency),
		LastChecked: time.Now().Format(time.RFC3339),
	}
}
