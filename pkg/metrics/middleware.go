package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HTTPMetricsMiddleware tracks HTTP request metrics
func HTTPMetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		method := c.Method()
		path := sanitizePath(c.Path())
		statusStr := strconv.Itoa(status)

		HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()

		return err
	}
}

// sanitizePath keeps label cardinality bounded
func sanitizePath(path string) string {
	if strings.HasPrefix(path, "/static/") {
		return "/static"
	}

	switch path {
	case "/", "/add", "/user", "/new", "/health", "/ready", "/metrics":
		return path
	default:
		return "/other"
	}
}
