package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/modsentry/modsentry/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	return &metricsMiddleware{logger: logger}
}

// Middleware records per-request counters and latency. The route pattern is
// used as the path label so session IDs do not explode the cardinality.
func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()
		statusCode := c.Response().StatusCode()

		prometheus.RequestTotal.WithLabelValues(method, path, statusClass(statusCode)).Inc()
		prometheus.RequestLatency.WithLabelValues(method, path).Observe(float64(time.Since(startTime).Milliseconds()))

		return err
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return fmt.Sprintf("%dxx", code/100)
}
