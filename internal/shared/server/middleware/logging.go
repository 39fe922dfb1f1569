package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"exitlayer/internal/shared/metrics"
	"exitlayer/internal/shared/telemetry"
)

// Logging emits a structured log and a request metric per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()

		metrics.ObserveRequest(c.Request.Method, route, status)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       route,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if token := SessionTokenFromContext(c); token != "" {
			fields["session_token"] = token
		}
		if admin := AdminSubjectFromContext(c); admin != "" {
			fields["admin"] = admin
		}
		if raw, ok := c.Get("statusTransition"); ok {
			if s, ok := raw.(string); ok {
				fields["status_transition"] = s
			}
		}
		telemetry.Info("request.complete", fields)
	}
}
