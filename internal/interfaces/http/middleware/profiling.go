package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retaildash/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	// Enabled controls whether profiling labels are added to requests.
	Enabled bool
	// SkipPaths are paths that don't need profiling labels.
	SkipPaths []string
}

// DefaultProfilingConfig returns the profiling middleware defaults
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health", "/metrics"},
	}
}

// Profiling labels each request's CPU and allocation samples with the route
// pattern, the HTTP method and the resource, so Pyroscope can slice them.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		route := c.FullPath()
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:    c.Request.Method,
			telemetry.ProfilingLabelRoute:     route,
			telemetry.ProfilingLabelOperation: resourceFromRoute(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first segment after /api/vN,
// e.g. "/api/v1/orders/:id" -> "orders"
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || (s[0] != 'v' && s[0] != 'V') {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
