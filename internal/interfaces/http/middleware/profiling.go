package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling labels CPU samples with the route, the first API segment and
// the tenant so that profiles can be filtered per endpoint and per SPPG.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || route == "/health" || route == "/metrics" || strings.HasPrefix(route, "/swagger") {
			c.Next()
			return
		}
		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(profilingLabels(c, route)...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context, route string) []string {
	labels := []string{"http_method", c.Request.Method, "http_route", route}
	if module := routeModule(route); module != "" {
		labels = append(labels, "module", module)
	}
	if tenantID := GetTenantID(c); tenantID != "" {
		labels = append(labels, "tenant_id", tenantID)
	}
	return labels
}

// routeModule returns the first static segment after /api/v1
func routeModule(route string) string {
	for _, part := range strings.Split(strings.TrimPrefix(route, "/api/v1"), "/") {
		if part == "" || strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}
