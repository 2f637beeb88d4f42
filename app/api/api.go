package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

var allowedHeaders = "Content-Type, " +
	"Content-Length, " +
	"Accept-Encoding, " +
	"Authorization, " +
	"accept, origin, " +
	"Cache-Control, " +
	"X-Requested-With, " +
	"X-Request-ID"

func CorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		c.Writer.Header().Set("Access-Control-Expose-Headers", RequestIDHeaderKey)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// HealthProbe reports whether a dependency is reachable.
type HealthProbe func(ctx context.Context) error

// HealthCheck returns the health status of the API and its dependencies.
// A failing "database" probe makes the service unhealthy; any other failing probe only degrades it.
// @Summary Health Check
// @Description Check if the API and its store and cache are reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/healthz [get]
func HealthCheck(environment, version string, probes map[string]HealthProbe) gin.HandlerFunc {
	names := make([]string, 0, len(probes))
	for name := range probes {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		components := make(gin.H, len(names))
		for _, name := range names {
			if err := probes[name](ctx); err != nil {
				components[name] = err.Error()
				if name == "database" {
					status, code = "unhealthy", http.StatusServiceUnavailable
				} else if status == "healthy" {
					status = "degraded"
				}
				continue
			}
			components[name] = "ok"
		}

		c.JSON(code, gin.H{
			"status":      status,
			"environment": environment,
			"version":     version,
			"components":  components,
		})
	}
}
