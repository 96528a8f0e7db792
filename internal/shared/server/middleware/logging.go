package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

// Logging emits one structured line per completed request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if feature, ok := c.Get(usageFeatureKey); ok {
			fields["usage_feature"] = feature
		}
		telemetry.Info("request.complete", fields)
	}
}

const usageFeatureKey = "usageFeature"

// TagUsageFeature marks the request with the usage feature it consumed so
// request logs can be grouped by gated feature.
func TagUsageFeature(c *gin.Context, feature string) {
	if c != nil && feature != "" {
		c.Set(usageFeatureKey, feature)
	}
}
