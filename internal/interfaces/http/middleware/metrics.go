package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"hgigs.backend/internal/infrastructure/metrics"
)

// MetricsMiddleware observes request latency labelled by the matched route template
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
