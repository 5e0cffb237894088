package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/service"
)

// Metrics records request count and latency per route and status code.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.ObserveHTTPRequest(c.Request.Method, route, status, time.Since(start))
	}
}
