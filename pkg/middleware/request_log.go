package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/issuetracker/pkg/logger"
	"github.com/gogotex/issuetracker/pkg/metrics"
)

// RequestLog logs each request through pkg/logger and records its latency.
// Unmatched routes are grouped under the "unmatched" label.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		switch {
		case status >= 500:
			logger.Errorf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, elapsed)
		case status >= 400:
			logger.Warnf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, elapsed)
		default:
			logger.Infof("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, elapsed)
		}
	}
}
