package middleware

import (
	"strconv"
	"time"

	"github.com/Videeksha22/event-ticket-booking-system/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// Metrics records per-route request durations. Uses the route template
// rather than the raw path to keep label cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		monitoring.TrackHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
