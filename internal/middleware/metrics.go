package middleware

import (
	"strconv"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics counts handled requests by route template and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// RequestID echoes the caller's X-Request-ID so client and server logs can be joined.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-Request-ID"); id != "" {
			c.Header("X-Request-ID", id)
			c.Set("request_id", id)
		}
		c.Next()
	}
}
