package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestID ensures every request carries a stable X-Request-ID. A client
// supplied value is propagated, otherwise a fresh UUIDv4 is generated. The
// value is echoed in the response headers for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set("requestId", reqID)
		c.Next()
	}
}
