package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger tags each request with an id and logs method, path, status
// and latency once the handler chain returns.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)

		start := time.Now()
		c.Next()

		log.LogAPI(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
