package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const CorrelationIDHeader = "Correlation-ID"

// Middleware attaches a correlation id and a logger to every request and
// logs the request once it completes.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		c.Header(CorrelationIDHeader, correlationID)

		entry := logrus.WithField("correlation_id", correlationID)
		ctx := ContextWithCorrelationID(c.Request.Context(), correlationID)
		ctx = ToContext(ctx, entry)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		entry = entry.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry.WithError(c.Errors.Last()).Error("request failed")
			return
		}
		entry.Info("request handled")
	}
}
