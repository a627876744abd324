package middleware

import (
	"fmt"
	"time"

	"onchain-re-lending/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware writes one access line per request, tagged with the wizard
// session when the bearer token resolved one. Client errors log at WARN and
// server errors at ERROR; health and metrics scrapes only at DEBUG.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		line := fmt.Sprintf("%s %s %d %v ip=%s bytes=%d", c.Request.Method, path, status, time.Since(start), c.ClientIP(), c.Writer.Size())
		if sessionID := c.GetString(ContextSessionID); sessionID != "" {
			line += " session=" + sessionID
		}
		if last := c.Errors.Last(); last != nil {
			line += " error=" + last.Error()
		}

		switch {
		case status >= 500:
			logger.GlobalLogger.Errorf("%s", line)
		case status >= 400:
			logger.GlobalLogger.Warnf("%s", line)
		case path == "/health" || path == "/metrics":
			logger.GlobalLogger.Debugf("%s", line)
		default:
			logger.GlobalLogger.Printf("%s", line)
		}
	}
}
