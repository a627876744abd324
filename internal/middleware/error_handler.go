package middleware

import (
	"onchain-re-lending/internal/errors"
	"onchain-re-lending/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler catches errors and returns standardized responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := errors.MapError(err)

		// Log technical details
		if appErr.HTTPStatus >= 500 {
			logger.GlobalLogger.Errorf("Request failed: path=%s, method=%s, client_ip=%s, code=%s, error=%s",
				c.Request.URL.Path,
				c.Request.Method,
				c.ClientIP(),
				appErr.Code,
				appErr.Error())
		} else {
			logger.GlobalLogger.Printf("Request rejected: path=%s, method=%s, client_ip=%s, code=%s, error=%s",
				c.Request.URL.Path,
				c.Request.Method,
				c.ClientIP(),
				appErr.Code,
				appErr.TechnicalMessage)
		}

		c.JSON(appErr.HTTPStatus, appErr.Body())
	}
}
