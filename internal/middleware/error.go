// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"realty_bureau_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrMethodNotAllowed is rendered for routes that exist under another method.
var ErrMethodNotAllowed = common.NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL.")

// ErrorHandler renders errors attached with c.Error by handlers that did not
// write a response, and the JSON envelopes for unknown routes and methods.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if last := c.Errors.Last(); last != nil {
			apiErr, isAPIErr := common.IsAPIError(last.Err)
			if !isAPIErr {
				logger.Error("Unhandled application error",
					zap.Error(last.Err),
					zap.String("path", c.Request.URL.Path),
					zap.Any("meta", last.Meta),
					zap.String("request_id", c.GetString(RequestIDContextKey)),
				)
				apiErr = common.ErrInternalServer
				if gin.Mode() == gin.DebugMode {
					apiErr = common.ErrInternalServer.WithDetails(last.Err.Error())
				}
			}
			c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
			return
		}

		switch c.Writer.Status() {
		case http.StatusNotFound:
			notFoundErr := common.ErrNotFound.WithDetails("The requested endpoint does not exist.")
			c.AbortWithStatusJSON(notFoundErr.StatusCode, notFoundErr)
		case http.StatusMethodNotAllowed:
			c.AbortWithStatusJSON(ErrMethodNotAllowed.StatusCode, ErrMethodNotAllowed)
		}
	}
}
