package middleware

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware logs a panicking handler with its request id and answers
// 500, quoting the id so a client report can be matched to the log line.
// gin's own recovery output is discarded in favour of the zap entry.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RecoveryMiddleware requires a non-nil zap.Logger instance")
	}
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		requestID := c.GetString(ContextRequestID)
		logger.Error("Handler panicked",
			zap.Any("panic", recovered),
			zap.Stack("stacktrace"),
			zap.String("route", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.String("request_id", requestID),
		)
		if c.Writer.Written() {
			c.Abort()
			return
		}
		resp := ErrorResponse{Error: "Internal Server Error"}
		if requestID != "" {
			resp.Details = "request " + requestID
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
	})
}
