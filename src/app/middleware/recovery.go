package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"contactsapi/src/app/http/response"
)

// Recovery turns a panicking handler into a 500 response with the standard
// error envelope. Install it first so it wraps every other middleware.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		requestID := GetRequestID(c)
		log.Error("panic recovered",
			"request_id", requestID,
			"panic", recovered,
			"method", c.Request.Method,
			"route", c.FullPath(),
			"stack", string(debug.Stack()),
		)

		if c.Writer.Written() {
			c.Abort()
			return
		}
		response.InternalError(c, requestID)
		c.Abort()
	})
}
