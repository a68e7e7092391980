package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/image-storage-api/utils/platformerrors"
	"github.com/janhq/image-storage-api/utils/requestid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID keeps a usable incoming X-Request-Id or issues a new one, echoes
// it on the response and stores it on both the gin and request contexts.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := requestid.Normalize(c.GetHeader(requestIDHeader))
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Set(requestIDKey, requestID)
		c.Request = c.Request.WithContext(platformerrors.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// RequestIDFromContext returns the request id stored in the gin context.
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
