package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the gin context key the request ID is stored
// under; buildMetadata reads it back when assembling the envelope.
const ContextKeyRequestID = "request_id"

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an ID for log and envelope
// correlation. An inbound X-Request-ID is kept so IDs survive proxies;
// otherwise a fresh UUID is issued. The ID is echoed on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header(requestIDHeader, reqID)
		c.Next()
	}
}
