package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "parcelhub/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"

	maxIncomingIDLen = 64
)

// Trace attaches a TraceContext to the request, reusing well-formed incoming
// IDs, and echoes both IDs in the response headers. Malformed IDs are
// replaced with generated ones.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext(incomingID(c, HeaderTraceID), incomingID(c, HeaderRequestID))

		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), trace))
		c.Set("trace_id", trace.TraceID)
		c.Set("request_id", trace.RequestID)

		c.Header(HeaderRequestID, trace.RequestID)
		c.Header(HeaderTraceID, trace.TraceID)

		c.Next()
	}
}

// incomingID returns the header value when it is a short token of letters,
// digits, '.', '_' or '-', and "" otherwise.
func incomingID(c *gin.Context, header string) string {
	v := c.GetHeader(header)
	if len(v) > maxIncomingIDLen {
		return ""
	}
	for i := 0; i < len(v); i++ {
		switch b := v[i]; {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		case b == '-', b == '_', b == '.':
		default:
			return ""
		}
	}
	return v
}
