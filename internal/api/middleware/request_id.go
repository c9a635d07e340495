package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/RS76448/attendencesystem/pkg/response"
)

const (
	requestIDKey    = response.RequestIDKey
	requestIDHeader = "X-Request-ID"
	requestIDMaxLen = 64
)

// RequestID propagates X-Request-ID. A missing, oversized or non-token id is
// replaced with a UUID so that it is safe to log and to echo in error bodies.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}

		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)

		c.Next()
	}
}

// validRequestID accepts 1-64 characters of [A-Za-z0-9._-].
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > requestIDMaxLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		switch ch := rid[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_' || ch == '.':
		default:
			return false
		}
	}
	return true
}
