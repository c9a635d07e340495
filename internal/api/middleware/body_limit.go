package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RS76448/attendencesystem/pkg/response"
)

// BodyLimit caps request bodies. Multipart uploads (timetable files) get
// uploadMax; every other body, JSON in practice, gets jsonMax.
func BodyLimit(jsonMax, uploadMax int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := jsonMax
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = uploadMax
		}
		if c.Request.ContentLength > limit {
			response.TooLarge(c, limit)
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		c.Next()

		if c.IsAborted() || c.Writer.Written() {
			return
		}
		for _, err := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(err.Err, &tooLarge) {
				response.TooLarge(c, limit)
				return
			}
		}
	}
}
