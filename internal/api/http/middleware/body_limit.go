package middleware

import (
	"net/http"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/api/http/problem"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects a declared Content-Length above max before dispatch.
// Bodies without a declared length are capped while they are read; handlers
// see *http.MaxBytesError from the decoder once the cap is crossed.
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			problem.Abort(c, problem.PayloadTooLarge(max))
			return
		}

		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}
