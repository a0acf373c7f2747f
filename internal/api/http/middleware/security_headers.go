package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders lists the headers attached to every response.
var SecurityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"X-XSS-Protection":        "1; mode=block",
	"Content-Security-Policy": "default-src 'self'",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Cache-Control":           "no-store, no-cache, must-revalidate",
	"Pragma":                  "no-cache",
}

// Secure sets the security headers before anything downstream can write, so
// success, error, rate-limited and oversized responses all carry them.
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range SecurityHeaders {
			h.Set(k, v)
		}
		c.Next()
	}
}
