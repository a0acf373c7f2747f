package middleware

import (
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/api/http/problem"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/logging"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// backendWarnInterval bounds how often a failing backend is reported.
const backendWarnInterval = 30 * time.Second

// RateLimit enforces the per-client quota keyed by client IP.
// A failing backend lets the request through; the failure is logged at most
// once per backendWarnInterval.
func RateLimit(limiter ratelimit.Limiter, window string, logger *slog.Logger) gin.HandlerFunc {
	warn := &rate.Sometimes{Interval: backendWarnInterval}

	return func(c *gin.Context) {
		key := c.ClientIP()

		dec, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			warn.Do(func() {
				logging.FromContext(c.Request.Context(), logger).Warn("rate limiter unavailable, allowing requests",
					"backend", limiter.Backend(),
					"error", err,
				)
			})
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))

		if !dec.Allowed {
			secs := int(math.Ceil(dec.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			h.Set("Retry-After", strconv.Itoa(secs))
			problem.Abort(c, problem.RateLimited(dec.Limit, window))
			return
		}

		c.Next()
	}
}
