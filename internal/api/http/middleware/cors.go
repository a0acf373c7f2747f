package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/api/http/problem"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows browser clients from the configured origins. A cross-origin
// request from any other origin is rejected with a problem response before
// the cors handler sees it, since that handler only writes a bare 403.
func CORS(origins []string) gin.HandlerFunc {
	handler := cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.ToLower(strings.TrimSpace(o))] = struct{}{}
	}
	_, allowAll := allowed["*"]

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && !allowAll && !sameHost(origin, c.Request.Host) {
			if _, ok := allowed[origin]; !ok {
				problem.Abort(c, problem.HTTPError(http.StatusForbidden, "Origin not allowed"))
				return
			}
		}
		handler(c)
	}
}

// sameHost matches the cors handler's rule for requests that carry an Origin
// header but are not cross-origin.
func sameHost(origin, host string) bool {
	return origin == "http://"+host || origin == "https://"+host
}
