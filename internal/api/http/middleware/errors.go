package middleware

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/api/http/problem"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/logging"
	"github.com/gin-gonic/gin"
)

var errPanic = errors.New("handler panicked")

// ErrorHandler is the single place where errors become problem responses.
// Handlers and middlewares only attach errors with c.Error and abort.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		d := problem.FromError(err, c.Request.URL.Path)

		log := logging.FromContext(c.Request.Context(), logger)
		level := slog.LevelWarn
		if d.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.Log(c.Request.Context(), level, "request failed",
			"correlation_id", d.CorrelationID,
			"status", d.Status,
			"type", d.Type,
			"path", c.Request.URL.Path,
			"error", err.Error(),
		)

		if c.Writer.Written() {
			return
		}
		problem.Respond(c, d)
	}
}

// Recovery turns a panic into the catch-all problem response. Only the type
// of the recovered value is kept: panic messages can carry request content.
// gin's own stack dump is discarded for the same reason.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		problem.Abort(c, fmt.Errorf("%w (%T)", errPanic, recovered))
	})
}

// NotFound handles requests that match no route.
func NotFound(c *gin.Context) {
	problem.Abort(c, problem.HTTPError(http.StatusNotFound, "Not Found"))
}

// MethodNotAllowed handles a known path requested with the wrong method.
func MethodNotAllowed(c *gin.Context) {
	problem.Abort(c, problem.HTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))
}
