package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/api/http/problem"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/logging"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Secure(), ErrorHandler(logging.Discard()), Recovery())
	r.Use(handlers...)
	return r
}

func TestSecure_SetsHeadersOnErrors(t *testing.T) {
	r := newEngine()
	r.GET("/fail", func(c *gin.Context) {
		problem.Abort(c, problem.HTTPError(http.StatusTeapot, "short and stout"))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	for k, v := range SecurityHeaders {
		assert.Equal(t, v, rr.Header().Get(k))
	}
}

func TestErrorHandler_LeavesWrittenResponses(t *testing.T) {
	r := newEngine()
	r.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusOK, "done")
		_ = c.Error(io.ErrUnexpectedEOF)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/partial", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "done", rr.Body.String())
}

func TestErrorHandler_LogsProblemType(t *testing.T) {
	var logs bytes.Buffer
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(logging.NewWithWriter(&logs, "test", "info")))
	r.NoRoute(NotFound)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, logs.String(), "type=/errors/http_error")
	assert.NotContains(t, logs.String(), "code=")
}

func TestRecovery_KeepsPanicValueOutOfLogs(t *testing.T) {
	var logs bytes.Buffer
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(logging.NewWithWriter(&logs, "test", "info")), Recovery())
	r.GET("/boom", func(c *gin.Context) {
		panic("bad entry: Secret Title by Hidden Author")
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "Secret Title")
	assert.Contains(t, logs.String(), "handler panicked (string)")
	assert.NotContains(t, logs.String(), "Secret Title")
	assert.NotContains(t, logs.String(), "Hidden Author")
}

func TestCORS_RejectsUnknownOrigin(t *testing.T) {
	r := newEngine(CORS([]string{"http://localhost:3000"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", origin)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	rr := send("http://localhost:3000")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = send("http://example.com")
	assert.Equal(t, http.StatusOK, rr.Code, "same host is not cross-origin")

	rr = send("https://evil.example")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, problem.ContentType, rr.Header().Get("Content-Type"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "/errors/http_error", body["type"])
	assert.Equal(t, "Origin not allowed", body["detail"])
	assert.EqualValues(t, http.StatusForbidden, body["status"])
}

func TestBodyLimit(t *testing.T) {
	r := newEngine(BodyLimit(16))
	r.POST("/echo", func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			require.ErrorAs(t, err, &tooLarge)
			problem.Abort(c, problem.PayloadTooLarge(tooLarge.Limit))
			return
		}
		c.String(http.StatusOK, string(b))
	})

	t.Run("within limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("0123456789abcdef")))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("declared length over limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 17))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("undeclared length over limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64)))
		req.ContentLength = -1
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "/errors/payload-too-large", body["type"])
	})
}

func TestRateLimit_Headers(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Requests: 2, Window: time.Minute}).
		WithClock(func() time.Time { return now })

	r := newEngine(RateLimit(limiter, "minute", logging.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		return rr
	}

	rr := get()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, get().Code)

	rr = get()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded: 2 per minute", body["detail"])
}

type downLimiter struct{}

func (downLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("dial tcp: connection refused")
}

func (downLimiter) Backend() string { return "redis" }

func TestRateLimit_FailOpenLogsOnce(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewWithWriter(&logs, "test", "info")

	r := newEngine(RateLimit(downLimiter{}, "minute", logger))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	}

	assert.Equal(t, 1, strings.Count(logs.String(), "rate limiter unavailable"))
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID(logging.Discard()))
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("a", maxRequestIDLen+1))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Len(t, rr.Header().Get(RequestIDHeader), 36)

	assert.Empty(t, GetRequestID(context.Background()))
}
