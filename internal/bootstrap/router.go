package bootstrap

import (
	"fmt"
	"log/slog"

	httpapi "github.com/GoSim-25-26J-441/reading-list-api/internal/api/http"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/ratelimit"
	readinghttp "github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/http"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/service"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	MaxBodyBytes   int64
	RateWindow     string
	TrustedProxies []string
	AllowedOrigins []string
	Entries        *service.EntryService
	Limiter        ratelimit.Limiter
	Logger         *slog.Logger
}

// BuildRouter composes the middleware chain once, in order:
// request id, security headers, error boundary, panic recovery, CORS,
// body size guard, rate limiter. Then the routes.
func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	// Redirects are written before any middleware runs and would miss the security headers.
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	if err := r.SetTrustedProxies(dep.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r.Use(middleware.RequestID(dep.Logger))
	r.Use(middleware.Secure())
	r.Use(middleware.ErrorHandler(dep.Logger))
	r.Use(middleware.Recovery())
	if len(dep.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(dep.AllowedOrigins))
	}
	r.Use(middleware.BodyLimit(dep.MaxBodyBytes))
	if dep.Limiter != nil {
		r.Use(middleware.RateLimit(dep.Limiter, dep.RateWindow, dep.Logger))
	}

	r.NoRoute(middleware.NotFound)
	r.NoMethod(middleware.MethodNotAllowed)

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Entries, dep.Limiter)
	healthHandler.RegisterRoutes(r)

	entriesHandler := readinghttp.New(dep.Entries)
	entriesHandler.Register(r.Group("/entries"))

	return r, nil
}
