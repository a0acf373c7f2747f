package http

import (
	"context"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Entries   int       `json:"entries"`
	RateLimit string    `json:"rate_limit"`
}

// EntryCounter reports how many entries the store holds.
type EntryCounter interface {
	Count() int
}

type HealthHandler struct {
	serviceName string
	version     string
	entries     EntryCounter
	limiter     ratelimit.Limiter
}

func NewHealthHandler(serviceName, version string, entries EntryCounter, limiter ratelimit.Limiter) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		entries:     entries,
		limiter:     limiter,
	}
}

// Liveness is the minimal probe.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	limiterStatus := "disabled"
	if h.limiter != nil {
		limiterStatus = h.limiter.Backend()
		if p, ok := h.limiter.(ratelimit.Pinger); ok {
			pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
			defer cancel()

			if err := p.Ping(pingCtx); err != nil {
				limiterStatus = "down"
			} else {
				limiterStatus = "up"
			}
		}
	}

	count := 0
	if h.entries != nil {
		count = h.entries.Count()
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Entries:   count,
		RateLimit: limiterStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Liveness)
	r.GET("/healthz", h.HealthCheck)
}
