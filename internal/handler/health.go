package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db        *gorm.DB
	redis     redis.UniversalClient
	startTime time.Time
	version   string
}

type HealthOption func(*HealthHandler)

// WithRedis adds the rate limiter's Redis to the readiness report. The limiter
// lets requests through when Redis is down, so an outage only marks the
// service degraded.
func WithRedis(client redis.UniversalClient) HealthOption {
	return func(h *HealthHandler) {
		h.redis = client
	}
}

func NewHealthHandler(db *gorm.DB, startTime time.Time, version string, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		db:        db,
		startTime: startTime,
		version:   version,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HealthHandler) RegisterRoutes(e *gin.Engine) {
	e.GET("/health", h.Health)
	e.GET("/ready", h.Ready)
}

// Health godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  int64(uptime.Seconds()),
	})
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Pings the database and, when configured, Redis. A Redis outage reports degraded.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "failed to get underlying DB",
		})
		return
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"db": gin.H{
				"status": "down",
				"error":  err.Error(),
			},
		})
		return
	}

	body := gin.H{
		"status":  "ready",
		"version": h.version,
		"uptime":  int64(time.Since(h.startTime).Seconds()),
		"db": gin.H{
			"status": "up",
		},
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			body["status"] = "degraded"
			body["redis"] = gin.H{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			body["redis"] = gin.H{"status": "up"}
		}
	}

	c.JSON(http.StatusOK, body)
}
