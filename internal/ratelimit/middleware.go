package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/logging"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

const CodeRateLimited = "RATE_LIMITED"

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Limit() int
	Window() time.Duration
}

// Middleware throttles state-changing requests per client IP. Reads pass
// through untouched. When the limiter backend fails the request is let
// through and the failure is logged.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ok, err := l.Allow(ctx, c.ClientIP())
		if err != nil {
			logging.FromContext(ctx).Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(l.Window().Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, validation.ErrorResponse{
				Code:    CodeRateLimited,
				Message: "too many requests, try again later",
			})
			return
		}

		c.Next()
	}
}
