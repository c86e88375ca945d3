package main

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/config"
	docs "github.com/snnyvrz/shelfshare/apps/library-api/internal/docs"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/handler"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/logging"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/ratelimit"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/service"
)

const serviceName = "library-api"

// newRouter wires middleware, services and handlers. redisClient may be nil,
// in which case mutating routes are not rate limited.
func newRouter(cfg *config.Config, database *gorm.DB, redisClient *redis.Client, startTime time.Time) (*gin.Engine, error) {
	e := gin.New()
	e.Use(gin.Recovery(), logging.RequestID(), logging.RequestLog(serviceName))

	if err := e.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
	}); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	if len(cfg.CORSOrigins) > 0 {
		e.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowHeaders:  []string{"Origin", "Content-Type", logging.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", "Location", logging.RequestIDHeader},
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			MaxAge:        12 * time.Hour,
		}))
	}

	var healthOpts []handler.HealthOption
	if redisClient != nil {
		healthOpts = append(healthOpts, handler.WithRedis(redisClient))
	}
	handler.NewHealthHandler(database, startTime, appVersion, healthOpts...).RegisterRoutes(e)

	store := repository.NewStore(database)
	catalog := service.NewCatalogService(store)
	membership := service.NewMembershipService(store, service.WithEditMode(service.EditMode(cfg.ReaderEditMode)))
	loans := service.NewLoanService(store)

	api := e.Group("/api")
	if redisClient != nil {
		limiter, err := ratelimit.NewFixedWindowLimiter(redisClient, "", cfg.RateLimit, cfg.RateLimitWindow)
		if err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		api.Use(ratelimit.Middleware(limiter))
	}
	{
		handler.NewBookHandler(catalog).RegisterRoutes(api)
		handler.NewReaderHandler(membership).RegisterRoutes(api)
		handler.NewLoanHandler(loans).RegisterRoutes(api)
	}

	docs.SwaggerInfo.BasePath = "/api"
	e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return e, nil
}
