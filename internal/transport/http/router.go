// Package http assembles the gin engine serving the quote pricing API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/light-bringer/quote-pricing-service/internal/transport/http/middleware"
	"github.com/light-bringer/quote-pricing-service/internal/transport/http/quote"
)

// RouterConfig controls the engine's middleware.
type RouterConfig struct {
	RateLimitPerMinute int
}

// NewRouter builds the engine with recovery, request logging and per-IP rate limiting
// in front of the /api/v1 quote routes.
func NewRouter(handler *quote.Handler, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	if cfg.RateLimitPerMinute > 0 {
		router.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute, logger).Middleware())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}
