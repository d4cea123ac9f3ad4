package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"codeberg.org/algopatterns/catalog/api/rest/ask"
	"codeberg.org/algopatterns/catalog/api/rest/health"
	"codeberg.org/algopatterns/catalog/internal/auth"
	"codeberg.org/algopatterns/catalog/internal/logger"
	"codeberg.org/algopatterns/catalog/internal/metrics"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(logger.RequestMiddleware())
	router.Use(CORSMiddleware(server.config.HTTP.CORSOrigins))
	router.Use(metrics.Middleware())

	checks := []health.Check{{Name: "postgres", Pinger: server.store}}
	if server.services.Qdrant != nil {
		checks = append(checks, health.Check{Name: "qdrant", Pinger: server.services.Qdrant})
	}

	health.RegisterRoutes(router, checks...)
	router.GET("/metrics", metrics.Handler())

	// auth runs first so the limiter can key on the client id
	var guards []gin.HandlerFunc
	if server.issuer != nil {
		guards = append(guards, auth.Middleware(server.issuer))
	}
	guards = append(guards, server.limiter.Middleware())

	v1 := router.Group("/api/v1")

	{
		ask.RegisterRoutes(v1, server.services.Ask, guards...)
	}
}

// allows every origin when none are configured
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
		ExposeHeaders: []string{logger.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
