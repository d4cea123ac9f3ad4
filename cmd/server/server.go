package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"codeberg.org/algopatterns/catalog/internal/auth"
	"codeberg.org/algopatterns/catalog/internal/config"
	"codeberg.org/algopatterns/catalog/internal/evidence"
	"codeberg.org/algopatterns/catalog/internal/logger"
	"codeberg.org/algopatterns/catalog/internal/ratelimit"
	"codeberg.org/algopatterns/catalog/internal/storage"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	metric, err := evidence.ParseMetric(cfg.Retrieval.VectorMetric)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewClient(ctx, cfg.Database, storage.Options{Metric: metric})
	if err != nil {
		return nil, err
	}

	services, err := InitializeServices(ctx, cfg, store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	limiter, err := ratelimit.New(ctx, cfg.HTTP.RateLimit, cfg.HTTP.RedisURL)
	if err != nil {
		services.Close()
		store.Close()
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	var issuer *auth.Issuer
	if cfg.HTTP.JWTSecret != "" {
		issuer, err = auth.NewIssuer(cfg.HTTP.JWTSecret)
		if err != nil {
			limiter.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
			services.Close()
			store.Close()
			return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
		}
	}

	logger.Info("http guards initialized",
		"rate_limit", cfg.HTTP.RateLimit,
		"redis_limiter", cfg.HTTP.RedisURL != "",
		"api_tokens", issuer != nil,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		config:   cfg,
		store:    store,
		services: services,
		limiter:  limiter,
		issuer:   issuer,
		router:   router,
	}

	RegisterRoutes(router, server)

	return server, nil
}

// releases every client the server owns, best-effort
func (s *Server) Close() {
	if err := s.limiter.Close(); err != nil {
		logger.Warn("failed to close rate limiter", "error", err)
	}

	s.services.Close()
	s.store.Close()
}
