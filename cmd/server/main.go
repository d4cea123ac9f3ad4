package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/algopatterns/catalog/internal/config"
	"codeberg.org/algopatterns/catalog/internal/logger"
	"codeberg.org/algopatterns/catalog/internal/metrics"
	"codeberg.org/algopatterns/catalog/internal/retriever"
)

// @title Catalog Ask API
// @version 1.0
// @description Question answering over a dataset catalog
// @description
// @description Features:
// @description - Exact substring matches merged with nearest-neighbor matches
// @description - Optional answers grounded in the retrieved rows, with citations
// @description - Partial results when a provider is unavailable

// @contact.name API Support
// @contact.url https://codeberg.org/algopatterns/catalog

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token minted by cmd/token, required when JWT_SECRET is set. Format: Bearer {token}

func main() {
	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.FatalErr(err, "failed to load configuration")
	}

	if err := logger.Configure(cfg.Environment, cfg.LogLevel); err != nil {
		logger.FatalErr(err, "failed to configure logger")
	}
	defer logger.Sync()

	logger.Info("starting catalog server", "environment", cfg.Environment)

	metrics.Register()

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := NewServer(startupCtx, cfg)
	startupCancel()

	if err != nil {
		logger.FatalErr(err, "failed to create server")
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalErr(err, "server failed to start")
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// in-flight asks may still be waiting on a completion
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Retrieval.CompletionTimeout+5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.ErrorErr(err, "server forced to shutdown")
	}

	srv.Close()

	logger.Info("server stopped")
}

// long enough for one ask to run every stage to its timeout:
// every lexical lookup, one vector search, the embedding and the completion
func writeTimeout(cfg *config.Config) time.Duration {
	r := cfg.Retrieval
	lookups := time.Duration(retriever.MaxVariants + 1)

	return lookups*r.StoreTimeout + r.EmbeddingTimeout + r.CompletionTimeout + 5*time.Second
}
