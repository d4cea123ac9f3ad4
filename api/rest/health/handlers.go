package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/algopatterns/catalog/internal/errors"
	"codeberg.org/algopatterns/catalog/internal/logger"
)

const pingTimeout = 2 * time.Second

// Version is overridden at build time with -ldflags "-X .../health.Version=..."
var Version = "dev"

// Handler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status:  "healthy",
		Service: service,
		Version: Version,
	})
}

// ReadyHandler godoc
// @Summary Readiness probe
// @Description Pings the row store and, when configured, the vector store
// @Tags health
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /ready [get]
func ReadyHandler(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		resp := ReadyResponse{Status: "ready", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK

		for _, check := range checks {
			if err := check.Pinger.Ping(ctx); err != nil {
				logger.FromContext(ctx).Warnw("readiness check failed", "check", check.Name, "error", err)

				resp.Checks[check.Name] = errors.Classify(err).Sanitized
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable

				continue
			}

			resp.Checks[check.Name] = "ok"
		}

		c.JSON(status, resp)
	}
}

func RegisterRoutes(router gin.IRoutes, checks ...Check) {
	router.GET("/health", Handler)
	router.GET("/ready", ReadyHandler(checks...))
}
