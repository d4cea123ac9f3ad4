package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"codeberg.org/algopatterns/catalog/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func preflight(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ask", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("configured origins", func(t *testing.T) {
		r := gin.New()
		r.Use(CORSMiddleware([]string{"https://catalog.example.com"}))
		r.POST("/api/v1/ask", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := preflight(r, "https://catalog.example.com")
		assert.Equal(t, "https://catalog.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		w = preflight(r, "https://evil.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("no origins allows all", func(t *testing.T) {
		r := gin.New()
		r.Use(CORSMiddleware(nil))
		r.POST("/api/v1/ask", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := preflight(r, "http://localhost:5173")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestWriteTimeout(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	// (8 lexical lookups + 1 vector search) * 5s + 10s + 45s + 5s
	assert.Equal(t, 105*time.Second, writeTimeout(cfg))
	assert.Greater(t, writeTimeout(cfg), cfg.Retrieval.CompletionTimeout)
}
