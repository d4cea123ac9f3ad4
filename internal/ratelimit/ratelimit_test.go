package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, rate string, setClient string) *gin.Engine {
	t.Helper()

	l, err := New(context.Background(), rate, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if setClient != "" {
			c.Set("client_id", setClient)
		}
		c.Next()
	})
	r.Use(l.Middleware())
	r.POST("/ask", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r
}

func doRequest(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/ask", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNew_InvalidRate(t *testing.T) {
	_, err := New(context.Background(), "sixty per minute", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rate limit")
}

func TestNew_InvalidRedisURL(t *testing.T) {
	_, err := New(context.Background(), "10-M", "not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis URL")
}

func TestMiddleware_LimitsPerIP(t *testing.T) {
	r := newRouter(t, "2-M", "")

	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1:1234").Code)

	w := doRequest(r, "10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = doRequest(r, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "too_many_requests")

	// a different address has its own budget
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.2:1234").Code)
}

func TestMiddleware_KeysOnClientID(t *testing.T) {
	r := newRouter(t, "1-M", "ui")

	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1:1234").Code)
	// same client from another address shares the counter
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.9:1234").Code)
}

func TestClose_WithoutRedis(t *testing.T) {
	l, err := New(context.Background(), "5-S", "")
	require.NoError(t, err)
	assert.NoError(t, l.Close())
}
