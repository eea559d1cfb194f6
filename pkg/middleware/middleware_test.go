package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/internal/storage/kv"
	"github.com/yeisme/videocatalog/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestResponseCache(t *testing.T) {
	store, err := kv.NewMemoryKV(context.Background(), nil)
	require.NoError(t, err)

	calls := 0
	r := gin.New()
	r.GET("/stats", middleware.ResponseCache(cache.NewCache(store, "test"), time.Minute), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	first := do(t, r, httptest.NewRequest(http.MethodGet, "/stats?b=1&a=2", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := do(t, r, httptest.NewRequest(http.MethodGet, "/stats?a=2&b=1", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls, "query order does not change the key")

	etag := second.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/stats?a=2&b=1", nil)
	req.Header.Set("If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, do(t, r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/stats?a=2&b=1", nil)
	req.Header.Set(middleware.BypassHeader, "1")
	assert.Contains(t, do(t, r, req).Body.String(), `"calls":2`)
}

func TestRateLimitPerKey(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(configs.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1, Key: "header:X-Client"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := func(client string) int {
		rq := httptest.NewRequest(http.MethodGet, "/", nil)
		rq.Header.Set("X-Client", client)

		return do(t, r, rq).Code
	}

	assert.Equal(t, http.StatusNoContent, req("a"))
	assert.Equal(t, http.StatusTooManyRequests, req("a"))
	assert.Equal(t, http.StatusNoContent, req("b"), "limits are per key")
}

func TestRateLimitSkipsExemptPaths(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(configs.RateLimitConfig{
		Enabled:     true,
		RPS:         0.001,
		Burst:       1,
		Key:         "global",
		ExemptPaths: []string{"/health"},
	}))
	r.GET("/health/db", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/api/v1/genres", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for range 3 {
		assert.Equal(t, http.StatusNoContent, do(t, r, httptest.NewRequest(http.MethodGet, "/health/db", nil)).Code)
	}

	assert.Equal(t, http.StatusNoContent, do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/genres", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/genres", nil)).Code)
}

func TestCircuitBreakerOpensOnServerErrors(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CircuitBreakerMiddleware(configs.CircuitBreakerConfig{
		Enabled:           true,
		FailureRate:       0.5,
		MinRequests:       2,
		IntervalSeconds:   60,
		TimeoutSeconds:    60,
		MaxRequestsInHalf: 1,
	}))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for range 2 {
		assert.Equal(t, http.StatusInternalServerError, do(t, r, httptest.NewRequest(http.MethodGet, "/boom", nil)).Code)
	}

	assert.Equal(t, http.StatusServiceUnavailable, do(t, r, httptest.NewRequest(http.MethodGet, "/boom", nil)).Code)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/", middleware.BodyLimit(8), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("tiny")))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too large")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
