package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"

	"github.com/yeisme/videocatalog/pkg/configs"
	nlog "github.com/yeisme/videocatalog/pkg/log"
)

var errServerStatus = errors.New("server error status")

// CircuitBreakerMiddleware 基于 gobreaker 的熔断. 只有 5xx 计为失败，打开时直接返回 503.
func CircuitBreakerMiddleware(cfg configs.CircuitBreakerConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	logger := nlog.Component("circuit_breaker")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "http",
		MaxRequests: cfg.MaxRequestsInHalf,
		Interval:    cfg.Interval(),
		Timeout:     cfg.Timeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}

			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return func(c *gin.Context) {
		if cfg.Exempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		_, err := cb.Execute(func() (any, error) {
			c.Next()

			if c.Writer.Status() >= http.StatusInternalServerError {
				return nil, errServerStatus
			}

			return nil, nil
		})

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
		}
	}
}
