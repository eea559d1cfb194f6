// Package middleware 提供 gin 中间件：请求日志、跨域、压缩、追踪、指标、限流、熔断与依赖注入.
package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// Common 按固定顺序返回全部通用中间件.
// 追踪在日志之前，日志才能带上 trace_id；限流与熔断在最后，被拒绝的请求同样计入指标.
func Common(cfg *configs.AppConfig) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		gin.Recovery(),
		TracingMiddleware(),
		ZeroLogger(),
		CORSMiddleware(cfg.Server),
	}

	if cfg.Server.Gzip {
		chain = append(chain, gzip.Gzip(gzip.DefaultCompression))
	}

	if cfg.Metrics.Enabled {
		chain = append(chain, PrometheusMiddleware())
	}

	return append(chain,
		RateLimitMiddleware(cfg.RateLimit),
		CircuitBreakerMiddleware(cfg.CircuitBreaker),
	)
}
