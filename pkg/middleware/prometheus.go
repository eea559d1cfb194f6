package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/videocatalog/pkg/metrics"
)

// PrometheusMiddleware 记录请求数、耗时与在途请求. endpoint 取路由模板，未匹配的路由记为 "unmatched".
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		method := c.Request.Method
		metrics.RequestCounter.WithLabelValues(method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}
