package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	ctxPkg "github.com/yeisme/videocatalog/pkg/context"
)

// ZeroLogger 使用 zerolog 记录请求日志，5xx 记为 error，4xx 记为 warn.
func ZeroLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		logger := ctxPkg.Logger(c.Request.Context(), "http")

		var event *zerolog.Event

		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		event = event.
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", c.FullPath()).
			Str("client_ip", c.ClientIP()).
			Int("size", c.Writer.Size())

		if len(c.Errors) > 0 {
			event = event.Str("error", c.Errors.String())
		}

		event.Msg("HTTP request")
	}
}
