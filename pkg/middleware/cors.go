package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// CORSMiddleware 跨域中间件. 来源列表为空或包含 "*" 时允许全部来源.
func CORSMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AddAllowHeaders("Authorization", "X-Cache-Bypass")
	config.ExposeHeaders = []string{"X-Cache", "ETag"}
	config.MaxAge = 12 * time.Hour

	if cfg.Debug || len(cfg.CORSOrigins) == 0 || slices.Contains(cfg.CORSOrigins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = cfg.CORSOrigins
	}

	return cors.New(config)
}
