package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/internal/handle"
	"github.com/yeisme/videocatalog/pkg/internal/service"
	"github.com/yeisme/videocatalog/pkg/middleware"
)

// RegisterStatsRoutes 注册统计路由. respCache 为空时不缓存响应.
func RegisterStatsRoutes(g *gin.RouterGroup, cat *service.Catalog, respCache *cache.Cache, ttl time.Duration) {
	g.GET("/stats", middleware.ResponseCache(respCache, ttl), handle.Stats(cat))
}
