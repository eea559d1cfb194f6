// Package api 把 router 包中的各组路由装配到 gin 引擎.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/internal/router"
	"github.com/yeisme/videocatalog/pkg/internal/service"
	"github.com/yeisme/videocatalog/pkg/middleware"
)

// Prefix 业务接口的路径前缀.
const Prefix = "/api/v1"

// Options 路由装配所需的依赖. StatsCache 为空时统计接口不缓存.
type Options struct {
	Catalog    *service.Catalog
	Config     *configs.AppConfig
	StatsCache *cache.Cache
}

// RegisterGroup 注册健康检查、文档与 /api/v1 下的全部路由.
func RegisterGroup(e *gin.Engine, o Options) *gin.Engine {
	cfg := o.Config
	if cfg == nil {
		d := configs.Defaults()
		cfg = &d
	}

	// multipart 表单超出该大小的部分落盘
	if cfg.Upload.MultipartMemory > 0 {
		e.MaxMultipartMemory = cfg.Upload.MultipartMemory
	}

	router.RegisterHealthCheckRoute(e)
	router.RegisterVersionRoute(e)
	router.RegisterSwaggerRoute(e, cfg.Server)

	v1 := e.Group(Prefix, middleware.BodyLimit(cfg.Upload.MaxRequestBytes))
	router.RegisterCatalogRoutes(v1, o.Catalog)
	router.RegisterStatsRoutes(v1, o.Catalog, o.StatsCache, cfg.Cache.TTL)
	router.RegisterSchedulerRoutes(v1)

	return e
}
