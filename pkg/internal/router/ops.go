package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yeisme/videocatalog/docs"
	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/internal/handle"
)

// RegisterHealthCheckRoute 注册汇总与单组件健康检查: /health 与 /health/{db,s3,kv,mq}.
func RegisterHealthCheckRoute(r gin.IRouter) {
	g := r.Group("/health")
	g.GET("", handle.Health)

	for _, c := range []struct {
		path string
		h    gin.HandlerFunc
	}{
		{"/db", handle.HealthDB},
		{"/s3", handle.HealthS3},
		{"/kv", handle.HealthKV},
		{"/mq", handle.HealthMQ},
	} {
		g.GET(c.path, c.h)
	}
}

// RegisterVersionRoute 注册 /version.
func RegisterVersionRoute(r gin.IRouter) {
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": configs.AppName, "version": configs.AppVersion})
	})
}

// RegisterSwaggerRoute 开启 server.swagger 时注册 /swagger/*any，文档中的 host 取自监听地址.
func RegisterSwaggerRoute(r *gin.Engine, cfg configs.ServerConfig) {
	if !cfg.Swagger {
		return
	}

	docs.SwaggerInfo.Host = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	docs.SwaggerInfo.Version = configs.AppVersion

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
