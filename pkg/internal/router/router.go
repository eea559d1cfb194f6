// Package router 管理路由配置，把 handle 包提供的处理器绑定到 gin 路由组.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/videocatalog/pkg/internal/handle"
	"github.com/yeisme/videocatalog/pkg/internal/service"
)

// ResourceHandlers 单个 REST 资源的处理器集合，由 handle.Resource 实现.
type ResourceHandlers interface {
	Name() string
	Index(c *gin.Context)
	Store(c *gin.Context)
	Show(c *gin.Context)
	Update(c *gin.Context)
	Destroy(c *gin.Context)
	DestroyCollection(c *gin.Context)
}

// Register 将资源路由绑定到传入的路由组:
//
//	GET    /{name}      -> Index
//	POST   /{name}      -> Store
//	DELETE /{name}      -> DestroyCollection
//	GET    /{name}/:id  -> Show
//	PUT    /{name}/:id  -> Update
//	PATCH  /{name}/:id  -> Update
//	DELETE /{name}/:id  -> Destroy
func Register(group *gin.RouterGroup, h ResourceHandlers) {
	r := group.Group("/" + h.Name())
	{
		r.GET("", h.Index)
		r.POST("", h.Store)
		r.DELETE("", h.DestroyCollection)
		r.GET("/:id", h.Show)
		r.PUT("/:id", h.Update)
		r.PATCH("/:id", h.Update)
		r.DELETE("/:id", h.Destroy)
	}
}

// RegisterCatalogRoutes 注册 categories、genres、cast_members 与 videos 四个资源.
func RegisterCatalogRoutes(g *gin.RouterGroup, cat *service.Catalog) {
	Register(g, handle.NewResource(cat.Categories))
	Register(g, handle.NewResource(cat.Genres))
	Register(g, handle.NewResource(cat.CastMembers))
	Register(g, handle.NewResource(cat.Videos))
}
