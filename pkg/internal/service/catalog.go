package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/configs"
	ctxPkg "github.com/yeisme/videocatalog/pkg/context"
	"github.com/yeisme/videocatalog/pkg/internal/crud"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/internal/storage/kv"
	nlog "github.com/yeisme/videocatalog/pkg/log"
	"github.com/yeisme/videocatalog/pkg/queue"
)

// Deps 目录服务依赖，除 DB 外均可为空.
type Deps struct {
	DB        *gorm.DB
	Files     VideoFiles
	KV        kv.KVStore
	Publisher queue.Publisher
	Config    *configs.AppConfig
}

// Catalog 四类资源的控制器集合.
type Catalog struct {
	Categories  *crud.Controller[*model.Category]
	Genres      *crud.Controller[*model.Genre]
	CastMembers *crud.Controller[*model.CastMember]
	Videos      *crud.Controller[*model.Video]

	Video *VideoResource
	deps  Deps
}

// NewCatalog 从请求 context 中的存储管理器构建目录服务.
func NewCatalog(c context.Context) *Catalog {
	deps := Deps{Config: configs.GetConfig()}

	if dbc := ctxPkg.GetDBClient(c); dbc != nil {
		deps.DB = dbc.GetDB()
	}

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		deps.Files = s3c
	}

	if kvc := ctxPkg.GetKVClient(c); kvc != nil {
		deps.KV = kvc.KVStore
	}

	if mqc := ctxPkg.GetMQClient(c); mqc != nil {
		deps.Publisher = mqc
	}

	return Build(deps)
}

// Build 使用显式依赖构建目录服务.
func Build(deps Deps) *Catalog {
	if deps.Config == nil {
		cfg := configs.Defaults()
		deps.Config = &cfg
	}

	cfg := deps.Config
	opts := []crud.Option{
		crud.WithPaging(cfg.Server.PerPage, cfg.Server.MaxPerPage),
		crud.WithLogger(nlog.Component("catalog")),
	}

	if deps.KV != nil && cfg.Cache.Enabled {
		opts = append(opts, crud.WithCache(cache.NewCache(deps.KV, cfg.Cache.Prefix), cfg.Cache.TTL))
	}

	if deps.Publisher != nil && cfg.Events.Enabled {
		opts = append(opts, crud.WithEvents(deps.Publisher, cfg.Events.Entity))
	}

	video := NewVideoResource(deps.Files, cfg.Upload)

	return &Catalog{
		Categories:  crud.NewController(deps.DB, CategoryResource{}, opts...),
		Genres:      crud.NewController(deps.DB, GenreResource{}, opts...),
		CastMembers: crud.NewController(deps.DB, CastMemberResource{}, opts...),
		Videos:      crud.NewController[*model.Video](deps.DB, video, opts...),
		Video:       video,
		deps:        deps,
	}
}

// DB 返回数据库句柄.
func (c *Catalog) DB() *gorm.DB { return c.deps.DB }
