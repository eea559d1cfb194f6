// Package app 负责初始化配置、存储与 HTTP 服务，并管理它们的生命周期.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/videocatalog/pkg/api"
	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/configs"
	ctxPkg "github.com/yeisme/videocatalog/pkg/context"
	"github.com/yeisme/videocatalog/pkg/internal/jobs"
	"github.com/yeisme/videocatalog/pkg/internal/mq"
	"github.com/yeisme/videocatalog/pkg/internal/service"
	"github.com/yeisme/videocatalog/pkg/internal/storage"
	"github.com/yeisme/videocatalog/pkg/internal/storage/kv"
	"github.com/yeisme/videocatalog/pkg/log"
	"github.com/yeisme/videocatalog/pkg/metrics"
	"github.com/yeisme/videocatalog/pkg/middleware"
	"github.com/yeisme/videocatalog/pkg/scheduler"
	"github.com/yeisme/videocatalog/pkg/tracing"
)

// App 持有 HTTP 引擎与它依赖的全部资源.
type App struct {
	Engine *gin.Engine

	config  *configs.AppConfig
	manager *storage.Manager
	catalog *service.Catalog
	cache   *cache.Cache
	sched   *scheduler.Scheduler
	logger  zerolog.Logger
}

// NewApp 加载配置并初始化追踪、指标、存储、调度器与路由.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	if err := configs.InitConfig(configPath); err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}

	config := configs.GetConfig()
	log.Init()

	if err := tracing.InitTracer(config.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init scheduler: %w", err), manager.Close())
	}

	catalog := service.NewCatalog(ctxPkg.WithStorageManager(ctx, manager))

	if err := jobs.RegisterCronJobs(sched, catalog, config.Trash); err != nil {
		return nil, errors.Join(fmt.Errorf("register jobs: %w", err), manager.Close())
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	a := &App{
		Engine:  gin.New(),
		config:  config,
		manager: manager,
		catalog: catalog,
		sched:   sched,
		logger:  log.Component("app"),
	}

	if kvc := manager.GetKVClient(); kvc != nil {
		a.cache = cache.NewCache(kvc.KVStore, config.Cache.Prefix)

		// 先于中间件注册，对等节点请求不经过限流与熔断
		if ps, ok := kvc.KVStore.(kv.PeerServer); ok && ps.PeerHandler() != nil {
			a.Engine.Any(kv.PeerPath+"*path", gin.WrapH(ps.PeerHandler()))
		}
	}

	a.Engine.Use(middleware.Common(config)...)
	a.Engine.Use(
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
	)

	if config.Metrics.Enabled && config.Metrics.Endpoint == "" {
		a.Engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api.RegisterGroup(a.Engine, api.Options{
		Catalog:    catalog,
		Config:     config,
		StatsCache: a.cache,
	})

	return a, nil
}

// Run 启动 HTTP 服务、指标服务、调度器与事件消费者，ctx 结束后优雅关闭.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.ReadHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("addr", srv.Addr).Msg("http server started")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	if a.config.Metrics.Endpoint != "" {
		g.Go(func() error {
			return metrics.StartMetricsServer(ctx, a.config.Metrics, a.Engine)
		})
	}

	if mqc := a.manager.GetMQClient(); mqc != nil && a.cache != nil {
		inv := mq.NewCacheInvalidator(a.cache)

		g.Go(func() error {
			return mq.ConsumeAll(ctx, mqc, mq.InvalidationTopics(), inv.Handle)
		})
	}

	a.sched.Start()

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()

		return errors.Join(srv.Shutdown(shutdownCtx), a.sched.Shutdown())
	})

	err := g.Wait()

	return errors.Join(err, a.Close())
}

// Close 释放存储连接并刷新追踪数据.
func (a *App) Close() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	return errors.Join(tracing.ShutdownTracer(shutdownCtx), a.manager.Close())
}

// Catalog 返回目录服务.
func (a *App) Catalog() *service.Catalog { return a.catalog }
