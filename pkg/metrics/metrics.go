// Package metrics 提供 Prometheus 指标.
// 所有指标注册到默认注册表，与 gorm 连接池、watermill 发布订阅指标一起由 /metrics 暴露.
//
// Example:
//
//	if err := metrics.InitMetrics(cfg.Metrics); err != nil {
//		log.Fatal(err)
//	}
//
//	metrics.ObserveEntityOp("videos", "create", "ok")
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/videocatalog/pkg/configs"
	nlog "github.com/yeisme/videocatalog/pkg/log"
)

const namespace = configs.AppName

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器，endpoint 使用路由模板避免高基数.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// ActiveConnections 正在处理的请求数.
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Number of in-flight requests",
		},
	)

	// EntityOperations 资源控制器的操作计数，outcome 为 ok/invalid/not_found/error.
	EntityOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_operations_total",
			Help:      "Resource controller operations by outcome",
		},
		[]string{"resource", "operation", "outcome"},
	)

	// RelationLinks 关系同步时增删的关联行数.
	RelationLinks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relation_links_total",
			Help:      "Link rows inserted or deleted by relation synchronization",
		},
		[]string{"relation", "change"},
	)

	// UploadedBytes 上传到对象存储的视频文件字节数.
	UploadedBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes of video files written to object storage",
		},
		[]string{"field"},
	)

	// PurgedRows 回收站清理任务永久删除的行数.
	PurgedRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trash_purged_rows_total",
			Help:      "Rows hard-deleted by the trash purge job",
		},
		[]string{"resource"},
	)

	// JobRuns 定时任务执行次数，outcome 为 ok/error/panic.
	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled job executions by outcome",
		},
		[]string{"job", "outcome"},
	)

	registerOnce sync.Once
)

// InitMetrics 注册指标，重复调用只注册一次.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	var err error

	registerOnce.Do(func() {
		if !config.RuntimeMetrics {
			prometheus.Unregister(collectors.NewGoCollector())
			prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		}

		for _, c := range []prometheus.Collector{
			RequestCounter, RequestDuration, ActiveConnections,
			EntityOperations, RelationLinks, UploadedBytes, PurgedRows, JobRuns,
		} {
			if e := prometheus.Register(c); e != nil {
				var are prometheus.AlreadyRegisteredError
				if !errors.As(e, &are) {
					err = e
					return
				}
			}
		}
	})

	return err
}

// Handler 返回 /metrics 处理器.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer 在 Endpoint 上启动独立的指标服务，ctx 结束时关闭.
// Endpoint 为空时挂到 engine 的 /metrics.
func StartMetricsServer(ctx context.Context, config configs.MetricsConfig, engine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	if config.Endpoint == "" {
		engine.GET("/metrics", gin.WrapH(Handler()))
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{Addr: config.Endpoint, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	nlog.Logger().Info().Str("endpoint", config.Endpoint).Msg("metrics server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// ObserveEntityOp 记录一次控制器操作.
func ObserveEntityOp(resource, operation, outcome string) {
	EntityOperations.WithLabelValues(resource, operation, outcome).Inc()
}
