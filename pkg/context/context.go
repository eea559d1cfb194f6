// Package context 把存储管理器与追踪信息放进 context，供 handler、任务与命令行共享.
package context

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/videocatalog/pkg/internal/storage"
	dbc "github.com/yeisme/videocatalog/pkg/internal/storage/db"
	kvc "github.com/yeisme/videocatalog/pkg/internal/storage/kv"
	mqc "github.com/yeisme/videocatalog/pkg/internal/storage/mq"
	s3c "github.com/yeisme/videocatalog/pkg/internal/storage/s3"
	nlog "github.com/yeisme/videocatalog/pkg/log"
)

type managerKey struct{}

// WithStorageManager 将 Manager 存储到 context 中.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, mgr)
}

// GetManager 从 context 中获取 Manager，未注入时返回 nil.
func GetManager(ctx context.Context) *storage.Manager {
	mgr, _ := ctx.Value(managerKey{}).(*storage.Manager)
	return mgr
}

// backend 取出 Manager 中的某个后端，Manager 或后端缺失时返回零值.
func backend[T any](ctx context.Context, pick func(*storage.Manager) T) T {
	var zero T

	mgr := GetManager(ctx)
	if mgr == nil {
		return zero
	}

	return pick(mgr)
}

func GetS3Client(ctx context.Context) *s3c.Client {
	return backend(ctx, (*storage.Manager).GetS3Client)
}

func GetDBClient(ctx context.Context) *dbc.Client {
	return backend(ctx, (*storage.Manager).GetDBClient)
}

func GetMQClient(ctx context.Context) *mqc.Client {
	return backend(ctx, (*storage.Manager).GetMQClient)
}

func GetKVClient(ctx context.Context) *kvc.Client {
	return backend(ctx, (*storage.Manager).GetKVClient)
}

// Logger 返回组件日志器，请求处于采样的 span 中时附带 trace_id 与 span_id.
func Logger(ctx context.Context, component string) zerolog.Logger {
	l := nlog.Component(component)

	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsSampled() {
		return l
	}

	return l.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
}
