package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/videocatalog/pkg/context"
	"github.com/yeisme/videocatalog/pkg/internal/storage"
	"github.com/yeisme/videocatalog/pkg/scheduler"
)

type schedulerKey struct{}

// inject 返回把 wrap 应用到请求 context 的中间件.
func inject(wrap func(context.Context) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(wrap(c.Request.Context()))
		c.Next()
	}
}

// StorageMiddleware 把存储管理器放进请求 context，健康检查从中取各个客户端.
func StorageMiddleware(manager *storage.Manager) gin.HandlerFunc {
	return inject(func(ctx context.Context) context.Context {
		return ctxPkg.WithStorageManager(ctx, manager)
	})
}

// SchedulerMiddleware 将调度器注入请求 context.
func SchedulerMiddleware(sched *scheduler.Scheduler) gin.HandlerFunc {
	return inject(func(ctx context.Context) context.Context {
		return context.WithValue(ctx, schedulerKey{}, sched)
	})
}

// GetScheduler 从请求 context 中取出调度器，未注入时为 nil.
func GetScheduler(c *gin.Context) *scheduler.Scheduler {
	sched, _ := c.Request.Context().Value(schedulerKey{}).(*scheduler.Scheduler)
	return sched
}
