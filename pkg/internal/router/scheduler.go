package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/videocatalog/pkg/internal/handle"
)

// RegisterSchedulerRoutes 注册调度器相关路由.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	jobs := g.Group("/scheduler")
	{
		jobs.GET("/jobs", handle.SchedulerJobs)
		jobs.POST("/jobs/stop", handle.SchedulerStopJobs)
		jobs.DELETE("/jobs/:id", handle.SchedulerRemoveJob)
		jobs.GET("/queue/waiting", handle.SchedulerQueueWaiting)
	}
}
