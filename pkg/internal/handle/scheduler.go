package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yeisme/videocatalog/pkg/middleware"
)

// SchedulerJobs 返回所有定时任务信息.
//
//	@Summary	定时任务列表
//	@Tags		运维
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Router		/api/v1/scheduler/jobs [get]
func SchedulerJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusOK, gin.H{"jobs": []any{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": sched.GetJobInfos()})
}

// SchedulerStopJobs 停止所有任务.
//
//	@Summary	停止全部定时任务
//	@Tags		运维
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	500	{object}	types.ErrorResponse
//	@Router		/api/v1/scheduler/jobs/stop [post]
func SchedulerStopJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not running"})
		return
	}

	if err := sched.StopJobs(); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "jobs stopped"})
}

// SchedulerRemoveJob 根据 id 删除任务.
//
//	@Summary	删除定时任务
//	@Tags		运维
//	@Param		id	path		string	true	"任务ID"
//	@Success	200	{object}	map[string]string
//	@Failure	400	{object}	types.ErrorResponse
//	@Router		/api/v1/scheduler/jobs/{id} [delete]
func SchedulerRemoveJob(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not running"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	if err := sched.RemoveJob(id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "job removed"})
}

// SchedulerQueueWaiting 返回队列中等待的任务数.
func SchedulerQueueWaiting(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusOK, gin.H{"waiting": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"waiting": sched.JobsWaitingInQueue()})
}
