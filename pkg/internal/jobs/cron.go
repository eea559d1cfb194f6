// Package jobs 注册并实现业务定时任务.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/internal/service"
	"github.com/yeisme/videocatalog/pkg/log"
	"github.com/yeisme/videocatalog/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务. 目前只有回收站清理：按 trash.cron 永久删除
// 软删除超过 trash.retention_days 天的行及其视频文件.
func RegisterCronJobs(sched *scheduler.Scheduler, cat *service.Catalog, cfg configs.TrashConfig) error {
	if sched == nil {
		return errors.New("scheduler is nil")
	}

	if cat == nil {
		return errors.New("catalog is nil")
	}

	if !cfg.PurgeEnabled {
		return nil
	}

	return sched.AddCron(JobTrashPurge, cfg.Cron, func(ctx context.Context) error {
		_, err := PurgeTrash(ctx, cat.Purger(), cfg.RetentionDays)
		return err
	})
}

// PurgeTrash 执行一次清理，返回每类资源删除的行数.
func PurgeTrash(ctx context.Context, p *service.Purger, retentionDays int) (map[string]int64, error) {
	l := log.Component("jobs").With().Str("job", JobTrashPurge).Logger()

	before := time.Now().AddDate(0, 0, -max(retentionDays, 1))

	purged, err := p.Purge(ctx, before)
	if err != nil {
		l.Error().Err(err).Time("before", before).Msg("trash purge failed")
		return purged, err
	}

	var total int64

	ev := l.Info().Time("before", before)
	for resource, n := range purged {
		ev = ev.Int64(resource, n)
		total += n
	}

	ev.Int64("total", total).Msg("trash purged")

	return purged, nil
}
