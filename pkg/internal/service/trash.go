package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	nlog "github.com/yeisme/videocatalog/pkg/log"
	"github.com/yeisme/videocatalog/pkg/metrics"
	"github.com/yeisme/videocatalog/pkg/queue"
)

// purgeTarget 一类实体及引用它的关联表列.
type purgeTarget struct {
	resource string
	model    func() any
	links    [][2]string // {table, column}
}

var purgeTargets = []purgeTarget{
	{
		resource: "videos",
		model:    func() any { return &model.Video{} },
		links: [][2]string{
			{"category_video", "video_id"},
			{"genre_video", "video_id"},
			{"cast_member_video", "video_id"},
		},
	},
	{
		resource: "genres",
		model:    func() any { return &model.Genre{} },
		links:    [][2]string{{"category_genre", "genre_id"}, {"genre_video", "genre_id"}},
	},
	{
		resource: "cast_members",
		model:    func() any { return &model.CastMember{} },
		links:    [][2]string{{"cast_member_video", "cast_member_id"}},
	},
	{
		resource: "categories",
		model:    func() any { return &model.Category{} },
		links:    [][2]string{{"category_genre", "category_id"}, {"category_video", "category_id"}},
	},
}

// Purger 永久删除软删除超过保留期的行，连同关联行与视频文件.
type Purger struct {
	db        *gorm.DB
	files     *VideoFileHolder
	publisher queue.Publisher
	events    configs.EventsConfig
	batchSize int
}

// Purger 返回回收站清理器.
func (c *Catalog) Purger() *Purger {
	return &Purger{
		db:        c.deps.DB,
		files:     c.Video.VideoFileHolder,
		publisher: c.deps.Publisher,
		events:    c.deps.Config.Events,
		batchSize: c.deps.Config.Trash.BatchSize,
	}
}

// Purge 清理 before 之前软删除的行，返回每类资源删除的行数.
func (p *Purger) Purge(ctx context.Context, before time.Time) (map[string]int64, error) {
	out := make(map[string]int64, len(purgeTargets))

	for _, t := range purgeTargets {
		n, err := p.purge(ctx, t, before)
		out[t.resource] = n

		if err != nil {
			return out, err
		}
	}

	return out, nil
}

func (p *Purger) purge(ctx context.Context, t purgeTarget, before time.Time) (int64, error) {
	batch := max(p.batchSize, 1)

	var total int64

	for {
		var ids []string

		err := p.db.WithContext(ctx).Unscoped().Model(t.model()).
			Where("deleted_at IS NOT NULL AND deleted_at < ?", before).
			Order("deleted_at").Limit(batch).
			Pluck("id", &ids).Error
		if err != nil {
			return total, fmt.Errorf("purge %s: %w", t.resource, err)
		}

		if len(ids) == 0 {
			return total, nil
		}

		var videos []model.Video
		if t.resource == "videos" {
			if err := p.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&videos).Error; err != nil {
				return total, fmt.Errorf("purge %s: %w", t.resource, err)
			}
		}

		err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, link := range t.links {
				if err := tx.Exec("DELETE FROM ? WHERE ? IN ?",
					clause.Table{Name: link[0]}, clause.Column{Name: link[1]}, ids).Error; err != nil {
					return err
				}
			}

			return tx.Unscoped().Where("id IN ?", ids).Delete(t.model()).Error
		})
		if err != nil {
			return total, fmt.Errorf("purge %s: %w", t.resource, err)
		}

		total += int64(len(ids))
		metrics.PurgedRows.WithLabelValues(t.resource).Add(float64(len(ids)))

		for i := range videos {
			p.purgeFiles(ctx, &videos[i])
		}

		p.publish(ctx, t.resource, ids)

		if len(ids) < batch {
			return total, nil
		}
	}
}

func (p *Purger) purgeFiles(ctx context.Context, v *model.Video) {
	if p.files == nil {
		return
	}

	deleted := p.files.DeleteAll(ctx, v)
	if len(deleted) == 0 || !p.eventsOn() {
		return
	}

	payload := queue.FilesPayload{VideoID: v.ID, Files: deleted}
	if err := queue.PublishFilesPurged(ctx, p.publisher, payload, queue.WithProducer(configs.AppName)); err != nil {
		l := nlog.Component("trash")
		l.Error().Err(err).Str("video_id", v.ID).Msg("publish files purged failed")
	}
}

func (p *Purger) eventsOn() bool {
	return p.publisher != nil && p.events.Enabled && p.events.Entity.Purged
}

func (p *Purger) publish(ctx context.Context, resource string, ids []string) {
	if !p.eventsOn() {
		return
	}

	payload := queue.EntityPayload{Resource: resource, Action: queue.ActionPurged, IDs: ids}
	if err := queue.PublishEntity(ctx, p.publisher, resource, payload, queue.WithProducer(configs.AppName)); err != nil {
		l := nlog.Component("trash")
		l.Error().Err(err).Str("resource", resource).Msg("publish purge event failed")
	}
}
