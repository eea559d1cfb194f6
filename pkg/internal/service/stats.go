package service

import (
	"context"
	"fmt"

	"github.com/yeisme/videocatalog/pkg/internal/relation"
	"github.com/yeisme/videocatalog/pkg/internal/types"
)

type counter interface {
	Count(ctx context.Context) (active, trashed int64, err error)
}

// Stats 统计每类资源的活跃与已删除行数，以及每张关联表的行数.
func (c *Catalog) Stats(ctx context.Context) (types.StatsSummary, error) {
	resources := []struct {
		name string
		repo counter
	}{
		{"categories", c.Categories.Repository()},
		{"genres", c.Genres.Repository()},
		{"cast_members", c.CastMembers.Repository()},
		{"videos", c.Videos.Repository()},
	}

	summary := types.StatsSummary{Links: make(map[string]int64)}

	for _, r := range resources {
		active, trashed, err := r.repo.Count(ctx)
		if err != nil {
			return types.StatsSummary{}, err
		}

		summary.Resources = append(summary.Resources, types.ResourceCount{
			Resource: r.name,
			Total:    active + trashed,
			Active:   active,
			Trashed:  trashed,
		})
	}

	for _, d := range []relation.Declaration{GenreCategories, VideoCategories, VideoGenres, VideoCastMembers} {
		var n int64
		if err := c.deps.DB.WithContext(ctx).Table(d.Table).Count(&n).Error; err != nil {
			return types.StatsSummary{}, fmt.Errorf("count %s: %w", d.Table, err)
		}

		summary.Links[d.Table] = n
	}

	return summary, nil
}
