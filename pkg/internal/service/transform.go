package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/internal/types"
)

func deletedAt(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}

	t := d.Time
	return &t
}

// CategoryView 分类的对外表示.
func CategoryView(c *model.Category) types.Category {
	return types.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		DeletedAt:   deletedAt(c.DeletedAt),
	}
}

func categoryViews(in []model.Category) []types.Category {
	out := make([]types.Category, 0, len(in))
	for i := range in {
		out = append(out, CategoryView(&in[i]))
	}

	return out
}

// GenreView 类型的对外表示，包含关联的分类.
func GenreView(g *model.Genre) types.Genre {
	return types.Genre{
		ID:         g.ID,
		Name:       g.Name,
		IsActive:   g.IsActive,
		Categories: categoryViews(g.Categories),
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
		DeletedAt:  deletedAt(g.DeletedAt),
	}
}

func genreViews(in []model.Genre) []types.Genre {
	out := make([]types.Genre, 0, len(in))
	for i := range in {
		out = append(out, GenreView(&in[i]))
	}

	return out
}

// CastMemberView 演职人员的对外表示.
func CastMemberView(m *model.CastMember) types.CastMember {
	return types.CastMember{
		ID:        m.ID,
		Name:      m.Name,
		Type:      int(m.Type),
		TypeName:  m.Type.String(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: deletedAt(m.DeletedAt),
	}
}

func castMemberViews(in []model.CastMember) []types.CastMember {
	out := make([]types.CastMember, 0, len(in))
	for i := range in {
		out = append(out, CastMemberView(&in[i]))
	}

	return out
}

// VideoView 视频的对外表示. urlFn 为 nil 时不生成文件地址.
func VideoView(v *model.Video, urlFn func(videoID, name string) string) types.Video {
	url := func(name *string) *string {
		if name == nil || *name == "" || urlFn == nil {
			return nil
		}

		u := urlFn(v.ID, *name)
		return &u
	}

	return types.Video{
		ID:             v.ID,
		Title:          v.Title,
		Description:    v.Description,
		YearLaunched:   v.YearLaunched,
		Opened:         v.Opened,
		Rating:         v.Rating,
		Duration:       v.Duration,
		ThumbFile:      v.ThumbFile,
		BannerFile:     v.BannerFile,
		TrailerFile:    v.TrailerFile,
		VideoFile:      v.VideoFile,
		ThumbFileURL:   url(v.ThumbFile),
		BannerFileURL:  url(v.BannerFile),
		TrailerFileURL: url(v.TrailerFile),
		VideoFileURL:   url(v.VideoFile),
		Categories:     categoryViews(v.Categories),
		Genres:         genreViews(v.Genres),
		CastMembers:    castMemberViews(v.CastMembers),
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
		DeletedAt:      deletedAt(v.DeletedAt),
	}
}
